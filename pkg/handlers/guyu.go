package handlers

import (
	"context"

	"github.com/xqm32/guyubot/pkg/commands"
	"github.com/xqm32/guyubot/pkg/github"
)

func latestPullRequest(c *github.Client, owner, repo string) commands.Handler {
	return func(ctx context.Context, _ commands.Request) (string, error) {
		pr, err := c.LatestPullRequest(ctx, owner, repo)
		if err != nil {
			return "", err
		}
		if pr == nil {
			return "No pull requests found.", nil
		}
		return pr.Title + "\n" + pr.HTMLURL, nil
	}
}
