// Package github lists pull requests through the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/xqm32/guyubot/pkg/utils"
)

const (
	DefaultAPIBase = "https://api.github.com"
	apiVersion     = "2022-11-28"
)

type PullRequest struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
	State   string `json:"state"`
}

type Client struct {
	apiBase    string
	token      string
	httpClient *http.Client
}

func NewClient(apiBase, token string, httpClient *http.Client) *Client {
	apiBase = strings.TrimRight(strings.TrimSpace(apiBase), "/")
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	if httpClient == nil {
		httpClient = utils.NewHTTPClient()
	}
	return &Client{apiBase: apiBase, token: token, httpClient: httpClient}
}

// LatestPullRequest returns the most recently updated pull request in any
// state, or nil when the repository has none.
func (c *Client) LatestPullRequest(ctx context.Context, owner, repo string) (*PullRequest, error) {
	q := url.Values{}
	q.Set("state", "all")
	q.Set("sort", "updated")
	q.Set("direction", "desc")
	q.Set("per_page", "1")
	endpoint := fmt.Sprintf("%s/repos/%s/%s/pulls?%s",
		c.apiBase, url.PathEscape(owner), url.PathEscape(repo), q.Encode())

	header := http.Header{}
	header.Set("Accept", "application/vnd.github+json")
	header.Set("X-GitHub-Api-Version", apiVersion)
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}

	var pulls []PullRequest
	if err := utils.GetJSON(ctx, c.httpClient, endpoint, header, &pulls); err != nil {
		return nil, fmt.Errorf("listing pull requests of %s/%s: %w", owner, repo, err)
	}
	if len(pulls) == 0 {
		return nil, nil
	}
	return &pulls[0], nil
}
