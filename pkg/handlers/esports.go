package handlers

import (
	"context"
	"time"

	"github.com/xqm32/guyubot/pkg/commands"
	"github.com/xqm32/guyubot/pkg/esports"
)

func listMatches(b *esports.Bilibili, loc *time.Location, now func() time.Time) commands.Handler {
	return func(ctx context.Context, req commands.Request) (string, error) {
		args := commands.Fields(req.Text)
		if len(args) > 2 {
			return "", commands.Preconditionf("usage: lol [start [end]]")
		}

		start := now().In(loc)
		end := start
		if len(args) > 0 {
			t, err := esports.ParseDate(args[0], loc)
			if err != nil {
				return "", commands.Preconditionf("%v", err)
			}
			start, end = t, t
		}
		if len(args) > 1 {
			t, err := esports.ParseDate(args[1], loc)
			if err != nil {
				return "", commands.Preconditionf("%v", err)
			}
			end = t
		}
		if end.Before(start) {
			return "", commands.Preconditionf("end date %s is before start date %s",
				end.Format(esports.DateLayout), start.Format(esports.DateLayout))
		}

		matches, err := b.Matches(ctx, start, end)
		if err != nil {
			return "", err
		}
		return esports.FormatMatches(matches, loc), nil
	}
}

func currentLPLMatch(l *esports.LPL) commands.Handler {
	return func(ctx context.Context, _ commands.Request) (string, error) {
		match, err := l.CurrentMatch(ctx)
		if err != nil {
			return "", err
		}
		if match == nil {
			return esports.NoLPLMatchMessage, nil
		}
		return match.String(), nil
	}
}
