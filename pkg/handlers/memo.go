package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/xqm32/guyubot/pkg/commands"
	"github.com/xqm32/guyubot/pkg/kv"
)

const memoUsage = "usage: memo set <key> <value> | memo <key>"

// "set" is matched as a whole word so keys like "settle" are looked up
// rather than parsed as writes.
func memoRules(store kv.Store) commands.Rules {
	return commands.Rules{
		{Token: "set", Handle: func(ctx context.Context, req commands.Request) (string, error) {
			key, value := commands.SplitToken(req.Text)
			if key == "" || value == "" {
				return "", commands.Preconditionf("%s", memoUsage)
			}
			if err := store.Put(ctx, key, value); err != nil {
				return "", err
			}
			return fmt.Sprintf("Saved %s.", key), nil
		}},
		{Prefix: "", Handle: func(ctx context.Context, req commands.Request) (string, error) {
			if req.Text == "" {
				return "", commands.Preconditionf("%s", memoUsage)
			}
			value, err := store.Get(ctx, req.Text)
			if errors.Is(err, kv.ErrNotFound) {
				return fmt.Sprintf("No memo for %s.", req.Text), nil
			}
			if err != nil {
				return "", err
			}
			return value, nil
		}},
	}
}
