package tools

import (
	"context"

	"github.com/xqm32/guyubot/pkg/esports"
)

// CurrentMatchSource yields the live or next LPL match, or nil when there is
// none.
type CurrentMatchSource interface {
	CurrentMatch(ctx context.Context) (*esports.LPLMatch, error)
}

// LoLTool lets the model look up the current LPL match.
type LoLTool struct {
	source CurrentMatchSource
}

func NewLoLTool(source CurrentMatchSource) *LoLTool {
	return &LoLTool{source: source}
}

func (t *LoLTool) Name() string { return "lol" }

func (t *LoLTool) Description() string {
	return "Get the ongoing or next upcoming LPL (League of Legends Pro League) match with its score."
}

func (t *LoLTool) Parameters() map[string]any { return emptyObjectSchema() }

func (t *LoLTool) Execute(ctx context.Context, _ map[string]any) *ToolResult {
	match, err := t.source.CurrentMatch(ctx)
	if err != nil {
		return ErrorResult("failed to fetch LPL schedule").WithError(err)
	}
	if match == nil {
		return NewToolResult(esports.NoLPLMatchMessage)
	}
	return NewToolResult(match.String())
}
