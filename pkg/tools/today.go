package tools

import (
	"context"
	"time"
)

// TodayTool reports the current date and time in a fixed zone.
type TodayTool struct {
	loc *time.Location
	now func() time.Time
}

func NewTodayTool(loc *time.Location) *TodayTool {
	if loc == nil {
		loc = time.Local
	}
	return &TodayTool{loc: loc, now: time.Now}
}

func (t *TodayTool) Name() string { return "today" }

func (t *TodayTool) Description() string {
	return "Get the current date and time (RFC 3339) in " + t.loc.String() + "."
}

func (t *TodayTool) Parameters() map[string]any { return emptyObjectSchema() }

func (t *TodayTool) Execute(context.Context, map[string]any) *ToolResult {
	return NewToolResult(t.now().In(t.loc).Format(time.RFC3339))
}
