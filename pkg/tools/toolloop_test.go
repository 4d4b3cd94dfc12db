package tools

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xqm32/guyubot/pkg/esports"
	"github.com/xqm32/guyubot/pkg/logger"
	"github.com/xqm32/guyubot/pkg/providers"
)

// scriptedProvider replays responses in order and records every request.
type scriptedProvider struct {
	responses []*providers.LLMResponse
	err       error
	calls     int
	requests  [][]providers.Message
	toolDefs  [][]providers.ToolDefinition
}

func (p *scriptedProvider) Chat(
	_ context.Context,
	messages []providers.Message,
	tools []providers.ToolDefinition,
	_ string,
	_ map[string]any,
) (*providers.LLMResponse, error) {
	p.calls++
	p.requests = append(p.requests, append([]providers.Message(nil), messages...))
	p.toolDefs = append(p.toolDefs, tools)
	if p.err != nil {
		return nil, p.err
	}
	if p.calls > len(p.responses) {
		return p.responses[len(p.responses)-1], nil
	}
	return p.responses[p.calls-1], nil
}

func (p *scriptedProvider) ListModels(context.Context) ([]string, error) { return nil, nil }

func (p *scriptedProvider) GetDefaultModel() string { return "mock-model" }

func todayCall(id string) providers.ToolCall {
	return providers.ToolCall{ID: id, Name: "today", Arguments: map[string]any{}}
}

func fixedToday() *TodayTool {
	loc := time.FixedZone("CST", 8*3600)
	tool := NewTodayTool(loc)
	tool.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return tool
}

func TestRunToolLoop_DirectAnswer(t *testing.T) {
	p := &scriptedProvider{responses: []*providers.LLMResponse{{Content: "hello"}}}

	res, err := RunToolLoop(context.Background(), ToolLoopConfig{
		Provider: p,
		Tools:    NewToolRegistry(fixedToday()),
	}, []providers.Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)

	assert.Equal(t, "hello", res.Content)
	assert.Equal(t, 1, res.Iterations)
	assert.False(t, res.Exhausted)
	require.Len(t, p.toolDefs, 1)
	require.Len(t, p.toolDefs[0], 1)
	assert.Equal(t, "today", p.toolDefs[0][0].Function.Name)
}

func TestRunToolLoop_ExecutesToolsAndFeedsResults(t *testing.T) {
	p := &scriptedProvider{responses: []*providers.LLMResponse{
		{ToolCalls: []providers.ToolCall{todayCall("call_1")}},
		{Content: "It is May 1st."},
	}}

	res, err := RunToolLoop(context.Background(), ToolLoopConfig{
		Provider: p,
		Tools:    NewToolRegistry(fixedToday()),
	}, []providers.Message{{Role: "user", Content: "what day is it"}})
	require.NoError(t, err)

	assert.Equal(t, "It is May 1st.", res.Content)
	assert.Equal(t, 2, res.Iterations)

	second := p.requests[1]
	require.Len(t, second, 3)
	assert.Equal(t, "assistant", second[1].Role)
	require.Len(t, second[1].ToolCalls, 1)
	assert.Equal(t, "today", second[1].ToolCalls[0].Function.Name)
	assert.Equal(t, "{}", second[1].ToolCalls[0].Function.Arguments)
	assert.Equal(t, providers.Message{
		Role:       "tool",
		Content:    "2024-05-01T20:00:00+08:00",
		ToolCallID: "call_1",
	}, second[2])
}

func TestRunToolLoop_StopsAtMaxIterations(t *testing.T) {
	p := &scriptedProvider{responses: []*providers.LLMResponse{
		{Content: "checking", ToolCalls: []providers.ToolCall{todayCall("a")}},
		{ToolCalls: []providers.ToolCall{todayCall("b")}},
		{ToolCalls: []providers.ToolCall{todayCall("c")}},
	}}

	res, err := RunToolLoop(context.Background(), ToolLoopConfig{
		Provider:      p,
		Tools:         NewToolRegistry(fixedToday()),
		MaxIterations: 3,
	}, []providers.Message{{Role: "user", Content: "loop"}})
	require.NoError(t, err)

	assert.Equal(t, 3, p.calls)
	assert.True(t, res.Exhausted)
	assert.Equal(t, "checking", res.Content)
}

func TestRunToolLoop_DefaultMaxIterations(t *testing.T) {
	p := &scriptedProvider{responses: []*providers.LLMResponse{
		{ToolCalls: []providers.ToolCall{todayCall("a")}},
	}}

	_, err := RunToolLoop(context.Background(), ToolLoopConfig{
		Provider: p,
		Tools:    NewToolRegistry(fixedToday()),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxIterations, p.calls)
}

func TestRunToolLoop_ProviderError(t *testing.T) {
	p := &scriptedProvider{err: errors.New("status=401")}

	_, err := RunToolLoop(context.Background(), ToolLoopConfig{Provider: p}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}

func TestRunToolLoop_UnknownToolIsReportedToModel(t *testing.T) {
	p := &scriptedProvider{responses: []*providers.LLMResponse{
		{ToolCalls: []providers.ToolCall{{ID: "x", Function: &providers.FunctionCall{Name: "weather", Arguments: `{"city":"SZ"}`}}}},
		{Content: "sorry"},
	}}

	res, err := RunToolLoop(context.Background(), ToolLoopConfig{
		Provider: p,
		Tools:    NewToolRegistry(),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "sorry", res.Content)
	assert.Contains(t, p.requests[1][1].Content, `tool "weather" not found`)
}

type stubMatches struct {
	match *esports.LPLMatch
	err   error
}

func (s stubMatches) CurrentMatch(context.Context) (*esports.LPLMatch, error) { return s.match, s.err }

func TestLoLTool(t *testing.T) {
	match := &esports.LPLMatch{
		GameName: "2024 LPL", GameTypeName: "Spring", GameProcName: "Week 3",
		MatchDate: "2024-05-01 17:00:00",
		TeamA:     "BLG", TeamB: "JDG", ScoreA: "1", ScoreB: "0",
	}

	res := NewLoLTool(stubMatches{match: match}).Execute(context.Background(), nil)
	assert.Equal(t, "2024 LPL Spring Week 3\n2024-05-01 17:00:00\nBLG 1:0 JDG", res.ForLLM)

	res = NewLoLTool(stubMatches{}).Execute(context.Background(), nil)
	assert.Equal(t, esports.NoLPLMatchMessage, res.ForLLM)

	res = NewLoLTool(stubMatches{err: errors.New("timeout")}).Execute(context.Background(), nil)
	assert.True(t, res.IsError)
	assert.EqualError(t, res.Err, "timeout")
}

func TestNormalizeToolCalls_MalformedArgumentsAreLogged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.log")
	require.NoError(t, logger.EnableFileLogging(path))
	t.Cleanup(logger.DisableFileLogging)

	calls := normalizeToolCalls([]providers.ToolCall{{
		ID:       "call_1",
		Function: &providers.FunctionCall{Name: "today", Arguments: `{"tz":`},
	}})

	require.Len(t, calls, 1)
	assert.Equal(t, "today", calls[0].Name)
	assert.Equal(t, map[string]any{}, calls[0].Arguments)
	assert.Equal(t, "{}", calls[0].Function.Arguments)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Undecodable tool call arguments")
	assert.Contains(t, string(data), `"tool":"today"`)
}
