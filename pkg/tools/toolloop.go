package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xqm32/guyubot/pkg/logger"
	"github.com/xqm32/guyubot/pkg/providers"
	"github.com/xqm32/guyubot/pkg/utils"
)

const DefaultMaxIterations = 5

// ToolLoopConfig configures the tool execution loop.
type ToolLoopConfig struct {
	Provider      providers.LLMProvider
	Model         string
	Tools         *ToolRegistry
	MaxIterations int
	LLMOptions    map[string]any
}

// ToolLoopResult contains the result of running the tool loop.
type ToolLoopResult struct {
	Content    string
	Iterations int
	// Exhausted is set when the model still wanted tools on the final step.
	Exhausted bool
	Messages  []providers.Message
}

// RunToolLoop alternates model calls and tool execution until the model
// answers without tool calls or MaxIterations model calls have been made.
// When the budget runs out the latest non-empty text the model produced is
// returned.
func RunToolLoop(
	ctx context.Context,
	config ToolLoopConfig,
	messages []providers.Message,
) (*ToolLoopResult, error) {
	maxIterations := config.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	var toolDefs []providers.ToolDefinition
	if config.Tools != nil {
		toolDefs = config.Tools.ToProviderDefs()
	}
	llmOpts := config.LLMOptions
	if llmOpts == nil {
		llmOpts = map[string]any{}
	}

	var finalContent string
	iteration := 0
	for iteration < maxIterations {
		iteration++

		logger.DebugCF("toolloop", "LLM iteration", map[string]any{
			"iteration": iteration,
			"max":       maxIterations,
		})

		response, err := config.Provider.Chat(ctx, messages, toolDefs, config.Model, llmOpts)
		if err != nil {
			logger.ErrorCF("toolloop", "LLM call failed", map[string]any{
				"iteration": iteration,
				"error":     err.Error(),
			})
			return nil, fmt.Errorf("LLM call failed: %w", err)
		}
		if response.Content != "" {
			finalContent = response.Content
		}

		if len(response.ToolCalls) == 0 {
			logger.InfoCF("toolloop", "LLM response without tool calls", map[string]any{
				"iteration":     iteration,
				"content_chars": len(response.Content),
			})
			return &ToolLoopResult{
				Content:    response.Content,
				Iterations: iteration,
				Messages:   messages,
			}, nil
		}

		calls := normalizeToolCalls(response.ToolCalls)
		names := make([]string, 0, len(calls))
		for _, tc := range calls {
			names = append(names, tc.Name)
		}
		logger.InfoCF("toolloop", "LLM requested tool calls", map[string]any{
			"tools":     names,
			"iteration": iteration,
		})

		messages = append(messages, providers.Message{
			Role:      "assistant",
			Content:   response.Content,
			ToolCalls: calls,
		})

		for _, tc := range calls {
			logger.DebugCF("toolloop", fmt.Sprintf("Tool call: %s(%s)", tc.Name, utils.Truncate(tc.Function.Arguments, 200)),
				map[string]any{"tool": tc.Name, "iteration": iteration})

			var result *ToolResult
			if config.Tools != nil {
				result = config.Tools.Execute(ctx, tc.Name, tc.Arguments)
			} else {
				result = ErrorResult("No tools available")
			}

			content := result.ForLLM
			if content == "" && result.Err != nil {
				content = result.Err.Error()
			}
			messages = append(messages, providers.Message{
				Role:       "tool",
				Content:    content,
				ToolCallID: tc.ID,
			})
		}
	}

	logger.WarnCF("toolloop", "Tool loop hit iteration limit", map[string]any{"max": maxIterations})
	return &ToolLoopResult{
		Content:    finalContent,
		Iterations: iteration,
		Exhausted:  true,
		Messages:   messages,
	}, nil
}

// normalizeToolCalls fills both the flat and the Function form of each call
// so either provider can replay it.
func normalizeToolCalls(calls []providers.ToolCall) []providers.ToolCall {
	out := make([]providers.ToolCall, 0, len(calls))
	for _, tc := range calls {
		name := tc.Name
		args := tc.Arguments
		if tc.Function != nil {
			if name == "" {
				name = tc.Function.Name
			}
			if args == nil && tc.Function.Arguments != "" {
				if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
					logger.WarnCF("tool", "Undecodable tool call arguments", map[string]any{
						"tool":  name,
						"error": err.Error(),
					})
					args = nil
				}
			}
		}
		if args == nil {
			args = map[string]any{}
		}
		argsJSON, _ := json.Marshal(args)
		out = append(out, providers.ToolCall{
			ID:        tc.ID,
			Type:      "function",
			Name:      name,
			Arguments: args,
			Function: &providers.FunctionCall{
				Name:      name,
				Arguments: string(argsJSON),
			},
		})
	}
	return out
}
