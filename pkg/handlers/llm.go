package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/xqm32/guyubot/pkg/commands"
	"github.com/xqm32/guyubot/pkg/logger"
	"github.com/xqm32/guyubot/pkg/providers"
	"github.com/xqm32/guyubot/pkg/tools"
)

type llmCommand struct {
	deps  *Deps
	tools *tools.ToolRegistry
}

func newLLMCommand(d *Deps, loc *time.Location) *llmCommand {
	today := tools.NewTodayTool(loc)
	return &llmCommand{
		deps:  d,
		tools: tools.NewToolRegistry(today, tools.NewLoLTool(d.LPL)),
	}
}

func (c *llmCommand) provider() (providers.LLMProvider, error) {
	if c.deps.Provider != nil {
		return c.deps.Provider, nil
	}
	err := c.deps.ProviderErr
	if err == nil || errors.Is(err, providers.ErrNoAPIKey) {
		return nil, commands.Preconditionf("%s", providers.ErrNoAPIKey)
	}
	return nil, commands.Preconditionf("%v", err)
}

// parsePrompt splits "/vendor/model rest of prompt" into the model and the
// whole remaining prompt. Without a leading slash the model is empty.
func parsePrompt(text string) (model, prompt string, err error) {
	if !strings.HasPrefix(text, "/") {
		return "", text, nil
	}
	token, rest := commands.SplitToken(text)
	ref := providers.ParseModelRef(strings.TrimPrefix(token, "/"))
	if ref == nil {
		return "", "", commands.Preconditionf("invalid model %q, want /vendor/model", token)
	}
	return ref.String(), rest, nil
}

func joinPrompt(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}

func (c *llmCommand) handle(ctx context.Context, req commands.Request) (string, error) {
	model, prompt, err := parsePrompt(req.Text)
	if err != nil {
		return "", err
	}
	full := joinPrompt(req.Reference, prompt)
	if full == "" {
		return "", commands.Preconditionf("usage: llm [/vendor/model] <prompt>")
	}

	cfg := c.deps.Config.LLM
	if model != "" && !providers.Serves(cfg.Provider, *providers.ParseModelRef(model)) {
		return "", commands.Preconditionf("model %s is not served by the %s provider", model, cfg.Provider)
	}

	p, err := c.provider()
	if err != nil {
		return "", err
	}
	if model == "" {
		model = p.GetDefaultModel()
	}

	logger.InfoCF("llm", "Running prompt", map[string]any{
		"model":        model,
		"caller":       req.CallerID,
		"prompt_chars": len(full),
	})

	opts := map[string]any{}
	if cfg.MaxTokens > 0 {
		opts["max_tokens"] = cfg.MaxTokens
	}
	res, err := tools.RunToolLoop(ctx, tools.ToolLoopConfig{
		Provider:      p,
		Model:         model,
		Tools:         c.tools,
		MaxIterations: cfg.MaxSteps,
		LLMOptions:    opts,
	}, []providers.Message{{Role: "user", Content: full}})
	if err != nil {
		return "", err
	}
	return res.Content, nil
}

func (c *llmCommand) list(ctx context.Context, _ commands.Request) (string, error) {
	p, err := c.provider()
	if err != nil {
		return "", err
	}
	ids, err := p.ListModels(ctx)
	if err != nil {
		return "", err
	}
	if len(ids) == 0 {
		return "No models available.", nil
	}
	return strings.Join(ids, "\n"), nil
}
