// Package handlers binds the bot's commands to their backing clients.
package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/xqm32/guyubot/pkg/commands"
	"github.com/xqm32/guyubot/pkg/config"
	"github.com/xqm32/guyubot/pkg/esports"
	"github.com/xqm32/guyubot/pkg/github"
	"github.com/xqm32/guyubot/pkg/kv"
	"github.com/xqm32/guyubot/pkg/providers"
	"github.com/xqm32/guyubot/pkg/rooms"
	"github.com/xqm32/guyubot/pkg/utils"
)

// Deps is everything the command set needs. Provider may be nil, in which
// case LLM commands report a configuration error.
type Deps struct {
	Config   *config.Config
	Rooms    *rooms.Client
	GitHub   *github.Client
	Bilibili *esports.Bilibili
	LPL      *esports.LPL
	Memo     kv.Store
	Provider providers.LLMProvider
	// ProviderErr explains a nil Provider.
	ProviderErr error
	Now         func() time.Time
}

// NewDeps builds the default clients from cfg. The caller owns memo.
func NewDeps(cfg *config.Config, memo kv.Store) *Deps {
	httpClient := utils.NewHTTPClient()

	endpoints := make([]rooms.Endpoint, 0, len(cfg.Rooms.Endpoints))
	for _, ep := range cfg.Rooms.Endpoints {
		endpoints = append(endpoints, rooms.Endpoint{Label: ep.Label, URL: ep.URL})
	}

	d := &Deps{
		Config:   cfg,
		Rooms:    rooms.NewClient(endpoints, httpClient),
		GitHub:   github.NewClient(cfg.GitHub.APIBase, cfg.GitHub.Token, httpClient),
		Bilibili: esports.NewBilibili(cfg.Esports.BilibiliURL, httpClient),
		LPL:      esports.NewLPL(cfg.Esports.LPLBaseURL, httpClient),
		Memo:     memo,
		Now:      time.Now,
	}
	d.Provider, d.ProviderErr = providers.CreateProvider(cfg.LLM, nil)
	return d
}

// NewRegistry returns the full command registry, builtins included.
func NewRegistry(d *Deps) (*commands.Registry, error) {
	defs, err := Definitions(d)
	if err != nil {
		return nil, err
	}
	var reg *commands.Registry
	defs = append(commands.BuiltinDefinitions(func() *commands.Registry { return reg }), defs...)
	reg, err = commands.NewRegistry(defs)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// Definitions returns the bot commands without the builtins.
func Definitions(d *Deps) ([]commands.Definition, error) {
	if d.Now == nil {
		d.Now = time.Now
	}
	llmLoc, err := loadLocation(d.Config.LLM.Timezone)
	if err != nil {
		return nil, fmt.Errorf("llm.timezone: %w", err)
	}
	esportsLoc, err := loadLocation(d.Config.Esports.Timezone)
	if err != nil {
		return nil, fmt.Errorf("esports.timezone: %w", err)
	}

	roomsHandler := roomsRules(d.Rooms).Handler()
	guyuHandler := latestPullRequest(d.GitHub, d.Config.GitHub.Owner, d.Config.GitHub.Repo)
	llm := newLLMCommand(d, llmLoc)

	defs := []commands.Definition{
		{
			Name:        "r",
			Usage:       "r [#id|label]",
			Description: "List game rooms",
			Handler:     roomsHandler,
		},
		{
			Name:        "谁在打雨酱牌",
			Description: "List game rooms",
			Handler:     roomsHandler,
		},
		{
			Name:        "guyu",
			Description: "Show the most recently updated pull request",
			Handler:     guyuHandler,
		},
		{
			Name:        "gy",
			Description: "Alias of guyu",
			Handler:     guyuHandler,
		},
		{
			Name:        "llm",
			Usage:       "llm [/vendor/model] <prompt>",
			Description: "Ask a language model",
			Handler:     llm.handle,
		},
		{
			Name:        "llmlist",
			Description: "List available models",
			Handler:     llm.list,
		},
		{
			Name:        "lol",
			Usage:       "lol [start [end]]",
			Description: "List League of Legends matches (dates as YYYY-MM-DD)",
			Handler:     listMatches(d.Bilibili, esportsLoc, d.Now),
		},
		{
			Name:        "lpl",
			Description: "Show the ongoing or next LPL match",
			Handler:     currentLPLMatch(d.LPL),
		},
		{
			Name:        "memo",
			Usage:       "memo [set] <key> [value]",
			Description: "Save or recall a note",
			Handler:     memoRules(d.Memo).Handler(),
		},
	}
	if d.Config.Bot.Fallback == config.FallbackLLM {
		defs = append(defs, commands.Definition{
			Name:        "",
			Description: "Anything else goes to llm",
			Handler:     llm.handle,
		})
	}

	for i := range defs {
		defs[i].Handler = limitReply(defs[i].Handler, d.Config.Bot.MaxReplyRunes)
	}
	return defs, nil
}

func limitReply(h commands.Handler, maxRunes int) commands.Handler {
	if h == nil || maxRunes <= 0 {
		return h
	}
	return func(ctx context.Context, req commands.Request) (string, error) {
		reply, err := h(ctx, req)
		return utils.Truncate(reply, maxRunes), err
	}
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}
