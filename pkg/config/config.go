package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Gateway GatewayConfig `json:"gateway"`
	LLM     LLMConfig     `json:"llm"`
	GitHub  GitHubConfig  `json:"github"`
	Rooms   RoomsConfig   `json:"rooms"`
	Esports EsportsConfig `json:"esports"`
	Store   StoreConfig   `json:"store"`
	Bot     BotConfig     `json:"bot"`
	Log     LogConfig     `json:"log"`
}

type GatewayConfig struct {
	Host              string `json:"host" env:"GUYUBOT_GATEWAY_HOST"`
	Port              int    `json:"port" env:"GUYUBOT_GATEWAY_PORT"`
	Token             string `json:"token" env:"GUYUBOT_GATEWAY_TOKEN"`
	RequestsPerMinute int    `json:"requests_per_minute" env:"GUYUBOT_GATEWAY_REQUESTS_PER_MINUTE"` // 0 = unlimited
	Burst             int    `json:"burst" env:"GUYUBOT_GATEWAY_BURST"`
}

const (
	ProviderGateway   = "gateway"
	ProviderAnthropic = "anthropic"
)

type LLMConfig struct {
	Provider  string `json:"provider" env:"GUYUBOT_LLM_PROVIDER"`
	APIKey    string `json:"api_key" env:"GUYUBOT_LLM_API_KEY"`
	BaseURL   string `json:"base_url" env:"GUYUBOT_LLM_BASE_URL"`
	Model     string `json:"model" env:"GUYUBOT_LLM_MODEL"`
	MaxSteps  int    `json:"max_steps" env:"GUYUBOT_LLM_MAX_STEPS"`
	MaxTokens int    `json:"max_tokens" env:"GUYUBOT_LLM_MAX_TOKENS"`
	Timezone  string `json:"timezone" env:"GUYUBOT_LLM_TIMEZONE"`
}

type GitHubConfig struct {
	Owner   string `json:"owner" env:"GUYUBOT_GITHUB_OWNER"`
	Repo    string `json:"repo" env:"GUYUBOT_GITHUB_REPO"`
	Token   string `json:"token" env:"GUYUBOT_GITHUB_TOKEN"`
	APIBase string `json:"api_base" env:"GUYUBOT_GITHUB_API_BASE"`
}

type RoomEndpoint struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type RoomsConfig struct {
	Endpoints []RoomEndpoint `json:"endpoints"`
}

type EsportsConfig struct {
	BilibiliURL string `json:"bilibili_url" env:"GUYUBOT_ESPORTS_BILIBILI_URL"`
	LPLBaseURL  string `json:"lpl_base_url" env:"GUYUBOT_ESPORTS_LPL_BASE_URL"`
	Timezone    string `json:"timezone" env:"GUYUBOT_ESPORTS_TIMEZONE"`
}

type StoreConfig struct {
	Path string `json:"path" env:"GUYUBOT_STORE_PATH"`
}

const FallbackLLM = "llm"

type BotConfig struct {
	Fallback      string `json:"fallback" env:"GUYUBOT_BOT_FALLBACK"` // "" or "llm"
	MaxReplyRunes int    `json:"max_reply_runes" env:"GUYUBOT_BOT_MAX_REPLY_RUNES"`
}

type LogConfig struct {
	Level string `json:"level" env:"GUYUBOT_LOG_LEVEL"`
	File  string `json:"file" env:"GUYUBOT_LOG_FILE"`
}

func DefaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Host:              "0.0.0.0",
			Port:              8787,
			RequestsPerMinute: 0,
			Burst:             5,
		},
		LLM: LLMConfig{
			Provider:  ProviderGateway,
			BaseURL:   "https://ai-gateway.vercel.sh/v1",
			Model:     "openai/gpt-4.1-mini",
			MaxSteps:  5,
			MaxTokens: 2048,
			Timezone:  "Asia/Shanghai",
		},
		GitHub: GitHubConfig{
			Owner:   "genius-invokation",
			Repo:    "genius-invokation",
			APIBase: "https://api.github.com",
		},
		Rooms: RoomsConfig{
			Endpoints: []RoomEndpoint{
				{Label: "Main", URL: "https://gi.xqm32.org/api/rooms"},
				{Label: "Beta", URL: "https://gi.xqm32.org/beta/api/rooms"},
			},
		},
		Esports: EsportsConfig{
			BilibiliURL: "https://api.bilibili.com/x/esports/matchs/list",
			LPLBaseURL:  "https://lpl.qq.com/web201612/data",
			Timezone:    "Asia/Shanghai",
		},
		Store: StoreConfig{
			Path: "~/.guyubot/memo.db",
		},
		Bot: BotConfig{
			MaxReplyRunes: 4000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig reads path over the defaults and then applies GUYUBOT_*
// environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("applying environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv parses each section on its own; rooms.endpoints is file-only.
func applyEnv(cfg *Config) error {
	sections := []any{
		&cfg.Gateway,
		&cfg.LLM,
		&cfg.GitHub,
		&cfg.Esports,
		&cfg.Store,
		&cfg.Bot,
		&cfg.Log,
	}
	for _, s := range sections {
		if err := env.Parse(s); err != nil {
			return err
		}
	}
	return nil
}

func SaveConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

func (c *Config) Validate() error {
	if c.Gateway.Port <= 0 || c.Gateway.Port > 65535 {
		return fmt.Errorf("gateway.port out of range: %d", c.Gateway.Port)
	}
	if c.Gateway.RequestsPerMinute < 0 {
		return fmt.Errorf("gateway.requests_per_minute must not be negative")
	}
	switch c.LLM.Provider {
	case ProviderGateway, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown llm.provider: %q", c.LLM.Provider)
	}
	switch c.Bot.Fallback {
	case "", FallbackLLM:
	default:
		return fmt.Errorf("unknown bot.fallback: %q", c.Bot.Fallback)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return fmt.Errorf("unknown log.level: %q", c.Log.Level)
	}
	for i, ep := range c.Rooms.Endpoints {
		if strings.TrimSpace(ep.Label) == "" || strings.TrimSpace(ep.URL) == "" {
			return fmt.Errorf("rooms.endpoints[%d] needs both label and url", i)
		}
	}
	return nil
}

func (c *Config) StorePath() string {
	return expandHome(c.Store.Path)
}

func expandHome(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, _ := os.UserHomeDir()
		if len(path) > 1 && path[1] == '/' {
			return home + path[1:]
		}
		return home
	}
	return path
}
