package internal

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/xqm32/guyubot/pkg/commands"
	"github.com/xqm32/guyubot/pkg/config"
	"github.com/xqm32/guyubot/pkg/handlers"
	"github.com/xqm32/guyubot/pkg/kv"
	"github.com/xqm32/guyubot/pkg/logger"
)

const Logo = "🃏"

var (
	version   = "dev"
	gitCommit string
	buildTime string
	goVersion string
)

// ConfigPath is set by the root --config flag; empty means the resolved
// default.
var ConfigPath string

func GetConfigPath() string {
	if ConfigPath != "" {
		return ConfigPath
	}
	return config.ResolveRuntimePaths().ConfigPath
}

func LoadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(GetConfigPath())
	if err != nil {
		return nil, err
	}
	if err := ApplyLogConfig(cfg.Log); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyLogConfig sets the global log level and optional JSON log file.
func ApplyLogConfig(cfg config.LogConfig) error {
	if cfg.Level != "" {
		level, err := logger.ParseLevel(cfg.Level)
		if err != nil {
			return err
		}
		logger.SetLevel(level)
	}
	if cfg.File != "" {
		if err := logger.EnableFileLogging(cfg.File); err != nil {
			return fmt.Errorf("enabling file logging: %w", err)
		}
	}
	return nil
}

// Runtime is the wired bot: the dispatcher plus what must be closed.
type Runtime struct {
	Config     *config.Config
	Store      *kv.SQLiteStore
	Dispatcher *commands.Dispatcher
}

// Bootstrap opens the memo store and builds the command registry.
func Bootstrap(cfg *config.Config) (*Runtime, error) {
	store, err := kv.OpenSQLite(cfg.StorePath())
	if err != nil {
		return nil, err
	}

	deps := handlers.NewDeps(cfg, store)
	if deps.ProviderErr != nil {
		logger.WarnCF("bootstrap", "LLM commands disabled", map[string]any{"reason": deps.ProviderErr.Error()})
	}
	reg, err := handlers.NewRegistry(deps)
	if err != nil {
		store.Close()
		return nil, err
	}
	return &Runtime{
		Config:     cfg,
		Store:      store,
		Dispatcher: commands.NewDispatcher(reg),
	}, nil
}

func (r *Runtime) Close() error {
	if r.Store == nil {
		return nil
	}
	return r.Store.Close()
}

// FormatVersion returns the version string with optional git commit
func FormatVersion() string {
	v := version
	if gitCommit != "" {
		v += fmt.Sprintf(" (git: %s)", gitCommit)
	}
	return v
}

// FormatBuildInfo returns build time and go version info
func FormatBuildInfo() (string, string) {
	build := buildTime
	goVer := goVersion
	if goVer == "" {
		goVer = runtime.Version()
	}
	return build, goVer
}

func GetVersion() string {
	return version
}

// VersionText renders the lines printed by the version command.
func VersionText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s guyubot %s\n", Logo, FormatVersion())
	build, goVer := FormatBuildInfo()
	if build != "" {
		fmt.Fprintf(&b, "  Build: %s\n", build)
	}
	if goVer != "" {
		fmt.Fprintf(&b, "  Go: %s\n", goVer)
	}
	return b.String()
}
