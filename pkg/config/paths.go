package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	EnvGuyubotConfig = "GUYUBOT_CONFIG"
	EnvGuyubotHome   = "GUYUBOT_HOME"
)

type RuntimePaths struct {
	HomeDir    string
	ConfigPath string
}

func ResolveRuntimePaths() RuntimePaths {
	if configPath := expandHome(strings.TrimSpace(os.Getenv(EnvGuyubotConfig))); configPath != "" {
		return RuntimePaths{HomeDir: filepath.Dir(configPath), ConfigPath: configPath}
	}

	homeDir := expandHome(strings.TrimSpace(os.Getenv(EnvGuyubotHome)))
	if homeDir == "" {
		homeDir = defaultGuyubotHome()
	}

	return RuntimePaths{HomeDir: homeDir, ConfigPath: filepath.Join(homeDir, "config.json")}
}

func defaultGuyubotHome() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".guyubot"
	}
	return filepath.Join(home, ".guyubot")
}
