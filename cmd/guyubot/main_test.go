package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xqm32/guyubot/cmd/guyubot/internal"
)

func TestNewGuyubotCommand(t *testing.T) {
	cmd := NewGuyubotCommand()
	require.NotNil(t, cmd)

	assert.Equal(t, "guyubot", cmd.Use)
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "ask", "commands", "version"}, names)
}

func TestConfigFlagSetsPath(t *testing.T) {
	t.Cleanup(func() { internal.ConfigPath = "" })

	cmd := NewGuyubotCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", "/tmp/guyubot.json", "version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "/tmp/guyubot.json", internal.GetConfigPath())
	assert.Contains(t, out.String(), "guyubot")
}
