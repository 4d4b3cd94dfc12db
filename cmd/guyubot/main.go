package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xqm32/guyubot/cmd/guyubot/internal"
	"github.com/xqm32/guyubot/cmd/guyubot/internal/ask"
	"github.com/xqm32/guyubot/cmd/guyubot/internal/listcmd"
	"github.com/xqm32/guyubot/cmd/guyubot/internal/serve"
	"github.com/xqm32/guyubot/cmd/guyubot/internal/version"
)

func NewGuyubotCommand() *cobra.Command {
	short := fmt.Sprintf("%s guyubot - chat command webhook", internal.Logo)

	cmd := &cobra.Command{
		Use:           "guyubot",
		Short:         short,
		Example:       "guyubot serve\nguyubot ask r beta\nguyubot --config ./config.json ask memo deck",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&internal.ConfigPath, "config", "c", "",
		"Path to config.json (default $GUYUBOT_CONFIG or ~/.guyubot/config.json)")

	cmd.AddCommand(
		serve.NewServeCommand(),
		ask.NewAskCommand(),
		listcmd.NewCommandsCommand(),
		version.NewVersionCommand(),
	)
	return cmd
}

func main() {
	cmd := NewGuyubotCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
