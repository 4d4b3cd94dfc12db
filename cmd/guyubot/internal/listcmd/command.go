package listcmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xqm32/guyubot/cmd/guyubot/internal"
	"github.com/xqm32/guyubot/pkg/commands"
)

// NewCommandsCommand prints every registered command in match order.
func NewCommandsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List bot commands in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := internal.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			rt, err := internal.Bootstrap(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			return printDefinitions(cmd.OutOrStdout(), rt.Dispatcher.Registry().Definitions())
		},
	}
}

func printDefinitions(out io.Writer, defs []commands.Definition) error {
	for _, def := range defs {
		name := def.Name
		if name == "" {
			name = `""`
		}
		desc := def.Description
		if desc == "" {
			desc = "No description"
		}
		if _, err := fmt.Fprintf(out, "%-14s %s\n", name, desc); err != nil {
			return err
		}
	}
	return nil
}
