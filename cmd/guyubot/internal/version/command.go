package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xqm32/guyubot/cmd/guyubot/internal"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), internal.VersionText())
		},
	}
}
