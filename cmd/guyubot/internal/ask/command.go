package ask

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xqm32/guyubot/cmd/guyubot/internal"
	"github.com/xqm32/guyubot/pkg/commands"
)

// NewAskCommand runs one message through the dispatcher, as the webhook
// would, and prints the reply.
func NewAskCommand() *cobra.Command {
	var ref, caller string

	cmd := &cobra.Command{
		Use:   "ask <message...>",
		Short: "Dispatch a single message locally",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := internal.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			rt, err := internal.Bootstrap(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			msg := commands.Message{
				Text:      strings.Join(args, " "),
				Reference: ref,
				CallerID:  caller,
			}
			return ask(cmd.Context(), rt.Dispatcher, msg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&ref, "ref", "r", "", "Quoted message passed as reference")
	cmd.Flags().StringVar(&caller, "qq", "", "Caller id")
	return cmd
}

func ask(ctx context.Context, d commands.Dispatching, msg commands.Message, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	res := d.Dispatch(ctx, msg)
	if res.Status != http.StatusOK {
		return fmt.Errorf("%d %s: %s", res.Status, http.StatusText(res.Status), res.Reply)
	}
	_, err := fmt.Fprintln(out, res.Reply)
	return err
}
