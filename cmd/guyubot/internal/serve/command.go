package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xqm32/guyubot/cmd/guyubot/internal"
	"github.com/xqm32/guyubot/pkg/gateway"
	"github.com/xqm32/guyubot/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func NewServeCommand() *cobra.Command {
	var (
		debug bool
		host  string
		port  int
	)

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Run the webhook server",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := internal.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if debug {
				logger.SetLevel(logger.DEBUG)
			}
			if cmd.Flags().Changed("host") {
				cfg.Gateway.Host = host
			}
			if cmd.Flags().Changed("port") {
				cfg.Gateway.Port = port
			}

			rt, err := internal.Bootstrap(cfg)
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, gateway.NewServer(cfg.Gateway, rt.Dispatcher))
		},
	}

	cmd.Flags().BoolVarP(&debug, "debug", "d", false, "Enable debug logging")
	cmd.Flags().StringVar(&host, "host", "", "Override gateway.host")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Override gateway.port")
	return cmd
}

func run(ctx context.Context, srv *gateway.Server) error {
	if err := srv.Start(); err != nil {
		return fmt.Errorf("starting gateway: %w", err)
	}

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
