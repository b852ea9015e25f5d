package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rcliao/twin-memory/internal/config"
	"github.com/rcliao/twin-memory/internal/server"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the twin over HTTP",
		Long:  "Run the HTTP API. State is saved when the server receives SIGINT or SIGTERM.",
		Run:   runServe,
	}

	config.AddStringFlag(cmd.Flags(), config.Flags, config.FlagListen)
	addAgentFlags(cmd)

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	a, err := openAgent()
	if err != nil {
		exitErr("open agent", err)
	}

	srv := server.New(a, logger.WithPrefix("http"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(cfg.Server.Listen)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			exitErr("serve", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			exitErr("shutdown", err)
		}
	}
}
