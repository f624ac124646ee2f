package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"AplusBackend/internal/app"
)

func newServeCmd(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, state)
		},
	}
}

func runServe(cmd *cobra.Command, state *cliState) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, state.cfg, state.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			state.logger.Warn("close application", "err", err)
		}
	}()

	if err := application.Run(ctx); err != nil {
		state.logger.Error("application stopped", "error", err)
		return err
	}
	return nil
}
