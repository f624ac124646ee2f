package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"AplusBackend/internal/config"
	"AplusBackend/internal/logging"
)

type cliState struct {
	cfgFile  string
	envFile  string
	logLevel string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	state := &cliState{}

	root := &cobra.Command{
		Use:           "aplus",
		Short:         "Aplus study backend",
		Long:          "Aplus serves the study plan API and ingests learning materials (PDFs and web pages) into plans.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return state.init()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, state)
		},
	}

	root.PersistentFlags().StringVarP(&state.cfgFile, "config", "c", "", "YAML config file (overrides APLUS_CONFIG)")
	root.PersistentFlags().StringVar(&state.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().StringVar(&state.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(newServeCmd(state), newIngestCmd(state))
	return root
}

func (s *cliState) init() error {
	if s.envFile != "" {
		if err := godotenv.Load(s.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	if s.cfgFile != "" {
		if err := os.Setenv("APLUS_CONFIG", s.cfgFile); err != nil {
			return err
		}
	}

	s.cfg = config.Load()
	if s.logLevel != "" {
		s.cfg.Logging.Level = s.logLevel
	}
	s.logger = logging.New(s.cfg.Logging.Level, s.cfg.Logging.Format)
	return nil
}
