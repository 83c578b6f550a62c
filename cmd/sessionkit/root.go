package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sessionkit/pkg/config"
	"github.com/dmitrymomot/sessionkit/pkg/environment"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/requestid"
)

// app is shared between commands once the root pre-run has loaded config.
type app struct {
	envFiles []string
	cfg      appConfig
	log      *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:          "sessionkit",
		Short:        "Fingerprint-bound HTTP sessions with pluggable storage",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", []string{".env"},
		"dotenv files to load before reading the environment")

	root.AddCommand(
		newServeCmd(a),
		newGCCmd(a),
		newKeygenCmd(),
		newMigrateCmd(a),
	)
	return root
}

func (a *app) init() error {
	files := make([]string, 0, len(a.envFiles))
	for _, f := range a.envFiles {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		files = append(files, f)
	}
	if len(files) > 0 {
		if err := config.LoadEnv(files...); err != nil {
			return err
		}
	}

	if err := config.Load(&a.cfg); err != nil {
		return err
	}

	a.log = logger.NewFromConfig(a.cfg.Log,
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			environment.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(a.log)
	return nil
}
