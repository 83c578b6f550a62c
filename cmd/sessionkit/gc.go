package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func newGCCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "gc",
		Short: "Remove expired and idle sessions from the configured store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			b, err := openBackend(ctx, a.cfg.Store, a.log)
			if err != nil {
				return err
			}
			defer func() { _ = b.Close() }()

			cfg := a.cfg.Session
			cfg.CleanupInterval = 0
			cfg.UseClientReference = false
			mgr, err := session.NewFromConfig(cfg,
				session.WithStore(b.store),
				session.WithLogger(a.log),
			)
			if err != nil {
				return err
			}
			defer func() { _ = mgr.Close() }()

			n, err := mgr.GC(ctx)
			if err != nil {
				return err
			}
			a.log.InfoContext(ctx, "session garbage collection finished",
				logger.Store(a.cfg.Store.Driver),
				logger.Count(n),
			)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed %d sessions\n", n)
			return err
		},
	}
}
