package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/sessionkit/pkg/secrets"
)

// newKeygenCmd does not need the environment, so it overrides the root
// pre-run.
func newKeygenCmd() *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:               "keygen",
		Short:             "Print random keys for SESSION_ENCRYPTION_KEYS, SESSION_SECRET or COOKIE_SECRETS",
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			for range count {
				key, err := secrets.GenerateKey()
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), secrets.EncodeKey(key)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of keys to print")
	return cmd
}
