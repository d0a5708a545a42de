package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const healthTimeout = 5 * time.Second

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the session backend and show the login state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprintf(a.stdout, "backend:  %s\n", a.cfg.Backend)
			fmt.Fprintf(a.stdout, "api:      %s\n", a.cfg.API.BaseURL)

			if a.health != nil {
				ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
				defer cancel()
				if err := a.health(ctx); err != nil {
					fmt.Fprintln(a.stdout, "store:    unreachable")
					return err
				}
			}
			fmt.Fprintln(a.stdout, "store:    ok")

			snap := a.session.Snapshot()
			if !snap.IsAuthenticated {
				fmt.Fprintln(a.stdout, "session:  logged out")
				return nil
			}
			fmt.Fprintf(a.stdout, "session:  %s <%s>\n", snap.User.DisplayName(), snap.User.Email)
			return nil
		},
	}
}
