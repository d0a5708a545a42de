package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/SinArtur/Sstu-DB/api"
	"github.com/SinArtur/Sstu-DB/pkg/qrcode"
)

func newInvitesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invites",
		Short: "Manage invite codes",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List my invite codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tokens, err := a.api.Invites.Mine(cmd.Context())
			if err != nil {
				return err
			}
			if len(tokens) == 0 {
				fmt.Fprintln(a.stdout, "No invite codes")
				return nil
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tCODE\tCREATED\tUSED BY")
			for _, t := range tokens {
				usedBy := "-"
				if t.Used {
					usedBy = pathOr(t.UsedByEmail, "yes")
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", t.ID, t.Code, t.CreatedAt.Local().Format(time.DateOnly), usedBy)
			}
			return tw.Flush()
		},
	}

	var (
		count int
		qr    bool
	)
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Create invite codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tokens, err := a.api.Invites.Generate(cmd.Context(), count)
			if err != nil {
				return err
			}
			if len(tokens) < count {
				fmt.Fprintf(a.stderr, "created %d of %d codes, the limit of active codes was reached\n", len(tokens), count)
			}
			for _, t := range tokens {
				link := api.RegistrationLink(a.cfg.InviteBaseURL, t.Code)
				fmt.Fprintln(a.stdout, link)
				if !qr {
					continue
				}
				code, err := qrcode.Terminal(link)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, code)
			}
			return nil
		},
	}
	generate.Flags().IntVarP(&count, "count", "n", 1, "number of codes")
	generate.Flags().BoolVar(&qr, "qr", false, "print a QR code for each registration link")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an unused invite code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tid, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.api.Invites.Delete(cmd.Context(), tid); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Invite #%d deleted\n", tid)
			return nil
		},
	}

	chain := &cobra.Command{
		Use:   "chain",
		Short: "Show who invited whom up to the first user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			links, err := a.api.Invites.ReferralChain(cmd.Context())
			if err != nil {
				return err
			}
			for _, l := range links {
				fmt.Fprintf(a.stdout, "%s <- %s\n", l.User.DisplayName(), l.InvitedBy.DisplayName())
			}
			return nil
		},
	}

	cmd.AddCommand(list, generate, del, chain)
	return cmd
}
