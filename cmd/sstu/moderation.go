package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/SinArtur/Sstu-DB/api"
)

var (
	errModeratorOnly = errors.New("moderator role required")
	errUnknownKind   = errors.New("expected material or request")
)

const (
	kindMaterial = "material"
	kindRequest  = "request"
)

func newModerationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "moderation",
		Aliases: []string{"mod"},
		Short:   "Review pending materials and branch requests",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.open(cmd.Context()); err != nil {
				return err
			}
			u, err := a.requireLogin()
			if err != nil {
				return err
			}
			if !u.Role.CanModerate() {
				return errModeratorOnly
			}
			return nil
		},
	}

	pending := &cobra.Command{
		Use:   "pending",
		Short: "List what awaits review",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			materials, err := a.api.Materials.List(ctx, api.MaterialFilter{Status: api.StatusPending})
			if err != nil {
				return err
			}
			requests, err := a.api.Branches.ListRequests(ctx, api.StatusPending, 0)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "Materials (%d)\n", materials.Count)
			printMaterials(a.stdout, materials.Results)

			fmt.Fprintf(a.stdout, "\nBranch requests (%d)\n", requests.Count)
			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tPARENT\tNAME\tREQUESTER\tCREATED")
			for _, r := range requests.Results {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
					r.ID, pathOr(r.ParentPath, r.ParentName), r.Name, r.RequesterEmail, r.CreatedAt.Local().Format(time.DateOnly))
			}
			return tw.Flush()
		},
	}

	var comment string
	approve := &cobra.Command{
		Use:   "approve material|request ID",
		Short: "Approve a material or a branch request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oid, err := parseID(args[1])
			if err != nil {
				return err
			}
			switch args[0] {
			case kindMaterial:
				m, err := a.api.Materials.Approve(cmd.Context(), oid, comment)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Material #%d approved\n", m.ID)
			case kindRequest:
				b, err := a.api.Branches.ApproveRequest(cmd.Context(), oid, comment)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Branch #%d %s created\n", b.ID, pathOr(b.FullPath, b.Name))
			default:
				return fmt.Errorf("%w: %q", errUnknownKind, args[0])
			}
			return nil
		},
	}
	approve.Flags().StringVarP(&comment, "comment", "c", "", "note for the author")

	var reason string
	reject := &cobra.Command{
		Use:   "reject material|request ID",
		Short: "Reject a material or a branch request",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			oid, err := parseID(args[1])
			if err != nil {
				return err
			}
			switch args[0] {
			case kindMaterial:
				if _, err := a.api.Materials.Reject(cmd.Context(), oid, reason); err != nil {
					return err
				}
			case kindRequest:
				if _, err := a.api.Branches.RejectRequest(cmd.Context(), oid, reason); err != nil {
					return err
				}
			default:
				return fmt.Errorf("%w: %q", errUnknownKind, args[0])
			}
			fmt.Fprintf(a.stdout, "%s #%d rejected\n", args[0], oid)
			return nil
		},
	}
	reject.Flags().StringVarP(&reason, "comment", "c", "", "reason shown to the author (required)")

	logs := &cobra.Command{
		Use:   "log",
		Short: "Show the moderation log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := a.api.Moderation.Logs(cmd.Context(), "", 0)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "WHEN\tMODERATOR\tACTION\tOBJECT\tCOMMENT")
			for _, l := range page.Results {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s #%d\t%s\n",
					l.CreatedAt.Local().Format(time.DateTime), l.ModeratorEmail, roleLabel(l.ActionDisplay, string(l.Action)),
					l.ContentTypeName, l.ObjectID, l.Comment)
			}
			return tw.Flush()
		},
	}

	cmd.AddCommand(pending, approve, reject, logs)
	return cmd
}
