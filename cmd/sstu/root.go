package main

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SinArtur/Sstu-DB/core/client"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "sstu",
		Short:         "Terminal client for the Sstu-DB study materials service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&a.cfg.API.BaseURL, "api", a.cfg.API.BaseURL, "backend API base URL")
	root.PersistentFlags().StringVar(&a.cfg.Backend, "backend", a.cfg.Backend, "session backend: file, memory, redis, postgres, mongo")
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newProfileCmd(a),
		newTreeCmd(a),
		newSearchCmd(a),
		newMaterialsCmd(a),
		newInvitesCmd(a),
		newModerationCmd(a),
		newStatusCmd(a),
	)
	return root
}

// describe turns an error into a message for the terminal, expanding
// per-field validation errors returned by the backend.
func describe(err error) string {
	if errors.Is(err, client.ErrSessionExpired) {
		return expiredHint
	}

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	if len(apiErr.Fields) == 0 {
		return apiErr.Error()
	}

	fields := make([]string, 0, len(apiErr.Fields))
	for f := range apiErr.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		if f == "non_field_errors" {
			b.WriteString(strings.Join(apiErr.Fields[f], " "))
			continue
		}
		fmt.Fprintf(&b, "%s: %s", f, strings.Join(apiErr.Fields[f], " "))
	}
	return b.String()
}
