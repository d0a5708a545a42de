package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SinArtur/Sstu-DB/api"
	"github.com/SinArtur/Sstu-DB/pkg/jwt"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if email == "" {
				if email, err = a.prompt("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = a.prompt("Password: "); err != nil {
					return err
				}
			}

			user, err := a.api.Auth.Login(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Logged in as %s\n", user.DisplayName())
			if !user.IsEmailVerified {
				fmt.Fprintln(a.stdout, "Email is not verified yet, check your inbox.")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when empty)")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var p api.RegisterParams
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account with an invite code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if p.Password == "" {
				if p.Password, err = a.prompt("Password: "); err != nil {
					return err
				}
				if p.PasswordConfirm, err = a.prompt("Repeat password: "); err != nil {
					return err
				}
			} else {
				p.PasswordConfirm = p.Password
			}

			user, msg, err := a.api.Auth.Register(cmd.Context(), p)
			if err != nil {
				return err
			}
			if msg != "" {
				fmt.Fprintln(a.stdout, msg)
			}
			fmt.Fprintf(a.stdout, "Registered as %s\n", user.DisplayName())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&p.Email, "email", "e", "", "account email")
	f.StringVarP(&p.Username, "username", "u", "", "username")
	f.StringVarP(&p.InviteToken, "invite", "i", "", "invite code")
	f.StringVar(&p.FirstName, "first-name", "", "first name")
	f.StringVar(&p.LastName, "last-name", "", "last name")
	f.StringVarP(&p.Password, "password", "p", "", "password (prompted when empty)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("invite")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.api.Auth.Logout(cmd.Context())
			fmt.Fprintln(a.stdout, "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user and token lifetimes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if _, err := a.requireLogin(); err != nil {
				return err
			}

			var unread int
			if remote {
				if _, err := a.api.Auth.Profile(ctx); err != nil {
					return err
				}
				n, err := a.api.Notifications.UnreadCount(ctx)
				if err != nil {
					return err
				}
				unread = n
			}

			snap := a.session.Snapshot()
			if snap.User == nil {
				return errNotLoggedIn
			}
			u := snap.User
			fmt.Fprintf(a.stdout, "%s <%s>\n", u.DisplayName(), u.Email)
			fmt.Fprintf(a.stdout, "role:     %s\n", roleLabel(u.RoleDisplay, string(u.Role)))
			if u.GroupName != nil {
				fmt.Fprintf(a.stdout, "group:    %s\n", *u.GroupName)
			}
			fmt.Fprintf(a.stdout, "verified: %t\n", u.IsEmailVerified)

			now := time.Now()
			if exp, ok := snap.AccessExpiresAt(); ok {
				note := ""
				if jwt.ExpiresWithin(snap.AccessToken, time.Minute, now) {
					note = " (refreshed on next request)"
				}
				fmt.Fprintf(a.stdout, "access:   expires %s%s\n", exp.Local().Format(time.DateTime), note)
			}
			if exp, ok := snap.RefreshExpiresAt(); ok {
				fmt.Fprintf(a.stdout, "refresh:  expires %s\n", exp.Local().Format(time.DateTime))
			}
			if remote {
				fmt.Fprintf(a.stdout, "unread:   %d\n", unread)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&remote, "remote", "r", false, "refresh the profile from the server first")
	return cmd
}

func newProfileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the server-side profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := a.api.Auth.Profile(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "id:         %d\n", u.ID)
			fmt.Fprintf(a.stdout, "email:      %s\n", u.Email)
			fmt.Fprintf(a.stdout, "username:   %s\n", u.Username)
			fmt.Fprintf(a.stdout, "first name: %s\n", u.FirstName)
			fmt.Fprintf(a.stdout, "last name:  %s\n", u.LastName)
			fmt.Fprintf(a.stdout, "role:       %s\n", roleLabel(u.RoleDisplay, string(u.Role)))
			return nil
		},
	}

	var username, first, last string
	update := &cobra.Command{
		Use:   "update",
		Short: "Change username or name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var upd api.ProfileUpdate
			if cmd.Flags().Changed("username") {
				upd.Username = &username
			}
			if cmd.Flags().Changed("first-name") {
				upd.FirstName = &first
			}
			if cmd.Flags().Changed("last-name") {
				upd.LastName = &last
			}
			if upd == (api.ProfileUpdate{}) {
				return fmt.Errorf("nothing to update")
			}
			u, err := a.api.Auth.UpdateProfile(cmd.Context(), upd)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Profile updated: %s\n", u.DisplayName())
			return nil
		},
	}
	update.Flags().StringVar(&username, "username", "", "new username")
	update.Flags().StringVar(&first, "first-name", "", "new first name")
	update.Flags().StringVar(&last, "last-name", "", "new last name")

	cmd.AddCommand(update)
	return cmd
}

func roleLabel(display, role string) string {
	if display != "" {
		return display
	}
	return role
}
