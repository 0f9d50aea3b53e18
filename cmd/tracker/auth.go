package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shester1kov/go-online-workout-tracker/internal/guard"
	"github.com/shester1kov/go-online-workout-tracker/internal/resource"
	"github.com/shester1kov/go-online-workout-tracker/internal/session"
)

var (
	authEmail    string
	authPassword string
	authUsername string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readSecret(cmd, "password", authPassword)
		if err != nil {
			return err
		}
		return withRuntime(cmd, func(rt *runtime) error {
			user, err := rt.session.Register(cmd.Context(), authEmail, password, authUsername)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s (%s)\n", user.Username, user.Email)
			return nil
		})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in; the password is read from stdin when --password is not set",
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readSecret(cmd, "password", authPassword)
		if err != nil {
			return err
		}
		return withRuntime(cmd, func(rt *runtime) error {
			user, err := rt.session.Login(cmd.Context(), authEmail, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", user.Username, user.Email)
			return nil
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(rt *runtime) error {
			if err := rt.session.Logout(cmd.Context()); err != nil {
				rt.logger.Warn("logout request failed; local session cleared anyway", "error", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:               "whoami",
	Short:             "Show the logged-in user, roles and session expiry",
	PersistentPreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		user := rt.session.User()
		roles := resource.NewRoles(rt.client, rt.resourceOptions())
		if err := roles.Load(cmd.Context(), user.ID); err != nil {
			return err
		}
		names := make([]string, 0, len(roles.Items()))
		for _, r := range roles.Items() {
			names = append(names, r.Name)
		}
		caps := guard.CapabilitiesFor(roles.Items())

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID\t%d\n", user.ID)
		fmt.Fprintf(out, "USERNAME\t%s\n", user.Username)
		fmt.Fprintf(out, "EMAIL\t%s\n", user.Email)
		fmt.Fprintf(out, "ROLES\t%s\n", strings.Join(names, ","))
		fmt.Fprintf(out, "MANAGE_EXERCISES\t%s\n", yesNo(caps.ManageExercises))
		fmt.Fprintf(out, "MANAGE_CATEGORIES\t%s\n", yesNo(caps.ManageCategories))
		token, err := session.Token(rt.jar, rt.apiURL)
		switch {
		case errors.Is(err, session.ErrNoToken):
		case err != nil:
			rt.logger.Debug("session token unreadable", "error", err)
		case !token.ExpiresAt.IsZero():
			fmt.Fprintf(out, "SESSION_EXPIRES\t%s\n", token.ExpiresAt.Local().Format(time.RFC3339))
		}
		return nil
	},
}

var roleCmd = &cobra.Command{
	Use:               "role",
	Short:             "Inspect and grant user roles",
	PersistentPreRunE: requireLogin,
}

var roleListCmd = &cobra.Command{
	Use:   "list [user-id]",
	Short: "List roles of a user (default: yourself)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		userID := rt.session.User().ID
		if len(args) == 1 {
			if userID, err = parseIDArg("user id", args[0]); err != nil {
				return err
			}
		}
		roles := resource.NewRoles(rt.client, rt.resourceOptions())
		if err := roles.Load(cmd.Context(), userID); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ID\tNAME")
		for _, r := range roles.Items() {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", r.ID, r.Name)
		}
		return nil
	},
}

var roleGrantCmd = &cobra.Command{
	Use:   "grant <user-id> <role-id>",
	Short: "Grant a role to a user (admins only)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseIDArg("user id", args[0])
		if err != nil {
			return err
		}
		roleID, err := parseIDArg("role id", args[1])
		if err != nil {
			return err
		}
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		user, err := rt.client.GrantRole(cmd.Context(), userID, roleID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Granted role %d to %s\n", roleID, user.Username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd, roleCmd)
	roleCmd.AddCommand(roleListCmd, roleGrantCmd)

	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email")
		c.Flags().StringVar(&authPassword, "password", "", "Account password (read from stdin when empty)")
	}
	registerCmd.Flags().StringVar(&authUsername, "username", "", "Display name")
}
