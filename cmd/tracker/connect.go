package tracker

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var connectCmd = &cobra.Command{
	Use:               "connect",
	Short:             "Link third-party accounts",
	PersistentPreRunE: requireLogin,
}

var connectNoBrowser bool

// openURL is swapped in tests.
var openURL = browser.OpenURL

var connectFatSecretCmd = &cobra.Command{
	Use:   "fatsecret",
	Short: "Authorize FatSecret so nutrition entries can be imported",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := current(cmd)
		if err != nil {
			return err
		}
		authURL, err := rt.client.FatSecretAuthURL(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Authorize FatSecret at:\n%s\n", authURL)
		if connectNoBrowser {
			return nil
		}
		browser.Stdout = cmd.ErrOrStderr()
		browser.Stderr = cmd.ErrOrStderr()
		if err := openURL(authURL); err != nil {
			rt.logger.Warn("could not open browser", "error", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)
	connectCmd.AddCommand(connectFatSecretCmd)
	connectFatSecretCmd.Flags().BoolVar(&connectNoBrowser, "no-browser", false, "Only print the authorization URL")
}
