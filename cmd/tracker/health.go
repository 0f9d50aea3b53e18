package tracker

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the API is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRuntime(cmd, func(rt *runtime) error {
			h, err := rt.client.Health(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "API\t%s\n", rt.apiURL)
			fmt.Fprintf(out, "STATUS\t%s\n", h.Status)
			if !h.Timestamp.IsZero() {
				fmt.Fprintf(out, "TIME\t%s\n", h.Timestamp.Local().Format(time.RFC3339))
			}
			keys := make([]string, 0, len(h.Details))
			for k := range h.Details {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "%s\t%s\n", k, h.Details[k])
			}
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
