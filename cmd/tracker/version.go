package tracker

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Set with -ldflags "-X .../cmd/tracker.version=..." at release time.
var (
	version = "dev"
	commit  = ""
	date    = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version/build metadata",
	Run: func(cmd *cobra.Command, args []string) {
		printVersion(cmd)
	},
}

func printVersion(cmd *cobra.Command) {
	rev, built := commit, date
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if rev == "" {
					rev = s.Value
				}
			case "vcs.time":
				if built == "" {
					built = s.Value
				}
			}
		}
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "tracker %s\n", version)
	if rev != "" {
		fmt.Fprintf(out, "commit: %s\n", rev)
	}
	if built != "" {
		fmt.Fprintf(out, "built: %s\n", built)
	}
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
