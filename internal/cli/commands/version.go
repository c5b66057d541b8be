package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/gachalog/pkg/timeline"
)

// Version is set via ldflags at build time.
var Version = "dev"

// NewVersionCommand prints the build version and the version range the
// built-in release timeline covers.
func NewVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the gachalog version and the release timeline it was built with.

Reports whose headers fall outside that range are parsed with day 0.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "gachalog %s\n", Version)
			if short {
				return
			}
			labels := timeline.Build().Labels()
			fmt.Fprintf(w, "timeline: %s to %s (%d versions, %d days each)\n",
				labels[0], labels[len(labels)-1], len(labels), timeline.DaysPerVersion)
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version")
	return cmd
}
