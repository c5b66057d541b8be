package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/gachalog/pkg/output"
	"github.com/ccollicutt/gachalog/pkg/timeline"
)

// NewTimelineCommand creates the timeline command.
func NewTimelineCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Print the version to day table",
		Long: `Print every version from 1.0 up to the last 6.x release with the day
it started, counted from the 1.0 launch. Each version lasts 42 days.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tl := timeline.Build()
			w := cmd.OutOrStdout()

			switch format {
			case "json":
				type entry struct {
					Version timeline.VersionLabel `json:"version"`
					Day     int                   `json:"day"`
				}
				entries := make([]entry, 0, tl.Len())
				for _, v := range tl.Labels() {
					day, _ := tl.Days(v)
					entries = append(entries, entry{Version: v, Day: day})
				}
				return writeJSON(w, entries)

			case "text":
				rows := make([][]string, 0, tl.Len())
				for _, v := range tl.Labels() {
					day, _ := tl.Days(v)
					rows = append(rows, []string{v.String(), strconv.Itoa(day)})
				}
				fmt.Fprintln(w, output.RenderTable([]string{"Version", "Day"}, rows, formatOptionsFor(w, output.FormatOptions{})))
				fmt.Fprintf(w, "%d versions, %d days per version\n", tl.Len(), timeline.DaysPerVersion)
				return nil

			default:
				return fmt.Errorf("unknown output format %q (use text or json)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "text", "Output format (text|json)")

	return cmd
}
