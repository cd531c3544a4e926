package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/albinchristo04/streameast/color"
	"github.com/albinchristo04/streameast/icon"
	"github.com/albinchristo04/streameast/normalize"
	"github.com/albinchristo04/streameast/output"
	"github.com/albinchristo04/streameast/style"
	"github.com/albinchristo04/streameast/util"
)

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().StringP("in", "i", "", "Scan report to normalize (defaults to the configured report path)")
	normalizeCmd.Flags().StringP("out", "o", "", "Normalized report path (stdout when omitted)")
	normalizeCmd.Flags().Bool("only-live", false, "Keep only matches that look live")
	normalizeCmd.Flags().Bool("only-upcoming", false, "Keep only matches that have not started")
	normalizeCmd.MarkFlagsMutuallyExclusive("only-live", "only-upcoming")
}

// normalizeCmd flattens a raw scan report into the frontend-friendly shape.
var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Flatten a scan report into a clean list of matches with resolved streams",
	Run: func(cmd *cobra.Command, args []string) {
		in := lo.Must(cmd.Flags().GetString("in"))
		if in == "" {
			in = reportPath()
		}

		state, err := output.Load(in)
		handleErr(err)
		if state == nil {
			handleErr(fmt.Errorf("scan report not found at %s", in))
		}

		report := normalize.Build(state, normalize.Options{
			OnlyLive:     lo.Must(cmd.Flags().GetBool("only-live")),
			OnlyUpcoming: lo.Must(cmd.Flags().GetBool("only-upcoming")),
		})

		out := lo.Must(cmd.Flags().GetString("out"))
		if out == "" {
			handleErr(printJSON(report))
			return
		}

		handleErr(output.WriteJSON(out, report))
		fmt.Printf("%s Normalized %s into %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Bold(util.Quantify(report.Count, "match", "matches")),
			style.Fg(color.Yellow)(out))
	},
}
