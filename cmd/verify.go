package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/albinchristo04/streameast/color"
	"github.com/albinchristo04/streameast/icon"
	"github.com/albinchristo04/streameast/normalize"
	"github.com/albinchristo04/streameast/output"
	"github.com/albinchristo04/streameast/style"
	"github.com/albinchristo04/streameast/util"
	"github.com/albinchristo04/streameast/verify"
)

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringP("report", "R", "", "Normalized report to verify instead of ad-hoc URLs")
	verifyCmd.Flags().StringP("out", "o", "", "Verification report path")
	verifyCmd.Flags().IntP("workers", "w", 4, "Concurrent verification workers")
	verifyCmd.Flags().BoolP("deep", "d", false, "Fetch every discovered variant, not just the entry playlist")
	verifyCmd.Flags().BoolP("resume", "r", false, "Skip matches already present in the output report")
	verifyCmd.MarkFlagsMutuallyExclusive("report", "resume")
}

// verifyCmd checks that candidate URLs really serve HLS playlists.
var verifyCmd = &cobra.Command{
	Use:   "verify [urls...]",
	Short: "Verify that resolved stream URLs serve working HLS playlists",
	Long: "Verify fetches each candidate URL and inspects the body for an #EXTM3U header,\n" +
		"classifying playlists as master or media and optionally probing every variant.\n" +
		"Pass URLs directly, or --report to verify a whole normalized report.",
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		reportFile := lo.Must(cmd.Flags().GetString("report"))
		if reportFile == "" && len(args) == 0 {
			handleErr(fmt.Errorf("nothing to verify: pass URLs or --report"))
		}

		verifier := verify.New(newNetwork(), verify.Options{
			Workers:    lo.Must(cmd.Flags().GetInt("workers")),
			Deep:       lo.Must(cmd.Flags().GetBool("deep")),
			OutputPath: lo.Must(cmd.Flags().GetString("out")),
			Resume:     lo.Must(cmd.Flags().GetBool("resume")),
		})

		if reportFile == "" {
			for _, entry := range verifier.Candidates(args) {
				printEntry(entry)
			}
			return
		}

		normalized, err := output.ReadJSON[normalize.Report](reportFile)
		handleErr(err)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		eraser := util.PrintErasable(fmt.Sprintf("%s Verifying...", icon.Get(icon.Progress)))
		report, err := verifier.Run(ctx, normalized.Matches, reportFile)
		eraser()
		handleErr(err)

		working := 0
		for _, result := range report.MatchesList {
			for _, entry := range result.Playlists {
				if entry.IsHLS {
					working++
				}
			}
		}

		fmt.Printf("%s %s verified, %s working\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			util.Quantify(len(report.MatchesList), "match", "matches"),
			style.Bold(util.Quantify(working, "playlist", "playlists")))
	},
}

func printEntry(entry verify.Entry) {
	mark := style.Fg(color.Green)(icon.Get(icon.Success))
	if !entry.IsHLS {
		mark = style.Fg(color.Red)(icon.Get(icon.Fail))
	}

	fmt.Printf("%s %s\n", mark, entry.OriginalURL)
	switch {
	case entry.IsMaster:
		fmt.Printf("  kind: %s, %s\n", style.Bold("master"), util.Quantify(len(entry.Variants), "variant", "variants"))
	case entry.MediaPlaylist:
		fmt.Printf("  kind: %s\n", style.Bold("media"))
	}
	if entry.Note != "" {
		fmt.Printf("  note: %s\n", style.Faint(entry.Note))
	}
	for _, variant := range entry.Verified {
		vmark := style.Fg(color.Green)("+")
		if !variant.ProbeHLS {
			vmark = style.Fg(color.Red)("-")
		}
		fmt.Printf("  %s %s\n", vmark, variant.URL)
	}
}
