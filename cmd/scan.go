package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/albinchristo04/streameast/api"
	"github.com/albinchristo04/streameast/color"
	"github.com/albinchristo04/streameast/icon"
	"github.com/albinchristo04/streameast/key"
	"github.com/albinchristo04/streameast/query"
	"github.com/albinchristo04/streameast/scan"
	"github.com/albinchristo04/streameast/style"
	"github.com/albinchristo04/streameast/util"
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringSliceP("sport", "s", []string{}, "Sport slugs or patterns to scan (fuzzy-matched against the discovered list)")
	lo.Must0(viper.BindPFlag(key.ScanSports, scanCmd.Flags().Lookup("sport")))

	scanCmd.Flags().BoolP("resume", "r", false, "Resume from an existing scan report")
	lo.Must0(viper.BindPFlag(key.ScanResume, scanCmd.Flags().Lookup("resume")))

	scanCmd.Flags().StringP("out", "o", "", "Scan report path")
	lo.Must0(viper.BindPFlag(key.OutputPath, scanCmd.Flags().Lookup("out")))

	scanCmd.Flags().IntP("workers", "w", 0, "Concurrent enrichment workers")
	scanCmd.Flags().Bool("check-images", false, "HEAD-check poster and logo URLs")
	lo.Must0(viper.BindPFlag(key.ScanCheckImages, scanCmd.Flags().Lookup("check-images")))
}

// scanCmd runs the full discovery and enrichment pipeline.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the sports API and enrich every match with resolved streams",
	Long: "Scan the sports API for matches, resolve their stream references through the embed provider,\n" +
		"and write a crash-safe, resumable JSON report. Interrupting with Ctrl-C drains in-flight\n" +
		"matches and keeps everything already processed.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		net := newNetwork()
		apiClient := newAPI(net)

		workers := viper.GetInt(key.ScanWorkers)
		if flagWorkers := lo.Must(cmd.Flags().GetInt("workers")); flagWorkers > 0 {
			workers = flagWorkers
		}

		sports, err := resolveSportPatterns(apiClient, viper.GetStringSlice(key.ScanSports))
		handleErr(err)
		for _, sport := range sports {
			_ = query.Remember(sport, 1)
		}

		scanner := scan.New(apiClient, newResolver(net), scan.Options{
			Workers:     workers,
			RateDelay:   rateDelay(),
			Sports:      sports,
			Resume:      viper.GetBool(key.ScanResume),
			OutputPath:  reportPath(),
			CheckImages: viper.GetBool(key.ScanCheckImages),
		})

		eraser := util.PrintErasable(fmt.Sprintf("%s Scanning...", icon.Get(icon.Progress)))
		state, err := scanner.Run(ctx, viper.GetString(key.APIBase), viper.GetString(key.APIEmbedHost))
		eraser()
		handleErr(err)

		total := 0
		for _, block := range state.Matches {
			total += len(block.Items)
		}

		fmt.Printf("%s Processed %s across %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Bold(util.Quantify(total, "match", "matches")),
			util.Quantify(len(state.Matches), "sport", "sports"))
		fmt.Printf("%s Report written to %s\n",
			icon.Get(icon.Stream),
			style.Fg(color.Yellow)(reportPath()))
	},
}

// resolveSportPatterns turns user-provided patterns into concrete slugs by
// fuzzy-matching them against the discovered sports list. Patterns matching
// nothing pass through literally, so unlisted slugs stay scannable. An empty
// pattern list means full discovery inside the scanner.
func resolveSportPatterns(client *api.Client, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	slugs, err := client.SportSlugsCached()
	if err != nil {
		// Discovery down; trust the explicit patterns as literal slugs.
		return patterns, nil
	}

	matched := api.FilterSports(slugs, patterns)
	if len(matched) == 0 {
		return patterns, nil
	}
	return matched, nil
}
