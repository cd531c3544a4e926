package cmd

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/albinchristo04/streameast/api"
	"github.com/albinchristo04/streameast/color"
	"github.com/albinchristo04/streameast/icon"
	"github.com/albinchristo04/streameast/query"
	"github.com/albinchristo04/streameast/style"
	"github.com/albinchristo04/streameast/util"
)

func init() {
	rootCmd.AddCommand(sportsCmd)

	sportsCmd.Flags().Bool("fresh", false, "Bypass the discovery cache")
}

// sportsCmd lists the sport slugs the upstream API currently serves.
var sportsCmd = &cobra.Command{
	Use:   "sports [patterns...]",
	Short: "List the sports available upstream, optionally fuzzy-filtered",
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client := newAPI(newNetwork())

		if lo.Must(cmd.Flags().GetBool("fresh")) {
			probe := client.Sports()
			handleErr(probe.Err())
			slugs := api.SportSlugs(probe.JSON)
			printSports(slugs, args)
			return
		}

		slugs, err := client.SportSlugsCached()
		handleErr(err)
		printSports(slugs, args)
	},
}

func printSports(slugs, patterns []string) {
	if len(patterns) > 0 {
		slugs = api.FilterSports(slugs, patterns)
	}

	if len(slugs) == 0 {
		fmt.Printf("%s No sports matched\n", icon.Get(icon.Warning))
		return
	}

	// Previously scanned sports get a highlight.
	recent := lo.SliceToMap(query.SuggestMany(""), func(s string) (string, struct{}) {
		return s, struct{}{}
	})

	for _, slug := range slugs {
		if _, ok := recent[slug]; ok {
			fmt.Printf("%s %s\n", icon.Get(icon.Stream), style.Fg(color.Cyan)(slug))
			continue
		}
		fmt.Println(slug)
	}

	fmt.Printf("\n%s\n", style.Faint(util.Quantify(len(slugs), "sport", "sports")))
}
