package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"marquee/internal/catalog"
	"marquee/internal/pipeline"
	"marquee/internal/textutil"
)

func newExplainCommand(ctx *commandContext) *cobra.Command {
	var feedFlag string
	var trendingRank int
	var upcomingRank int

	cmd := &cobra.Command{
		Use:   "explain <movie|tv> <id>",
		Short: "Show how one title fares in a feed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseKey(args[0], args[1])
			if err != nil {
				return err
			}
			feed, err := catalog.ParseFeedType(feedFlag)
			if err != nil {
				return err
			}
			logger, err := ctx.loggerFor(cmd)
			if err != nil {
				return err
			}
			source, err := ctx.catalogSource(logger)
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			item, err := source.Lookup(cmd.Context(), key)
			if err != nil {
				return fmt.Errorf("look up %s: %w", key, err)
			}
			curator, err := ctx.curator(source, store, logger)
			if err != nil {
				return err
			}
			hints := catalog.Hints{TrendingRank: trendingRank, UpcomingRank: upcomingRank}
			explanation, err := curator.Explain(cmd.Context(), item, hints, feed)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, explanation)
			}
			renderExplanation(cmd.OutOrStdout(), explanation)
			return nil
		},
	}

	cmd.Flags().StringVarP(&feedFlag, "feed", "f", string(catalog.FeedWeekly), "Feed type to evaluate against")
	cmd.Flags().IntVar(&trendingRank, "trending", 0, "Trending rank hint (0 when unranked)")
	cmd.Flags().IntVar(&upcomingRank, "upcoming", 0, "Upcoming rank hint (0 when unranked)")
	return cmd
}

func renderExplanation(out io.Writer, e *pipeline.Explanation) {
	fmt.Fprintf(out, "%s (%s) in the %s feed\n", e.Title, e.Key, e.Feed)

	verdict := "PASS"
	if !e.Filter.Pass {
		verdict = "REJECT at " + string(e.Filter.FailedRule)
	}
	fmt.Fprintf(out, "\nFilters: %s\n", verdict)
	for _, reason := range e.Filter.Reasons {
		fmt.Fprintf(out, "  - %s\n", reason)
	}

	b := e.Score.Breakdown
	rows := [][]string{
		{"Popularity", fmt.Sprintf("%.1f", b.Popularity)},
		{"Trending", fmt.Sprintf("%.1f", b.Trending)},
		{"Genre", fmt.Sprintf("%.1f", b.Genre)},
		{"Studio", fmt.Sprintf("%.1f", b.Studio)},
		{"Vote penalty", fmt.Sprintf("%.1f", b.VotePenalty)},
		{"Collection", fmt.Sprintf("%.1f", b.Collection)},
		{"Hype", fmt.Sprintf("%.1f", b.Hype)},
		{"Total", fmt.Sprintf("%.1f", e.Score.Score)},
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, renderTable([]string{"Component", "Points"}, rows, 2))

	fmt.Fprintf(out, "\nDedup: %s (%s)\n", textutil.Ternary(e.Dedup.Kept, "kept", "skipped"), e.Dedup.Reason)
	if e.CooldownDays > 0 {
		fmt.Fprintf(out, "Eligible again in %s days\n", strconv.Itoa(e.CooldownDays))
	}
}
