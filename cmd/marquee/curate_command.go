package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"marquee/internal/catalog"
	"marquee/internal/logging"
	"marquee/internal/notifications"
	"marquee/internal/pipeline"
	"marquee/internal/schedule"
	"marquee/internal/services"
	"marquee/internal/textutil"
)

func newCurateCommand(ctx *commandContext) *cobra.Command {
	var feedFlag string
	var maxItems int
	var commit bool
	var showTrail bool

	cmd := &cobra.Command{
		Use:   "curate",
		Short: "Run the curation pipeline for a feed type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			feed, err := catalog.ParseFeedType(feedFlag)
			if err != nil {
				return err
			}
			logger, err := ctx.loggerFor(cmd)
			if err != nil {
				return err
			}
			notifier := ctx.notifier()
			runCtx := cmd.Context()

			result, err := runCuration(runCtx, ctx, logger, feed, maxItems, commit)
			if err != nil {
				logging.ErrorWithContext(logger, "curation failed", "curate_failed",
					logging.Feed(feed),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, services.Hint(err)),
				)
				publish(runCtx, notifier, notifications.EventError, notifications.Payload{
					"context": fmt.Sprintf("%s curation", feed),
					"error":   err,
				})
				return err
			}

			if result.Outcome == pipeline.OutcomeSelected {
				publish(runCtx, notifier, notifications.EventRunSelected, notifications.Payload{
					"feed":       string(feed),
					"titles":     result.Titles(),
					"confidence": result.Confidence,
				})
			} else {
				publish(runCtx, notifier, notifications.EventRunEmpty, notifications.Payload{
					"feed":    string(feed),
					"outcome": outcomeLabel(result.Outcome),
				})
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}
			renderResult(cmd.OutOrStdout(), result, showTrail, commit)
			return nil
		},
	}

	cmd.Flags().StringVarP(&feedFlag, "feed", "f", string(catalog.FeedWeekly), "Feed type (today, weekly, monthly, anniversary)")
	cmd.Flags().IntVarP(&maxItems, "max", "n", 0, "Maximum picks (defaults to curation.max_items)")
	cmd.Flags().BoolVar(&commit, "commit", false, "Record the picks as scheduled posts")
	cmd.Flags().BoolVar(&showTrail, "trail", false, "Show the filter verdict for every candidate")
	return cmd
}

func runCuration(runCtx context.Context, ctx *commandContext, logger *slog.Logger, feed catalog.FeedType, maxItems int, commit bool) (*pipeline.Result, error) {
	source, err := ctx.catalogSource(logger)
	if err != nil {
		return nil, err
	}
	store, err := ctx.openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	curator, err := ctx.curator(source, store, logger)
	if err != nil {
		return nil, err
	}
	// A committing run holds the schedule lock from the post read through the
	// insert, so overlapping runs see each other's picks.
	var result *pipeline.Result
	curate := func(ctx context.Context) error {
		var err error
		if result, err = curator.Run(ctx, feed, maxItems); err != nil {
			return err
		}
		if !commit || len(result.Selected) == 0 {
			return nil
		}
		return store.AddBatch(ctx, scheduledPosts(result))
	}
	if commit {
		err = store.WithLock(runCtx, curate)
	} else {
		err = curate(runCtx)
	}
	if err != nil {
		return nil, err
	}
	if commit && len(result.Selected) > 0 {
		logger.Info("picks scheduled",
			logging.String(logging.FieldRunID, result.RunID),
			logging.Int("count", len(result.Selected)),
		)
	}
	return result, nil
}

func scheduledPosts(result *pipeline.Result) []schedule.Post {
	posts := make([]schedule.Post, 0, len(result.Selected))
	for _, s := range result.Selected {
		posts = append(posts, schedule.Post{
			Key:         s.Item.Key(),
			Source:      result.Feed,
			Title:       s.Item.Common().Title,
			RunID:       result.RunID,
			ScheduledAt: result.StartedAt,
		})
	}
	return posts
}

func publish(ctx context.Context, notifier notifications.Service, event notifications.Event, payload notifications.Payload) {
	if notifier == nil {
		return
	}
	_ = notifier.Publish(ctx, event, payload)
}

func outcomeLabel(outcome pipeline.Outcome) string {
	switch outcome {
	case pipeline.OutcomeNoCandidates:
		return "catalog returned no candidates"
	case pipeline.OutcomeAllFiltered:
		return "every candidate was filtered out"
	case pipeline.OutcomeAllDuplicates:
		return "every survivor was posted recently"
	default:
		return string(outcome)
	}
}

func renderResult(out io.Writer, result *pipeline.Result, showTrail, committed bool) {
	fmt.Fprintf(out, "%s feed · run %s\n", textutil.TitleCase(string(result.Feed)), result.RunID)

	if showTrail && len(result.Evaluations) > 0 {
		rows := make([][]string, 0, len(result.Evaluations))
		for _, e := range result.Evaluations {
			verdict := "pass"
			detail := ""
			if !e.Outcome.Pass {
				verdict = string(e.Outcome.FailedRule)
				detail = e.Outcome.Reasons[len(e.Outcome.Reasons)-1]
			}
			rows = append(rows, []string{
				e.Key.String(),
				textutil.Truncate(e.Title, 40),
				yesNo(e.Enriched),
				verdict,
				detail,
			})
		}
		fmt.Fprintln(out, renderTable([]string{"Key", "Title", "Enriched", "Verdict", "Reason"}, rows))
	}

	c := result.Counts
	fmt.Fprintf(out, "Fetched %d · enriched %d (%d failed) · passed %d · kept %d · selected %d\n",
		c.Fetched, c.Enriched, c.EnrichFailed, c.Passed, c.Kept, c.Selected)

	if result.Outcome != pipeline.OutcomeSelected {
		fmt.Fprintf(out, "No picks: %s\n", outcomeLabel(result.Outcome))
		return
	}

	rows := make([][]string, 0, len(result.Selected))
	for _, s := range result.Selected {
		f := s.Item.Common()
		rows = append(rows, []string{
			strconv.Itoa(s.Rank),
			textutil.Truncate(f.Title, 40),
			string(s.Item.Key().MediaType),
			fmt.Sprintf("%.1f", s.Score),
			fmt.Sprintf("%.1f", f.Popularity),
			fmt.Sprintf("%.1f", f.VoteAverage),
			strconv.Itoa(f.VoteCount),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Title", "Type", "Score", "Popularity", "Rating", "Votes"},
		rows, 1, 4, 5, 6, 7,
	))
	fmt.Fprintf(out, "Confidence: %.0f%%\n", result.Confidence)
	if committed {
		fmt.Fprintf(out, "Scheduled %d posts\n", len(result.Selected))
	}
}
