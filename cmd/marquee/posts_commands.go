package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"marquee/internal/catalog"
	"marquee/internal/schedule"
	"marquee/internal/textutil"
)

func newPostsCommand(ctx *commandContext) *cobra.Command {
	postsCmd := &cobra.Command{
		Use:   "posts",
		Short: "Inspect and edit scheduled posts",
	}
	postsCmd.AddCommand(newPostsListCommand(ctx))
	postsCmd.AddCommand(newPostsAddCommand(ctx))
	postsCmd.AddCommand(newPostsRemoveCommand(ctx))
	postsCmd.AddCommand(newPostsCooldownCommand(ctx))
	return postsCmd
}

func newPostsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scheduled posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			posts, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, posts)
			}
			renderPosts(cmd.OutOrStdout(), posts)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum rows to show (0 for all)")
	return cmd
}

func newPostsAddCommand(ctx *commandContext) *cobra.Command {
	var feedFlag string
	var title string
	var at string

	cmd := &cobra.Command{
		Use:   "add <movie|tv> <id>",
		Short: "Record a scheduled post by hand",
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
			scheduledAt, err := parseWhen(at, time.Now().UTC())
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var added *schedule.Post
			err = store.WithLock(cmd.Context(), func(lockCtx context.Context) error {
				var addErr error
				added, addErr = store.Add(lockCtx, schedule.Post{
					Key:         key,
					Source:      feed,
					Title:       strings.TrimSpace(title),
					ScheduledAt: scheduledAt,
				})
				return addErr
			})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, added)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added post %d for %s at %s\n", added.ID, added.Key, added.ScheduledAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVarP(&feedFlag, "feed", "f", string(catalog.FeedWeekly), "Feed the post belongs to")
	cmd.Flags().StringVar(&title, "title", "", "Display title")
	cmd.Flags().StringVar(&at, "at", "", "Scheduled time (RFC3339 or YYYY-MM-DD, default now)")
	return cmd
}

func newPostsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <post-id>",
		Short: "Delete a scheduled post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid post id %q", args[0])
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var removed bool
			err = store.WithLock(cmd.Context(), func(lockCtx context.Context) error {
				var rmErr error
				removed, rmErr = store.Remove(lockCtx, id)
				return rmErr
			})
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("post %d not found", id)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed post %d\n", id)
			return nil
		},
	}
}

func newPostsCooldownCommand(ctx *commandContext) *cobra.Command {
	var feedFlag string
	cmd := &cobra.Command{
		Use:   "cooldown <movie|tv> <id>",
		Short: "Show days until a title may be posted again",
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
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			curator, err := ctx.curator(nil, store, logger)
			if err != nil {
				return err
			}
			days, err := curator.Cooldown(cmd.Context(), key, feed)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"key": key, "feed": feed, "days": days})
			}
			out := cmd.OutOrStdout()
			if days == 0 {
				fmt.Fprintf(out, "%s is eligible now\n", key)
				return nil
			}
			fmt.Fprintf(out, "%s is eligible in %d days\n", key, days)
			return nil
		},
	}
	cmd.Flags().StringVarP(&feedFlag, "feed", "f", string(catalog.FeedWeekly), "Feed the title would be posted to")
	return cmd
}

func parseWhen(value string, fallback time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New("--at must be RFC3339 or YYYY-MM-DD")
}

func renderPosts(out io.Writer, posts []schedule.Post) {
	if len(posts) == 0 {
		fmt.Fprintln(out, "No scheduled posts")
		return
	}
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Key.String(),
			textutil.Truncate(p.Title, 40),
			string(p.Source),
			p.ScheduledAt.Local().Format("2006-01-02 15:04"),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Key", "Title", "Feed", "Scheduled"},
		rows, 1,
	))
}
