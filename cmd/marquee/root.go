package main

import (
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	groupCuration    = "curation"
	groupMaintenance = "maintenance"
)

func newRootCommand() *cobra.Command {
	var (
		configFlag string
		jsonFlag   bool
	)
	ctx := newCommandContext(&configFlag, &jsonFlag)

	root := &cobra.Command{
		Use:           "marquee",
		Short:         "Curate movie and TV picks for scheduled feeds",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
	}
	root.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	root.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Emit JSON instead of tables")

	root.AddGroup(
		&cobra.Group{ID: groupCuration, Title: "Curation:"},
		&cobra.Group{ID: groupMaintenance, Title: "Maintenance:"},
	)
	for _, cmd := range []*cobra.Command{newCurateCommand(ctx), newExplainCommand(ctx), newPostsCommand(ctx)} {
		cmd.GroupID = groupCuration
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{newConfigCommand(ctx), newNotifyCommand(ctx), newStatusCommand(ctx)} {
		cmd.GroupID = groupMaintenance
		root.AddCommand(cmd)
	}
	return root
}
