package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"workdex/internal/gitops"
)

// syncTagsCmd aligns git tags with the work index anchors
var syncTagsCmd = &cobra.Command{
	Use:   "sync-tags",
	Short: "Check or create the git tags the work index is anchored to",
	Long: `Checks that the active EPIC tag and the product version tag point at
HEAD. With --create, missing tags are created at HEAD; without it, each
missing tag produces the exact command to run.

Tag queries that fail (for example outside a git repository) are logged
and skipped; only a failed tag creation fails the command.`,
	RunE: runSyncTags,
}

func runSyncTags(cmd *cobra.Command, args []string) error {
	cfg, ws, err := loadEnv()
	if err != nil {
		return err
	}
	l, err := loadIndex(cfg, ws)
	if err != nil {
		return err
	}

	createMissing, _ := cmd.Flags().GetBool("create")

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GetGitTimeout())
	defer cancel()

	ok, messages := gitops.NewClient(ws, logger).SyncTags(ctx, l, createMissing)
	for _, msg := range messages {
		fmt.Println(msg)
	}
	if !ok {
		return errors.New("tag sync failed")
	}
	if len(messages) == 0 {
		fmt.Println(okStyle.Render("tags are in sync with HEAD"))
	}
	return nil
}
