package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"workdex/internal/gitops"
	"workdex/internal/ledger"
)

// checkConflictsCmd screens a pending change-set for racy status transitions
var checkConflictsCmd = &cobra.Command{
	Use:   "check-conflicts <changed-files...>",
	Short: "Check a pending change-set for concurrent status conflicts",
	Long: `Intended as a pre-commit hook. Given the list of files in the pending
change-set, inspects the work index diff for multiple stories moving to
in_progress at once (an advisory warning - a text diff cannot prove a
race) and re-validates the index as it stands after the change.

Only validation errors fail the check; the heuristic never does.

Example:
  workdex check-conflicts $(git diff --cached --name-only)`,
	Args: cobra.ArbitraryArgs,
	RunE: runCheckConflicts,
}

func runCheckConflicts(cmd *cobra.Command, args []string) error {
	cfg, ws, err := loadEnv()
	if err != nil {
		return err
	}
	l, err := loadIndex(cfg, ws)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GetGitTimeout())
	defer cancel()

	diffText := gitops.NewClient(ws, logger).IndexDiff(ctx, cfg.Paths.IndexFile)
	result := ledger.CheckConflicts(l, args, cfg.Paths.IndexFile, diffText)
	printFindings(result)
	if !result.Valid {
		return fmt.Errorf("conflict check failed with %d error(s)", len(result.Errors))
	}

	fmt.Println(okStyle.Render("no conflicts detected"))
	return nil
}
