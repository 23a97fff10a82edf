package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"workdex/internal/config"
	"workdex/internal/history"
	"workdex/internal/ledger"
)

// assignCmd admits a story assignment under the concurrency limits
var assignCmd = &cobra.Command{
	Use:   "assign <story-id> [agent-id]",
	Short: "Assign a story to an agent (set status to in_progress)",
	Long: `Runs the admission-control gate for putting a story in flight. The
global and per-EPIC concurrency limits are checked prospectively on every
call; only an admitted assignment mutates and persists the index.

Every decision, admitted or refused, is appended to the history database.

Examples:
  workdex assign E1-S2 agent-7
  workdex assign E1-S2`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runAssign,
}

func runAssign(cmd *cobra.Command, args []string) error {
	cfg, ws, err := loadEnv()
	if err != nil {
		return err
	}
	l, err := loadIndex(cfg, ws)
	if err != nil {
		return err
	}

	storyID := args[0]
	agentID := ""
	if len(args) > 1 {
		agentID = args[1]
	}

	ok, message := ledger.Assign(l, storyID, agentID, time.Now)
	if !ok {
		recordDecision(cfg, ws, storyID, agentID, false, message)
		fmt.Println(errStyle.Render(message))
		return errors.New("assignment refused")
	}

	// The admitted row is only written once the new state is on disk; a
	// failed save is recorded as a refusal so the audit log never claims an
	// assignment that never persisted.
	if err := ledger.Save(filepath.Join(ws, cfg.Paths.IndexFile), l); err != nil {
		recordDecision(cfg, ws, storyID, agentID, false, fmt.Sprintf("admitted but not persisted: %v", err))
		return err
	}
	recordDecision(cfg, ws, storyID, agentID, true, message)
	fmt.Println(okStyle.Render(message))
	return nil
}

// recordDecision appends the admission outcome to the audit log. History is
// best-effort: a broken audit database must not block assignment itself.
func recordDecision(cfg *config.Config, ws, storyID, agentID string, admitted bool, reason string) {
	store, err := history.NewStore(filepath.Join(ws, cfg.Paths.HistoryDB))
	if err != nil {
		logger.Warn("could not open history store", zap.Error(err))
		return
	}
	defer store.Close()

	if _, err := store.Record(storyID, agentID, admitted, reason); err != nil {
		logger.Warn("could not record admission decision", zap.Error(err))
	}
}
