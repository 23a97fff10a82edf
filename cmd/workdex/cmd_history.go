package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"workdex/internal/history"
)

// historyCmd lists recorded admission decisions
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent assignment admission decisions",
	Long: `Shows the audit trail of assign calls, newest first: which stories
were admitted, which were refused, and why. The trail survives index
rewrites, so it is the place to reconstruct contended assignments.`,
	RunE: runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, ws, err := loadEnv()
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	store, err := history.NewStore(filepath.Join(ws, cfg.Paths.HistoryDB))
	if err != nil {
		return err
	}
	defer store.Close()

	decisions, err := store.Recent(limit)
	if err != nil {
		return err
	}
	if len(decisions) == 0 {
		fmt.Println("no admission decisions recorded yet")
		return nil
	}

	for _, d := range decisions {
		verdict := okStyle.Render("admitted")
		if !d.Admitted {
			verdict = errStyle.Render("refused ")
		}
		agent := d.AgentID
		if agent == "" {
			agent = "-"
		}
		fmt.Printf("%s  %s  %-10s  agent=%-12s  %s\n",
			d.DecidedAt.Local().Format(time.DateTime), verdict, d.StoryID, agent, d.Reason)
	}
	return nil
}
