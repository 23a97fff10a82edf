package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"workdex/internal/config"
	"workdex/internal/ledger"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter work index and default configuration",
	Long: `Seeds the workspace with a .workdex/config.yaml and a minimal work
index containing one EPIC and one ready story. Existing files are never
overwritten; re-running init in a populated workspace is a no-op.`,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	ws := resolveWorkspace()

	cfgPath := filepath.Join(ws, config.ConfigDir, "config.yaml")
	cfg := config.DefaultConfig()
	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		if err := cfg.Save(ws); err != nil {
			return err
		}
		fmt.Println(okStyle.Render("wrote " + filepath.Join(config.ConfigDir, "config.yaml")))
	} else {
		// Respect an existing config, including its index location.
		cfg, err = config.Load(ws)
		if err != nil {
			return err
		}
		fmt.Println("config already exists, leaving it alone")
	}

	indexPath := filepath.Join(ws, cfg.Paths.IndexFile)
	if _, err := os.Stat(indexPath); err == nil {
		fmt.Println("work index already exists, leaving it alone")
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check work index: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(indexPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}
	if err := ledger.Save(indexPath, starterLedger()); err != nil {
		return err
	}
	fmt.Println(okStyle.Render("wrote " + cfg.Paths.IndexFile))
	fmt.Println("\nNext steps:")
	fmt.Println("  workdex validate     # check the index")
	fmt.Println("  workdex regenerate   # produce the markdown view")
	fmt.Println("  workdex assign E1-S1 <agent-id>")
	return nil
}

// starterLedger is a minimal valid index: one epic, one ready story.
func starterLedger() *ledger.Ledger {
	today := time.Now().Format("2006-01-02")
	return &ledger.Ledger{
		Version: 1,
		ProductVersion: &ledger.ProductVersion{
			Current: "v0.1.0",
			GitTag:  "v0.1.0",
		},
		Concurrency: &ledger.Concurrency{
			MaxAgentsTotal: 2,
			AllowMultiEpic: false,
		},
		ActiveEpic: &ledger.ActiveEpic{
			ID:            "EPIC-1",
			Name:          "First epic",
			Goal:          "Describe the first milestone here",
			Owner:         "unassigned",
			Updated:       today,
			GitTag:        "epic-1-start",
			AgentsAllowed: 1,
		},
		Epics: []ledger.Epic{
			{ID: "EPIC-1", Name: "First epic", AgentsAllowed: 1},
		},
		Stories: []ledger.Story{
			{
				ID:       "E1-S1",
				Title:    "First story",
				Status:   ledger.StatusReady,
				Priority: "P1",
				Size:     "S",
				AcceptanceCriteria: []string{
					"Replace this with a verifiable acceptance criterion",
				},
			},
		},
	}
}
