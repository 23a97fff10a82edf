package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"workdex/internal/ledger"
)

// validateCmd checks the work index against its structural invariants
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate work index structure and concurrency constraints",
	Long: `Loads the work index and checks every structural invariant: required
fields, unique story ids, known statuses, active EPIC membership, and the
global and per-EPIC in_progress limits.

All violations are collected in one pass. Warnings (missing acceptance
criteria, version-string convention) are reported but never fail the run.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, ws, err := loadEnv()
	if err != nil {
		return err
	}
	l, err := loadIndex(cfg, ws)
	if err != nil {
		return err
	}

	result := ledger.Validate(l)
	printFindings(result)
	if !result.Valid {
		logger.Error("work index validation failed", zap.Int("errors", len(result.Errors)))
		return fmt.Errorf("validation failed with %d error(s)", len(result.Errors))
	}

	fmt.Println(okStyle.Render("work index validation passed"))
	return nil
}
