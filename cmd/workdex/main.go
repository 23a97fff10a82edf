// workdex is the gatekeeper for a multi-agent work index: it validates the
// shared backlog, admits story assignments under concurrency limits, detects
// racy concurrent edits, and regenerates the derived views agents read.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"workdex/internal/config"
	"workdex/internal/ledger"
)

var (
	// Global flags
	verbose   bool
	workspace string

	// Logger
	logger *zap.Logger
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "workdex",
	Short: "workdex - work-index validation and admission control for agent fleets",
	Long: `workdex coordinates work assignment across autonomous agents sharing one
backlog (the agentic work index).

It guarantees that no more than a fixed number of stories are in flight,
globally and per EPIC, refuses assignments that would breach a limit, and
flags concurrent edits that could slip past either check.

The YAML work index is the source of truth; the markdown document and the
app version file are generated views. Mutual exclusion between concurrent
writers is delegated to the git commit sequence - workdex validates states
and change-sets, it does not lock.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// resolveWorkspace returns the --workspace flag or the current directory.
func resolveWorkspace() string {
	if workspace != "" {
		return workspace
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// loadEnv resolves the workspace and its configuration.
func loadEnv() (*config.Config, string, error) {
	ws := resolveWorkspace()
	cfg, err := config.Load(ws)
	if err != nil {
		return nil, "", err
	}
	return cfg, ws, nil
}

// loadIndex loads the work index named by the configuration. A missing,
// empty, or unparsable index is fatal for the invocation.
func loadIndex(cfg *config.Config, ws string) (*ledger.Ledger, error) {
	return ledger.Load(filepath.Join(ws, cfg.Paths.IndexFile))
}

// printFindings writes errors and warnings in the shared CLI style.
func printFindings(result ledger.Result) {
	for _, e := range result.Errors {
		fmt.Println(errStyle.Render("  ✗ " + e))
	}
	for _, w := range result.Warnings {
		fmt.Println(warnStyle.Render("  ⚠ " + w))
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")

	// Command flags
	syncTagsCmd.Flags().Bool("create", false, "Create missing tags at HEAD")
	historyCmd.Flags().Int("limit", 20, "Maximum number of decisions to show")

	// Add commands to root
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(regenerateCmd)
	rootCmd.AddCommand(syncTagsCmd)
	rootCmd.AddCommand(checkConflictsCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
