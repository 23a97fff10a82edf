// This file implements the live validation view using bubbletea.
package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"workdex/internal/config"
	"workdex/internal/ledger"
	"workdex/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the work index and re-validate on every change",
	Long: `Runs a live view that re-validates the work index whenever it changes
on disk. Useful while several agents are committing assignments: the view
flips to red the moment an edit lands that breaches a limit.

Press q or ctrl+c to quit.`,
	RunE: runWatch,
}

// checkResult is one validation pass over the current on-disk index.
type checkResult struct {
	result  ledger.Result
	loadErr error
	at      time.Time
}

type checkMsg checkResult

// watchModel drives the live validation display.
type watchModel struct {
	spinner   spinner.Model
	indexPath string
	results   chan checkResult
	last      *checkResult
	checks    int
	quitting  bool
}

func newWatchModel(indexPath string, results chan checkResult) watchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return watchModel{
		spinner:   s,
		indexPath: indexPath,
		results:   results,
	}
}

// waitForCheck blocks on the next validation result from the watcher.
func (m watchModel) waitForCheck() tea.Cmd {
	return func() tea.Msg {
		r, ok := <-m.results
		if !ok {
			return tea.Quit()
		}
		return checkMsg(r)
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.waitForCheck())
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case checkMsg:
		r := checkResult(msg)
		m.last = &r
		m.checks++
		return m, m.waitForCheck()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}

	header := fmt.Sprintf("%s watching %s  (q to quit)\n\n", m.spinner.View(), m.indexPath)

	if m.last == nil {
		return header + "  waiting for first check...\n"
	}

	var body string
	stamp := m.last.at.Format("15:04:05")
	switch {
	case m.last.loadErr != nil:
		body = errStyle.Render(fmt.Sprintf("  ✗ [%s] cannot load index: %v", stamp, m.last.loadErr)) + "\n"
	case m.last.result.Valid:
		body = okStyle.Render(fmt.Sprintf("  ✓ [%s] work index valid", stamp)) + "\n"
	default:
		body = errStyle.Render(fmt.Sprintf("  ✗ [%s] %d error(s)", stamp, len(m.last.result.Errors))) + "\n"
		for _, e := range m.last.result.Errors {
			body += errStyle.Render("      "+e) + "\n"
		}
	}
	for _, w := range m.last.result.Warnings {
		body += warnStyle.Render("      ⚠ "+w) + "\n"
	}

	return header + body + fmt.Sprintf("\n  %d check(s) so far\n", m.checks)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, ws, err := loadEnv()
	if err != nil {
		return err
	}
	indexPath := filepath.Join(ws, cfg.Paths.IndexFile)

	results := make(chan checkResult, 8)
	check := func(ctx context.Context) {
		r := checkResult{at: time.Now()}
		l, err := ledger.Load(indexPath)
		if err != nil {
			r.loadErr = err
		} else {
			r.result = ledger.Validate(l)
		}
		select {
		case results <- r:
		case <-ctx.Done():
		}
	}

	watcher, err := watch.NewIndexWatcher(indexPath, check, logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Stop()

	// Seed the view with the current state before the first edit lands.
	go check(ctx)

	p := tea.NewProgram(newWatchModel(relToWorkspace(indexPath, ws, cfg), results))
	if _, err := p.Run(); err != nil {
		logger.Error("watch UI failed", zap.Error(err))
		return err
	}
	return nil
}

// relToWorkspace prefers the configured relative path for display.
func relToWorkspace(abs, ws string, cfg *config.Config) string {
	if rel, err := filepath.Rel(ws, abs); err == nil {
		return rel
	}
	return cfg.Paths.IndexFile
}
