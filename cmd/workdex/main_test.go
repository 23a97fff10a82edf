package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"workdex/internal/config"
	"workdex/internal/history"
)

// setupWorkspace points the CLI globals at a fresh temp workspace and seeds it
// via the init command.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	logger = zap.NewNop()
	workspace = t.TempDir()

	output := captureOutput(t, func() {
		if err := runInit(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runInit returned error: %v", err)
		}
	})
	if !strings.Contains(output, "wrote") {
		t.Fatalf("expected init to report written files, got: %s", output)
	}
	return workspace
}

func TestInitThenValidate(t *testing.T) {
	setupWorkspace(t)

	output := captureOutput(t, func() {
		if err := runValidate(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runValidate returned error: %v", err)
		}
	})
	if !strings.Contains(output, "work index validation passed") {
		t.Fatalf("expected validation pass message, got: %s", output)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	setupWorkspace(t)

	output := captureOutput(t, func() {
		if err := runInit(&cobra.Command{}, nil); err != nil {
			t.Fatalf("second runInit returned error: %v", err)
		}
	})
	if !strings.Contains(output, "already exists") {
		t.Fatalf("expected re-init to leave files alone, got: %s", output)
	}
}

func TestAssignAdmitsAndRecordsHistory(t *testing.T) {
	setupWorkspace(t)

	output := captureOutput(t, func() {
		if err := runAssign(&cobra.Command{}, []string{"E1-S1", "agent-7"}); err != nil {
			t.Fatalf("runAssign returned error: %v", err)
		}
	})
	if !strings.Contains(output, "assigned story E1-S1 to agent-7") {
		t.Fatalf("expected admission message, got: %s", output)
	}

	output = captureOutput(t, func() {
		if err := runHistory(historyCmd, nil); err != nil {
			t.Fatalf("runHistory returned error: %v", err)
		}
	})
	if !strings.Contains(output, "E1-S1") || !strings.Contains(output, "agent-7") {
		t.Fatalf("expected the decision in history output, got: %s", output)
	}
}

func TestAssignRefusesInFlightStory(t *testing.T) {
	setupWorkspace(t)

	captureOutput(t, func() {
		if err := runAssign(&cobra.Command{}, []string{"E1-S1", "agent-7"}); err != nil {
			t.Fatalf("first runAssign returned error: %v", err)
		}
	})

	var err error
	output := captureOutput(t, func() {
		err = runAssign(&cobra.Command{}, []string{"E1-S1", "agent-8"})
	})
	if err == nil {
		t.Fatal("expected second assignment of the same story to be refused")
	}
	if !strings.Contains(output, "already in_progress") {
		t.Fatalf("expected in-flight refusal message, got: %s", output)
	}
}

func TestAssignFailedSaveIsNotRecordedAsAdmitted(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions do not bind root")
	}
	ws := setupWorkspace(t)

	cfg := config.DefaultConfig()
	indexPath := filepath.Join(ws, cfg.Paths.IndexFile)
	require.NoError(t, os.Chmod(indexPath, 0444))
	t.Cleanup(func() { _ = os.Chmod(indexPath, 0644) })

	var err error
	captureOutput(t, func() {
		err = runAssign(&cobra.Command{}, []string{"E1-S1", "agent-7"})
	})
	require.Error(t, err, "assign must surface the failed save")

	store, err := history.NewStore(filepath.Join(ws, cfg.Paths.HistoryDB))
	require.NoError(t, err)
	defer store.Close()

	decisions, err := store.Recent(1)
	require.NoError(t, err)
	require.Len(t, decisions, 1)
	require.False(t, decisions[0].Admitted, "audit log must not claim an unpersisted assignment")
	require.Contains(t, decisions[0].Reason, "not persisted")
}

func TestRegenerateWritesDerivedViews(t *testing.T) {
	ws := setupWorkspace(t)

	captureOutput(t, func() {
		if err := runRegenerate(&cobra.Command{}, nil); err != nil {
			t.Fatalf("runRegenerate returned error: %v", err)
		}
	})

	cfg := config.DefaultConfig()
	md, err := os.ReadFile(filepath.Join(ws, cfg.Paths.MarkdownFile))
	if err != nil {
		t.Fatalf("markdown view not written: %v", err)
	}
	if !strings.Contains(string(md), "E1-S1") {
		t.Fatalf("markdown view missing story table, got: %s", md)
	}

	ver, err := os.ReadFile(filepath.Join(ws, cfg.Paths.VersionFile))
	if err != nil {
		t.Fatalf("version file not written: %v", err)
	}
	if !strings.Contains(string(ver), "v0.1.0") {
		t.Fatalf("version file missing current version, got: %s", ver)
	}
}

func TestValidateFailsOnBrokenIndex(t *testing.T) {
	ws := setupWorkspace(t)

	cfg := config.DefaultConfig()
	indexPath := filepath.Join(ws, cfg.Paths.IndexFile)
	if err := os.WriteFile(indexPath, []byte("version: 1\n"), 0644); err != nil {
		t.Fatalf("failed to overwrite index: %v", err)
	}

	var err error
	output := captureOutput(t, func() {
		err = runValidate(&cobra.Command{}, nil)
	})
	if err == nil {
		t.Fatal("expected validation to fail for an index missing required fields")
	}
	if !strings.Contains(output, "missing required field") {
		t.Fatalf("expected missing-field error in output, got: %s", output)
	}
}

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	origOut := os.Stdout
	origErr := os.Stderr
	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, rOut)
		_, _ = io.Copy(&buf, rErr)
		done <- buf.String()
	}()

	fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = origOut
	os.Stderr = origErr
	return <-done
}
