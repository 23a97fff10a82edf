// Package gitops shells out to git for the two derived-view concerns the work
// index is anchored to: tag synchronization and change-set retrieval. All
// invocations run in the workspace directory; the runner is injectable so
// tests never need a real repository.
package gitops

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"workdex/internal/ledger"
)

// Runner executes git with the given arguments in dir and returns stdout.
type Runner func(ctx context.Context, dir string, args ...string) (string, error)

func execGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err,
				strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}

// Client runs git operations for one workspace.
type Client struct {
	dir    string
	run    Runner
	logger *zap.Logger
}

// NewClient returns a Client that invokes the real git binary in dir.
func NewClient(dir string, logger *zap.Logger) *Client {
	return newClient(dir, execGit, logger)
}

func newClient(dir string, run Runner, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{dir: dir, run: run, logger: logger}
}

// SyncTags checks that the active epic tag and the product version tag point
// at HEAD, creating them when createMissing is set. Tag queries that fail are
// soft failures: logged, skipped, and the sync moves on to the next tag. A
// failed tag *creation* is fatal for the call and flips ok to false.
func (c *Client) SyncTags(ctx context.Context, l *ledger.Ledger, createMissing bool) (ok bool, messages []string) {
	ok = true

	type tagSpec struct {
		label string
		tag   string
	}
	specs := []tagSpec{}
	if l.ActiveEpic != nil {
		specs = append(specs, tagSpec{"EPIC", l.ActiveEpic.GitTag})
	}
	if l.ProductVersion != nil {
		specs = append(specs, tagSpec{"version", l.ProductVersion.GitTag})
	}

	for _, spec := range specs {
		if spec.tag == "" {
			continue
		}

		out, err := c.run(ctx, c.dir, "tag", "--points-at", "HEAD", spec.tag)
		if err != nil {
			c.logger.Warn("could not check tag",
				zap.String("tag", spec.tag), zap.Error(err))
			continue
		}
		if strings.TrimSpace(out) != "" {
			continue // tag already at HEAD
		}

		if !createMissing {
			messages = append(messages, fmt.Sprintf(
				"%s tag %s not found at HEAD; run: git tag %s", spec.label, spec.tag, spec.tag))
			continue
		}

		if _, err := c.run(ctx, c.dir, "tag", spec.tag); err != nil {
			c.logger.Warn("could not create tag",
				zap.String("tag", spec.tag), zap.Error(err))
			ok = false
			continue
		}
		messages = append(messages, fmt.Sprintf("created %s tag: %s", spec.label, spec.tag))
	}

	return ok, messages
}
