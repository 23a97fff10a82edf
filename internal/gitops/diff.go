package gitops

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// IndexDiff returns the pending diff for the work index at relPath, preferring
// the staged diff and falling back to the unstaged one. Diff retrieval is
// best-effort: on error the result is empty and the conflict heuristic simply
// has nothing to scan.
func (c *Client) IndexDiff(ctx context.Context, relPath string) string {
	staged, err := c.run(ctx, c.dir, "diff", "--cached", relPath)
	if err != nil {
		c.logger.Warn("could not get staged diff", zap.Error(err))
		staged = ""
	}
	if strings.TrimSpace(staged) != "" {
		return staged
	}

	unstaged, err := c.run(ctx, c.dir, "diff", relPath)
	if err != nil {
		c.logger.Warn("could not get diff", zap.Error(err))
		return ""
	}
	return unstaged
}
