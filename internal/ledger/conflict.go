package ledger

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

// statusLine matches a story status field on one diff body line (the leading
// +/- is stripped before matching).
var statusLine = regexp.MustCompile(`^\s*status:\s*"?(\w+)"?`)

// statusChange is one status value touched by the diff.
type statusChange struct {
	status Status
	added  bool
}

// CheckConflicts inspects a pending change-set for racy concurrent status
// transitions and then re-validates the (post-change) ledger.
//
// The diff scan is a heuristic early warning, not a gate: a text diff cannot
// distinguish two stories independently moving to in_progress from one
// story's status line being touched twice, so multiple in_progress additions
// produce a warning recommending a manual concurrency check. Hard failure
// comes only from Validate on the supplied ledger.
//
// indexPath is the repo-relative path of the persisted work index; when it is
// not among changedPaths there is nothing to check and the result is valid
// with no findings.
func CheckConflicts(l *Ledger, changedPaths []string, indexPath, diffText string) Result {
	found := false
	for _, p := range changedPaths {
		if p == indexPath {
			found = true
			break
		}
	}
	if !found {
		return Result{Valid: true}
	}

	var warns []string
	changes := scanStatusChanges(diffText)
	if len(changes) >= 2 {
		added := 0
		for _, c := range changes {
			if c.added && c.status == StatusInProgress {
				added++
			}
		}
		if added > 1 {
			warns = append(warns, fmt.Sprintf(
				"multiple stories being set to 'in_progress' (%d); ensure concurrency limits are respected",
				added))
		}
	}

	validation := Validate(l)
	return Result{
		Valid:    len(validation.Errors) == 0,
		Errors:   validation.Errors,
		Warnings: append(warns, validation.Warnings...),
	}
}

// scanStatusChanges extracts the status values on added/removed lines of a
// unified diff, in order of appearance. Text that does not parse as a unified
// diff falls back to a raw line scan so the heuristic stays total over
// whatever git hands us.
func scanStatusChanges(diffText string) []statusChange {
	if strings.TrimSpace(diffText) == "" {
		return nil
	}

	// The parser reports non-diff text as zero file diffs rather than an
	// error, so both outcomes route to the raw scan.
	fileDiffs, err := diff.NewMultiFileDiffReader(strings.NewReader(diffText)).ReadAllFiles()
	if err != nil || len(fileDiffs) == 0 {
		return scanRawLines(diffText)
	}

	var changes []statusChange
	for _, fd := range fileDiffs {
		for _, hunk := range fd.Hunks {
			for _, line := range strings.Split(string(hunk.Body), "\n") {
				if len(line) == 0 || (line[0] != '+' && line[0] != '-') {
					continue
				}
				if m := statusLine.FindStringSubmatch(line[1:]); m != nil {
					changes = append(changes, statusChange{status: Status(m[1]), added: line[0] == '+'})
				}
			}
		}
	}
	return changes
}

func scanRawLines(diffText string) []statusChange {
	var changes []statusChange
	for _, line := range strings.Split(diffText, "\n") {
		if len(line) == 0 || (line[0] != '+' && line[0] != '-') {
			continue
		}
		// File headers ("+++ b/...", "--- a/...") never carry a status field,
		// so no special casing is needed beyond the pattern itself.
		if m := statusLine.FindStringSubmatch(line[1:]); m != nil {
			changes = append(changes, statusChange{status: Status(m[1]), added: line[0] == '+'})
		}
	}
	return changes
}
