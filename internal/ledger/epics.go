package ledger

import "strings"

// EpicForStory derives the epic id a story belongs to from its id prefix:
// "E1-S3" has prefix "E1", which maps to "EPIC-1".
//
// A story id with no "-", or whose prefix does not start with "E", belongs to
// no epic: it is unaffiliated, not invalid, and callers skip per-epic
// concurrency checks for it.
func EpicForStory(storyID string) (string, bool) {
	prefix, _, found := strings.Cut(storyID, "-")
	if !found {
		return "", false
	}
	if !strings.HasPrefix(prefix, "E") {
		return "", false
	}
	return "EPIC-" + prefix[1:], true
}
