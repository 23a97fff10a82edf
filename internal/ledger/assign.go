package ledger

import (
	"fmt"
	"time"
)

// Assign is the admission-control gate for putting a story in flight. It
// checks, prospectively, whether marking the story in_progress would violate
// the global or per-epic concurrency limit, and only mutates the ledger when
// every check passes. On refusal the ledger is left untouched and the message
// names the reason.
//
// The limits are checked on every call regardless of the ledger's current
// validity: two agents that each read "there is capacity" and commit must
// both have been admitted against the state they saw. A true concurrent
// double-commit can only be caught afterwards, by Validate on the merged
// state or by CheckConflicts on the pending diff.
//
// agentID may be empty; the story is then admitted without an assignee
// record. now supplies the assigned_at timestamp (pass time.Now outside of
// tests).
func Assign(l *Ledger, storyID, agentID string, now func() time.Time) (bool, string) {
	story := l.StoryByID(storyID)
	if story == nil {
		return false, fmt.Sprintf("story %s not found", storyID)
	}
	if story.Status == StatusInProgress {
		return false, fmt.Sprintf("story %s is already in_progress", storyID)
	}
	if story.Status == StatusDone {
		return false, fmt.Sprintf("story %s is already done", storyID)
	}

	// The story being admitted is not yet in_progress, so the current counts
	// are exactly the competition it faces.
	maxAgents := 0
	if l.Concurrency != nil {
		maxAgents = l.Concurrency.MaxAgentsTotal
	}
	if total := l.InProgressCount(); total >= maxAgents {
		return false, fmt.Sprintf(
			"cannot assign: global concurrency limit reached (%d/%d); wait for a story to complete before assigning more",
			total, maxAgents)
	}

	if l.ActiveEpic != nil && l.ActiveEpic.ID != "" {
		if epicID, ok := EpicForStory(storyID); ok && epicID == l.ActiveEpic.ID {
			allowed := l.EpicAgentsAllowed(epicID)
			active := l.EpicInProgressCount(epicID)
			if active >= allowed {
				return false, fmt.Sprintf(
					"cannot assign: EPIC %s concurrency limit reached (%d/%d); wait for a story in this EPIC to complete",
					epicID, active, allowed)
			}
		}
	}

	story.Status = StatusInProgress
	who := "agent"
	if agentID != "" {
		who = agentID
		story.AssignedTo = agentID
		story.AssignedAt = now().UTC().Format(time.RFC3339)
	}
	return true, fmt.Sprintf("assigned story %s to %s", storyID, who)
}
