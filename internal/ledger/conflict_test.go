package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const indexPath = "product-development/agentic_work_index.yaml"

// twoAssignmentsDiff marks two different stories in_progress in one change-set.
const twoAssignmentsDiff = `diff --git a/product-development/agentic_work_index.yaml b/product-development/agentic_work_index.yaml
index 6b51b1c..a11afe2 100644
--- a/product-development/agentic_work_index.yaml
+++ b/product-development/agentic_work_index.yaml
@@ -20,2 +20,2 @@ stories:
   - id: "E1-S1"
-    status: "ready"
+    status: "in_progress"
@@ -28,2 +28,2 @@
   - id: "E1-S2"
-    status: "ready"
+    status: "in_progress"
`

// singleAssignmentDiff moves one story to in_progress.
const singleAssignmentDiff = `diff --git a/product-development/agentic_work_index.yaml b/product-development/agentic_work_index.yaml
index 6b51b1c..a11afe2 100644
--- a/product-development/agentic_work_index.yaml
+++ b/product-development/agentic_work_index.yaml
@@ -20,2 +20,2 @@ stories:
   - id: "E1-S1"
-    status: "ready"
+    status: "in_progress"
`

func TestCheckConflicts_IndexNotChanged(t *testing.T) {
	// Nothing to check when the index file is not part of the change-set,
	// even if the diff text itself looks alarming.
	result := CheckConflicts(validLedger(), []string{"cmd/workdex/main.go"}, indexPath, twoAssignmentsDiff)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestCheckConflicts_MultipleInProgressAdditions(t *testing.T) {
	result := CheckConflicts(validLedger(), []string{indexPath}, indexPath, twoAssignmentsDiff)
	assert.True(t, result.Valid, "heuristic finding is advisory, not a hard failure")
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "multiple stories being set to 'in_progress' (2)")
}

func TestCheckConflicts_SingleAssignmentNoWarning(t *testing.T) {
	result := CheckConflicts(validLedger(), []string{indexPath}, indexPath, singleAssignmentDiff)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)
}

func TestCheckConflicts_EmptyDiff(t *testing.T) {
	result := CheckConflicts(validLedger(), []string{indexPath}, indexPath, "")
	assert.True(t, result.Valid)
	assert.Empty(t, result.Warnings)
}

func TestCheckConflicts_MergesValidation(t *testing.T) {
	// The supplied ledger is the post-change state; its structural errors are
	// the hard gate.
	l := validLedger()
	l.Concurrency.MaxAgentsTotal = 0
	result := CheckConflicts(l, []string{indexPath}, indexPath, singleAssignmentDiff)
	require.False(t, result.Valid)
	assert.Contains(t, result.Errors, "max_agents_total must be > 0")
}

func TestCheckConflicts_RawDiffTextStillWarns(t *testing.T) {
	// Diff text without git headers parses as zero file diffs rather than an
	// error; the heuristic must still see the status lines and warn.
	raw := "+    status: \"in_progress\"\n+    status: \"in_progress\"\n"
	result := CheckConflicts(validLedger(), []string{indexPath}, indexPath, raw)
	assert.True(t, result.Valid)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "multiple stories being set to 'in_progress' (2)")
}

func TestScanStatusChanges_RawFallback(t *testing.T) {
	// Text that is not a parseable unified diff still gets the raw line scan.
	raw := "+    status: \"in_progress\"\n-    status: \"ready\"\n+    status: \"in_progress\"\n"
	changes := scanStatusChanges(raw)
	require.Len(t, changes, 3)
	added := 0
	for _, c := range changes {
		if c.added && c.status == StatusInProgress {
			added++
		}
	}
	assert.Equal(t, 2, added)
}

func TestScanStatusChanges_UnquotedStatus(t *testing.T) {
	changes := scanStatusChanges("+    status: in_progress\n-    status: ready\n")
	require.Len(t, changes, 2)
	assert.Equal(t, StatusInProgress, changes[0].status)
	assert.True(t, changes[0].added)
}
