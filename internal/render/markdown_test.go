package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"workdex/internal/ledger"
)

func testLedger() *ledger.Ledger {
	return &ledger.Ledger{
		Version:        1,
		ProductVersion: &ledger.ProductVersion{Current: "v0.1.0", GitTag: "product/v0.1.0"},
		Concurrency:    &ledger.Concurrency{MaxAgentsTotal: 4, AllowMultiEpic: true},
		ActiveEpic: &ledger.ActiveEpic{
			ID: "EPIC-1", Name: "Event Intelligence", Goal: "Maintain milestone events",
			Updated: "2024-01-01", GitTag: "epic-active/EPIC-1", AgentsAllowed: 2,
		},
		Epics: []ledger.Epic{
			{ID: "EPIC-1", Name: "Event Intelligence", AgentsAllowed: 2},
			{ID: "EPIC-2", Name: "Benchmarking", AgentsAllowed: 1},
		},
		Stories: []ledger.Story{
			{
				ID: "E1-S1", Title: "In-app event editor", Status: ledger.StatusReady,
				Priority: "P0", Size: "M",
				AcceptanceCriteria: []string{"Users can add events", "Users can delete events"},
			},
		},
	}
}

func TestMarkdown(t *testing.T) {
	doc := Markdown(testLedger(), "product-development/agentic_work_index.yaml")

	assert.True(t, strings.HasPrefix(doc, "# Agentic Work Index"))
	assert.Contains(t, doc, "EPIC-1")
	assert.Contains(t, doc, "epic-active/EPIC-1")
	assert.Contains(t, doc, "product/v0.1.0")
	assert.Contains(t, doc, "**Global agent cap:** 4 total concurrent agents")
	assert.Contains(t, doc, "**Multi-EPIC work:** Allowed")
	assert.Contains(t, doc, "| EPIC-2 — Benchmarking | 1 |")
	assert.Contains(t, doc, "| E1-S1 | In-app event editor | ready | P0 | M | Users can add events; Users can delete events |")
	assert.Contains(t, doc, "`product-development/agentic_work_index.yaml`")
}

func TestMarkdown_EmptyOwnerRendersUnassigned(t *testing.T) {
	l := testLedger()
	l.ActiveEpic.Owner = ""
	doc := Markdown(l, "index.yaml")
	assert.Contains(t, doc, "- **Owner:** Unassigned")
}

func TestMarkdown_MultiEpicNotAllowed(t *testing.T) {
	l := testLedger()
	l.Concurrency.AllowMultiEpic = false
	doc := Markdown(l, "index.yaml")
	assert.Contains(t, doc, "**Multi-EPIC work:** Not allowed")
}

func TestMarkdown_Deterministic(t *testing.T) {
	l := testLedger()
	require.Equal(t, Markdown(l, "index.yaml"), Markdown(l, "index.yaml"))
}
