// Package render produces the derived, human-readable views of a work index:
// the generated markdown document and the app version file. Both are views of
// a *valid* ledger only; callers run the structural validator first and
// refuse to regenerate otherwise.
package render

import (
	"fmt"
	"strings"

	"workdex/internal/ledger"
)

// Markdown renders the generated work-index document. indexPath is the
// repo-relative path of the YAML source of truth, referenced throughout the
// document so agents know where to look.
func Markdown(l *ledger.Ledger, indexPath string) string {
	var b strings.Builder

	b.WriteString("# Agentic Work Index (Start Here)\n\n")
	b.WriteString("This file tells a coding agent **what to work on next** after cloning the repo.\n")
	b.WriteString("It is a **generated view** of the machine-readable work database in\n")
	fmt.Fprintf(&b, "`%s` and is anchored to Git-native\n", indexPath)
	b.WriteString("metadata for both the active EPIC and the current product version.\n\n")
	b.WriteString("---\n\n")

	b.WriteString("## How to use this file\n")
	b.WriteString("1. **Start at the \"Active EPIC\" section** to see the current focus area.\n")
	b.WriteString("2. Pick the **highest-priority story** that is `ready` and unassigned.\n")
	b.WriteString("3. Use the story acceptance criteria as the implementation checklist.\n")
	b.WriteString("4. When a story is complete, update the status and add a short outcome note.\n\n")
	b.WriteString("---\n\n")

	b.WriteString("## Git-native anchors (source of truth)\n")
	fmt.Fprintf(&b, "- **Active EPIC tag:** `%s` (check with `git tag --points-at HEAD 'epic-active/*'`)\n",
		l.ActiveEpic.GitTag)
	fmt.Fprintf(&b, "- **Product version:** `%s` (tag `%s`, check with `git describe --tags --match 'product/v*' --abbrev=0`)\n",
		l.ProductVersion.Current, l.ProductVersion.GitTag)
	b.WriteString("\n")
	fmt.Fprintf(&b, "If the tags are missing, refer to `%s`\n", indexPath)
	b.WriteString("to see the intended values and add the tags to the current commit.\n\n")
	b.WriteString("The app reads its version from the generated version file, which\n")
	b.WriteString("should match `product_version.current` in the YAML source of truth.\n\n")
	b.WriteString("---\n\n")

	b.WriteString("## Active EPIC\n")
	fmt.Fprintf(&b, "- **EPIC:** %s — %s\n", l.ActiveEpic.ID, l.ActiveEpic.Name)
	fmt.Fprintf(&b, "- **Goal:** %s\n", l.ActiveEpic.Goal)
	fmt.Fprintf(&b, "- **Owner:** %s\n", ownerOrUnassigned(l.ActiveEpic.Owner))
	fmt.Fprintf(&b, "- **Updated:** %s\n", l.ActiveEpic.Updated)
	fmt.Fprintf(&b, "- **Agents allowed:** %d\n\n", l.ActiveEpic.AgentsAllowed)
	b.WriteString("---\n\n")

	b.WriteString("## Concurrency & EPIC assignments\n")
	fmt.Fprintf(&b, "- **Global agent cap:** %d total concurrent agents\n", l.Concurrency.MaxAgentsTotal)
	fmt.Fprintf(&b, "- **Multi-EPIC work:** %s\n\n", allowedOrNot(l.Concurrency.AllowMultiEpic))
	b.WriteString("| EPIC | Agents Allowed |\n")
	b.WriteString("| --- | --- |\n")
	for _, e := range l.Epics {
		fmt.Fprintf(&b, "| %s — %s | %d |\n", e.ID, e.Name, e.AgentsAllowed)
	}
	b.WriteString("\n---\n\n")

	b.WriteString("## Story Execution Queue\n\n")
	b.WriteString("| Story ID | Title | Status | Priority | Size | Acceptance Criteria |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, s := range l.Stories {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			s.ID, s.Title, s.Status, s.Priority, s.Size,
			strings.Join(s.AcceptanceCriteria, "; "))
	}
	b.WriteString("\n---\n\n")

	b.WriteString("## Status Legend\n")
	b.WriteString("- **ready:** vetted and ready for implementation\n")
	b.WriteString("- **blocked:** needs clarification or dependency\n")
	b.WriteString("- **in_progress:** actively being implemented\n")
	b.WriteString("- **done:** merged and released\n\n")
	b.WriteString("---\n\n")

	b.WriteString("## Notes\n")
	b.WriteString("- If the \"Active EPIC\" changes, update the execution queue to match.\n")
	fmt.Fprintf(&b, "- Regenerate this file from `%s`\n", indexPath)
	b.WriteString("  whenever the underlying data changes.\n")

	return b.String()
}

func ownerOrUnassigned(owner string) string {
	if owner == "" {
		return "Unassigned"
	}
	return owner
}

func allowedOrNot(allowed bool) string {
	if allowed {
		return "Allowed"
	}
	return "Not allowed"
}
