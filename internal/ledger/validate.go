package ledger

import (
	"fmt"
	"strings"
)

// Validate checks the ledger against its structural invariants. It is pure:
// the ledger is never mutated, and the same input always produces the same
// Result.
//
// Missing required top-level fields short-circuit the deeper checks, since a
// malformed document would otherwise produce a cascade of spurious errors.
// All other violations are collected in one pass so the caller sees the
// complete picture per run.
func Validate(l *Ledger) Result {
	var errs, warns []string

	if l.Version == 0 {
		errs = append(errs, "missing required field: version")
	}
	if l.ProductVersion == nil {
		errs = append(errs, "missing required field: product_version")
	}
	if l.Concurrency == nil {
		errs = append(errs, "missing required field: concurrency")
	}
	if l.ActiveEpic == nil {
		errs = append(errs, "missing required field: active_epic")
	}
	if l.Epics == nil {
		errs = append(errs, "missing required field: epics")
	}
	if l.Stories == nil {
		errs = append(errs, "missing required field: stories")
	}
	if len(errs) > 0 {
		return Result{Valid: false, Errors: errs, Warnings: warns}
	}

	if l.Concurrency.MaxAgentsTotal <= 0 {
		errs = append(errs, "max_agents_total must be > 0")
	}

	if l.ActiveEpic.ID != "" {
		found := false
		for _, e := range l.Epics {
			if e.ID == l.ActiveEpic.ID {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, fmt.Sprintf("active EPIC %s not found in epics list", l.ActiveEpic.ID))
		}
	}

	seen := make(map[string]bool, len(l.Stories))
	for _, s := range l.Stories {
		if s.ID == "" {
			errs = append(errs, "story missing required 'id' field")
			continue
		}
		if seen[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate story ID: %s", s.ID))
		}
		seen[s.ID] = true

		switch {
		case s.Status == "":
			errs = append(errs, fmt.Sprintf("story %s missing 'status' field", s.ID))
		case !s.Status.Valid():
			errs = append(errs, fmt.Sprintf("story %s has invalid status: %s", s.ID, s.Status))
		}

		if len(s.AcceptanceCriteria) == 0 {
			warns = append(warns, fmt.Sprintf("story %s has no acceptance criteria", s.ID))
		}
	}

	if l.ActiveEpic.ID != "" {
		allowed := l.EpicAgentsAllowed(l.ActiveEpic.ID)
		active := l.EpicInProgressCount(l.ActiveEpic.ID)
		if active > allowed {
			errs = append(errs, fmt.Sprintf(
				"too many in_progress stories (%d) for EPIC %s (allowed: %d)",
				active, l.ActiveEpic.ID, allowed))
		}
	}

	if total := l.InProgressCount(); total > l.Concurrency.MaxAgentsTotal {
		errs = append(errs, fmt.Sprintf(
			"global concurrency limit exceeded: %d in_progress stories (max: %d)",
			total, l.Concurrency.MaxAgentsTotal))
	}

	if cur := l.ProductVersion.Current; cur != "" && !strings.HasPrefix(cur, "v") {
		warns = append(warns, fmt.Sprintf("product version '%s' should start with 'v'", cur))
	}

	return Result{Valid: len(errs) == 0, Errors: errs, Warnings: warns}
}
