// Package ledger implements the work-index data model and the rules that keep
// it safe to share between autonomous agents: structural validation,
// concurrency-aware assignment admission, and conflict detection over
// concurrent edits.
//
// The package is the synchronous core of workdex. Every function here operates
// on an in-memory Ledger owned exclusively by the caller for one
// load-mutate-save cycle; nothing in this package performs I/O or retains
// state between calls. Mutual exclusion between concurrent writers is the
// storage layer's problem (in practice, the git commit sequence).
package ledger

// Status is the lifecycle state of a story.
type Status string

const (
	StatusReady      Status = "ready"       // Vetted and ready for implementation
	StatusBlocked    Status = "blocked"     // Needs clarification or a dependency
	StatusInProgress Status = "in_progress" // Actively being implemented
	StatusDone       Status = "done"        // Merged and released
)

// Valid reports whether s is one of the four recognized statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusReady, StatusBlocked, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// ProductVersion tracks the external release identity of the product the
// work index drives.
type ProductVersion struct {
	Current string `yaml:"current"` // Convention: starts with "v"
	GitTag  string `yaml:"git_tag"`
}

// Concurrency holds the global agent limits.
type Concurrency struct {
	MaxAgentsTotal int  `yaml:"max_agents_total"`
	AllowMultiEpic bool `yaml:"allow_multi_epic"`
}

// ActiveEpic describes the epic currently in focus.
type ActiveEpic struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Goal          string `yaml:"goal"`
	Owner         string `yaml:"owner"`
	Updated       string `yaml:"updated"`
	GitTag        string `yaml:"git_tag"`
	AgentsAllowed int    `yaml:"agents_allowed"`
}

// Epic is a named group of related stories sharing a concurrency allowance.
type Epic struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	AgentsAllowed int    `yaml:"agents_allowed"`
}

// Story is a unit of assignable work. IDs follow the E<n>-S<m> convention,
// where the E<n> prefix maps to epic EPIC-<n> (see EpicForStory).
type Story struct {
	ID                 string   `yaml:"id"`
	Title              string   `yaml:"title"`
	Status             Status   `yaml:"status"`
	Priority           string   `yaml:"priority"`
	Size               string   `yaml:"size"`
	AcceptanceCriteria []string `yaml:"acceptance_criteria"`

	// Set together when a story is admitted with an agent id.
	AssignedTo string `yaml:"assigned_to,omitempty"`
	AssignedAt string `yaml:"assigned_at,omitempty"` // RFC 3339
}

// Ledger is the root aggregate of the work index. Pointer fields distinguish
// a missing document section from a present-but-zero one; Version 0 likewise
// means the field was absent (schema versions start at 1).
type Ledger struct {
	Version        int             `yaml:"version"`
	ProductVersion *ProductVersion `yaml:"product_version"`
	Concurrency    *Concurrency    `yaml:"concurrency"`
	ActiveEpic     *ActiveEpic     `yaml:"active_epic"`
	Epics          []Epic          `yaml:"epics"`
	Stories        []Story         `yaml:"stories"`
}

// StoryByID returns a pointer into l.Stories for the given id, or nil.
func (l *Ledger) StoryByID(id string) *Story {
	for i := range l.Stories {
		if l.Stories[i].ID == id {
			return &l.Stories[i]
		}
	}
	return nil
}

// EpicAgentsAllowed returns the concurrency allowance for the given epic id,
// or 0 if the epic is not in the list.
func (l *Ledger) EpicAgentsAllowed(epicID string) int {
	for _, e := range l.Epics {
		if e.ID == epicID {
			return e.AgentsAllowed
		}
	}
	return 0
}

// InProgressCount returns the number of in_progress stories across the whole
// ledger.
func (l *Ledger) InProgressCount() int {
	n := 0
	for _, s := range l.Stories {
		if s.Status == StatusInProgress {
			n++
		}
	}
	return n
}

// EpicInProgressCount returns the number of in_progress stories whose id
// prefix maps to the given epic.
func (l *Ledger) EpicInProgressCount(epicID string) int {
	n := 0
	for _, s := range l.Stories {
		if s.Status != StatusInProgress {
			continue
		}
		if id, ok := EpicForStory(s.ID); ok && id == epicID {
			n++
		}
	}
	return n
}

// Result carries the outcome of validation or conflict detection. Warnings
// are quality signals and never affect Valid.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
}
