// Package history keeps an append-only audit log of admission decisions.
// Every assign call, admitted or refused, is recorded so operators can
// reconstruct why a story did or did not go in flight, independently of the
// ledger's current state.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Decision is one recorded admission outcome.
type Decision struct {
	ID        string
	StoryID   string
	AgentID   string
	Admitted  bool
	Reason    string
	DecidedAt time.Time
}

// Store manages the admission history database.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.Mutex
}

// NewStore creates or opens the history database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS decisions (
		id TEXT PRIMARY KEY,
		story_id TEXT NOT NULL,
		agent_id TEXT,
		admitted INTEGER NOT NULL,
		reason TEXT NOT NULL,
		decided_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_decisions_story ON decisions(story_id);
	CREATE INDEX IF NOT EXISTS idx_decisions_decided_at ON decisions(decided_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record appends one decision. The event id and timestamp are filled in here;
// callers only supply the outcome.
func (s *Store) Record(storyID, agentID string, admitted bool, reason string) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := Decision{
		ID:        uuid.NewString(),
		StoryID:   storyID,
		AgentID:   agentID,
		Admitted:  admitted,
		Reason:    reason,
		DecidedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO decisions (id, story_id, agent_id, admitted, reason, decided_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.StoryID, d.AgentID, d.Admitted, d.Reason, d.DecidedAt,
	)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to record decision: %w", err)
	}
	return d, nil
}

// Recent returns up to limit decisions, newest first.
func (s *Store) Recent(limit int) ([]Decision, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, story_id, agent_id, admitted, reason, decided_at
		 FROM decisions ORDER BY decided_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	var decisions []Decision
	for rows.Next() {
		var d Decision
		if err := rows.Scan(&d.ID, &d.StoryID, &d.AgentID, &d.Admitted, &d.Reason, &d.DecidedAt); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}
