package ledger

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads the persisted work index from path. Unlike a config file, an
// absent or empty index is an error: every command needs the real document,
// and silently starting from a zero ledger would defeat the validator.
func Load(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read work index: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("work index %s is empty", path)
	}

	var l Ledger
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse work index: %w", err)
	}
	return &l, nil
}

// Save writes the ledger back to path. Struct-tag marshalling keeps the field
// order stable so review diffs stay small.
func Save(path string, l *Ledger) error {
	data, err := yaml.Marshal(l)
	if err != nil {
		return fmt.Errorf("failed to marshal work index: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write work index: %w", err)
	}
	return nil
}
