package render

import (
	"encoding/json"
	"fmt"
	"os"

	"workdex/internal/ledger"
)

// appVersion is the shape of the generated version file the app reads.
type appVersion struct {
	Version string `json:"version"`
}

// WriteVersionFile writes product_version.current to path as indented JSON.
// A ledger without a current version is a no-op: there is nothing to sync.
func WriteVersionFile(path string, l *ledger.Ledger) error {
	if l.ProductVersion == nil || l.ProductVersion.Current == "" {
		return nil
	}

	data, err := json.MarshalIndent(appVersion{Version: l.ProductVersion.Current}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal version file: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write version file: %w", err)
	}
	return nil
}
