package seeder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// writeSnapshot dumps a generated batch to <dir>/<entityType>.json. The
// snapshot is written in every mode, so a dry run leaves an inspectable
// record of what would have been persisted.
func writeSnapshot(dir, entityType string, records []map[string]any) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	if records == nil {
		records = []map[string]any{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s snapshot: %w", entityType, err)
	}

	path := filepath.Join(dir, entityType+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s snapshot: %w", entityType, err)
	}
	return nil
}
