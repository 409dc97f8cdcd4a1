package seeder

import (
	"context"
	"fmt"

	"github.com/Justaguy666/PetCareX-sub000/internal/store"
)

// persistBatch writes records in fixed-size chunks. Each chunk first tries
// a single bulk insert; on failure it retries record by record, skipping
// rows the store rejects for a classified constraint and failing loud on
// anything unclassified. The returned count is reconciled against a
// before/after aggregate count so silent partial failures surface.
func (e *Env) persistBatch(ctx context.Context, entityType string, records []map[string]any) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	before, err := e.Store.Count(ctx, entityType)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s before insert: %w", entityType, err)
	}

	attempted := 0
	batchSize := e.Policy.BatchSize
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[start:end]

		if err := e.Store.BulkInsert(ctx, entityType, chunk); err == nil {
			attempted += len(chunk)
			continue
		}

		// Bulk rejected the whole chunk; insert one at a time so a single
		// bad record cannot sink its neighbours.
		for _, record := range chunk {
			if _, err := e.Store.Insert(ctx, entityType, record); err != nil {
				kind := store.Classify(err)
				if kind == store.ViolationUnknown {
					return 0, fmt.Errorf("unclassified store error inserting into %s: %w", entityType, err)
				}
				e.Reporter.Warn(WarnConstraint, entityType, "record rejected (%s): %v", kind, err)
				continue
			}
			attempted++
		}
	}

	after, err := e.Store.Count(ctx, entityType)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s after insert: %w", entityType, err)
	}

	persisted := after - before
	if persisted != int64(attempted) {
		e.Reporter.Warn(WarnReconcile, entityType,
			"attempted %d inserts but row count grew by %d", attempted, persisted)
	}
	return persisted, nil
}
