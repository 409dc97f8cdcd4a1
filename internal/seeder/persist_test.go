package seeder

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Justaguy666/PetCareX-sub000/internal/store"
)

func userBatch(n int) []map[string]any {
	records := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, map[string]any{"full_name": "Tran An", "seq": i})
	}
	return records
}

func TestPersistBatchBulkPath(t *testing.T) {
	st := store.NewMemory()
	env := newTestEnv(t, st)

	persisted, err := env.persistBatch(context.Background(), "users", userBatch(250))
	if err != nil {
		t.Fatalf("Failed to persist: %v", err)
	}
	if persisted != 250 {
		t.Errorf("Expected 250 persisted, got %d", persisted)
	}
	if len(st.Rows("users")) != 250 {
		t.Errorf("Expected 250 rows in the store, got %d", len(st.Rows("users")))
	}
	if env.Reporter.CategoryCount(WarnConstraint) != 0 {
		t.Error("Expected no constraint warnings on the clean path")
	}
}

func TestPersistBatchFallbackSkipsBadRecord(t *testing.T) {
	st := store.NewMemory()
	st.BulkErr["users"] = errors.New("bulk rejected")
	st.InsertHook = func(table string, record map[string]any) error {
		if record["seq"] == 2 {
			return &pgconn.PgError{Code: "23505"}
		}
		return nil
	}
	env := newTestEnv(t, st)

	persisted, err := env.persistBatch(context.Background(), "users", userBatch(5))
	if err != nil {
		t.Fatalf("Failed to persist: %v", err)
	}
	if persisted != 4 {
		t.Errorf("Expected 4 persisted after skipping the duplicate, got %d", persisted)
	}
	if env.Reporter.CategoryCount(WarnConstraint) != 1 {
		t.Errorf("Expected 1 constraint warning, got %d", env.Reporter.CategoryCount(WarnConstraint))
	}
}

func TestPersistBatchUnknownErrorIsFatal(t *testing.T) {
	st := store.NewMemory()
	st.BulkErr["users"] = errors.New("bulk rejected")
	st.InsertHook = func(table string, record map[string]any) error {
		return errors.New("connection reset by peer")
	}
	env := newTestEnv(t, st)

	_, err := env.persistBatch(context.Background(), "users", userBatch(3))
	if err == nil {
		t.Fatal("Expected an unclassified store error to abort persistence")
	}
	if !strings.Contains(err.Error(), "unclassified store error") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestPersistBatchEmpty(t *testing.T) {
	env := newTestEnv(t, store.NewMemory())

	persisted, err := env.persistBatch(context.Background(), "users", nil)
	if err != nil {
		t.Fatalf("Expected nil error on empty batch, got %v", err)
	}
	if persisted != 0 {
		t.Errorf("Expected 0 persisted, got %d", persisted)
	}
}
