package seeder

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Justaguy666/PetCareX-sub000/internal/domain"
	"github.com/Justaguy666/PetCareX-sub000/internal/store"
)

func TestGenerateMobilizationsOneActivePerEmployee(t *testing.T) {
	st := store.NewMemory()
	for i := 0; i < 3; i++ {
		st.Seed("employees", map[string]any{"role": "Receptionist"})
	}
	st.Seed("branches", map[string]any{"name": "A"}, map[string]any{"name": "B"})
	env := newTestEnv(t, st)

	records, err := generateMobilizations(context.Background(), env, 40)
	if err != nil {
		t.Fatalf("Failed to generate mobilizations: %v", err)
	}
	if len(records) != 40 {
		t.Fatalf("Expected 40 records, got %d", len(records))
	}

	active := make(map[any]int)
	for _, record := range records {
		start := record["start_date"].(time.Time)
		if end, ok := record["end_date"].(time.Time); ok {
			if !end.After(start) {
				t.Errorf("Closed window ends %v before it starts %v", end, start)
			}
			continue
		}
		active[record["employee_id"]]++
	}
	for employeeID, n := range active {
		if n > 1 {
			t.Errorf("Employee %v holds %d active assignments", employeeID, n)
		}
	}
}

func TestInventoryStrategyUniquePairs(t *testing.T) {
	st := store.NewMemory()
	st.Seed("branches", map[string]any{"name": "A"}, map[string]any{"name": "B"})
	st.Seed("products", map[string]any{"name": "P1"}, map[string]any{"name": "P2"})
	env := newTestEnv(t, st)

	strategy := inventoryStrategy(domain.TableBranchProducts, domain.TableProducts)

	// 2x2 grid: asking for 10 caps at the 4 free pairs.
	records, err := strategy(context.Background(), env, 10)
	if err != nil {
		t.Fatalf("Failed to generate inventory: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("Expected 4 records for a 2x2 pair grid, got %d", len(records))
	}
	if env.Reporter.CategoryCount(WarnCapping) == 0 {
		t.Error("Expected a capping warning")
	}

	seen := make(map[[2]int64]bool)
	for _, record := range records {
		pair := [2]int64{record["branch_id"].(int64), record["item_id"].(int64)}
		if seen[pair] {
			t.Errorf("Duplicate (branch, item) pair %v", pair)
		}
		seen[pair] = true
	}
}

func TestInventoryStrategyHonorsExistingPairs(t *testing.T) {
	st := store.NewMemory()
	st.Seed("branches", map[string]any{"name": "A"})
	st.Seed("products", map[string]any{"name": "P1"}, map[string]any{"name": "P2"})
	st.Seed("branch_products", map[string]any{
		"branch_id": int64(1), "item_id": int64(1), "quantity": int64(3),
	})
	env := newTestEnv(t, st)

	strategy := inventoryStrategy(domain.TableBranchProducts, domain.TableProducts)
	records, err := strategy(context.Background(), env, 5)
	if err != nil {
		t.Fatalf("Failed to generate inventory: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected the single free pair, got %d records", len(records))
	}
	if records[0]["item_id"] != int64(2) {
		t.Errorf("Expected the unfilled item 2, got %v", records[0]["item_id"])
	}
}

func TestGeneratePromotionScopesUniquePairs(t *testing.T) {
	st := store.NewMemory()
	st.Seed("promotions", map[string]any{"name": "Promo 1"})
	env := newTestEnv(t, st)

	// One promotion and five service types: at most 5 unique pairs.
	records, err := generatePromotionScopes(context.Background(), env, 8)
	if err != nil {
		t.Fatalf("Failed to generate scopes: %v", err)
	}
	if len(records) > 5 {
		t.Fatalf("Expected at most 5 unique scopes, got %d", len(records))
	}

	seen := make(map[string]bool)
	for _, record := range records {
		key := fmt.Sprintf("%v|%v", record["promotion_id"], record["service_type"])
		if seen[key] {
			t.Errorf("Duplicate scope pair %s", key)
		}
		seen[key] = true
	}
	if len(records) < 8 && env.Reporter.CategoryCount(WarnPairDrop) == 0 {
		t.Error("Expected pair-drop warnings once the pair space ran out")
	}
}

func TestRefsBackfillFromStore(t *testing.T) {
	st := store.NewMemory()
	st.Seed("users", map[string]any{"full_name": "A"}, map[string]any{"full_name": "B"})
	env := newTestEnv(t, st)

	ids, err := env.refs(context.Background(), domain.TableUsers)
	if err != nil {
		t.Fatalf("Failed to load refs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("Expected 2 backfilled ids, got %d", len(ids))
	}
	if env.IDs.Len(domain.TableUsers) != 2 {
		t.Error("Expected the registry to cache backfilled ids")
	}
}

func TestRefsEmptyIsMissingDependency(t *testing.T) {
	env := newTestEnv(t, store.NewMemory())

	_, err := env.refs(context.Background(), domain.TableUsers)
	if _, ok := err.(*MissingDependencyError); !ok {
		t.Fatalf("Expected MissingDependencyError, got %v", err)
	}
}
