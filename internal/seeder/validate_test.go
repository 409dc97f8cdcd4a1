package seeder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Justaguy666/PetCareX-sub000/internal/domain"
	"github.com/Justaguy666/PetCareX-sub000/internal/schema"
	"github.com/Justaguy666/PetCareX-sub000/internal/store"
)

const validateSchema = `
CREATE TYPE membership_tier AS ENUM (
    'STANDARD', -- alias: Standard
    'SILVER', -- alias: Silver
    'GOLD', -- alias: Gold
    'PLATINUM' -- alias: Platinum
);
`

func TestTranslateEnums(t *testing.T) {
	env := newTestEnv(t, store.NewMemory())
	env.Resolver = schema.ParseSQL(validateSchema)

	records := []map[string]any{
		{"tier": "Gold"},
		{"tier": "Diamond"}, // not declared anywhere
	}
	env.translateEnums(domain.TableUsers, records)

	if records[0]["tier"] != "GOLD" {
		t.Errorf("Expected GOLD, got %v", records[0]["tier"])
	}
	// Unresolvable labels fall back to the first declared identifier.
	if records[1]["tier"] != "STANDARD" {
		t.Errorf("Expected STANDARD fallback, got %v", records[1]["tier"])
	}
	if env.Reporter.CategoryCount(WarnEnumFallback) != 1 {
		t.Errorf("Expected 1 enum-fallback warning, got %d", env.Reporter.CategoryCount(WarnEnumFallback))
	}
}

func TestTranslateEnumsUndeclaredEnum(t *testing.T) {
	env := newTestEnv(t, store.NewMemory())
	env.Resolver = schema.ParseSQL(validateSchema)

	// The schema declares no employee_role enum: labels pass through.
	records := []map[string]any{{"role": domain.RoleVeterinarian, "gender": "Male"}}
	env.translateEnums(domain.TableEmployees, records)

	if records[0]["role"] != domain.RoleVeterinarian {
		t.Errorf("Expected label to pass through untouched, got %v", records[0]["role"])
	}
}

func TestStripRejectedFields(t *testing.T) {
	env := newTestEnv(t, store.NewMemory())

	records := []map[string]any{
		{"total": decimal.NewFromInt(100000), "rating": 5, "rating_comment": "auto"},
	}
	env.stripRejectedFields(domain.TableInvoices, records)

	if _, ok := records[0]["rating"]; ok {
		t.Error("Expected rating to be stripped")
	}
	if _, ok := records[0]["rating_comment"]; ok {
		t.Error("Expected rating_comment to be stripped")
	}
	if _, ok := records[0]["total"]; !ok {
		t.Error("Expected total to survive")
	}
}

func TestClampDiscountPercent(t *testing.T) {
	env := newTestEnv(t, store.NewMemory())

	records := []map[string]any{
		{"discount_percent": decimal.NewFromInt(0)},
		{"discount_percent": decimal.NewFromInt(30)},
		{"discount_percent": decimal.NewFromInt(79)},
	}
	env.clampRanges(domain.TablePromoScopes, records)

	cases := []int64{5, 30, 50}
	for i, want := range cases {
		got := records[i]["discount_percent"].(decimal.Decimal)
		if !got.Equal(decimal.NewFromInt(want)) {
			t.Errorf("Record %d: expected discount %d, got %s", i, want, got)
		}
	}
}

func TestClampInventoryQuantity(t *testing.T) {
	env := newTestEnv(t, store.NewMemory())

	records := []map[string]any{{"quantity": -3}, {"quantity": 12}}
	env.clampRanges(domain.TableBranchProducts, records)

	if records[0]["quantity"] != 0 {
		t.Errorf("Expected negative quantity clamped to 0, got %v", records[0]["quantity"])
	}
	if records[1]["quantity"] != 12 {
		t.Errorf("Expected positive quantity untouched, got %v", records[1]["quantity"])
	}
}

func TestRevalidateVetsSubstitutes(t *testing.T) {
	st := store.NewMemory()
	vetID := st.Seed("employees", map[string]any{"role": domain.RoleVeterinarian})[0]
	receptionistID := st.Seed("employees", map[string]any{"role": "Receptionist"})[0]
	env := newTestEnv(t, st)

	records := []map[string]any{
		{"doctor_id": vetID},
		{"doctor_id": receptionistID},
	}
	if err := env.revalidateVets(context.Background(), domain.TableMedicalExams, records); err != nil {
		t.Fatalf("Failed to revalidate: %v", err)
	}

	if records[0]["doctor_id"] != vetID {
		t.Errorf("Expected valid doctor untouched, got %v", records[0]["doctor_id"])
	}
	if records[1]["doctor_id"] != vetID {
		t.Errorf("Expected substitution with the only veterinarian, got %v", records[1]["doctor_id"])
	}
	if env.Reporter.CategoryCount(WarnSubstitution) != 1 {
		t.Errorf("Expected 1 substitution warning, got %d", env.Reporter.CategoryCount(WarnSubstitution))
	}
}

func TestRevalidateVetsNoneAvailable(t *testing.T) {
	st := store.NewMemory()
	st.Seed("employees", map[string]any{"role": "Receptionist"})
	env := newTestEnv(t, st)

	records := []map[string]any{{"doctor_id": int64(1)}}
	err := env.revalidateVets(context.Background(), domain.TableAppointments, records)
	var missing *MissingDependencyError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingDependencyError with no veterinarians, got %v", err)
	}
}

func TestDropOverlappingWindows(t *testing.T) {
	st := store.NewMemory()
	base := testNow.Truncate(24 * time.Hour)
	st.Seed("promotion_applications", map[string]any{
		"promotion_id": int64(1),
		"branch_id":    int64(1),
		"start_at":     base,
		"end_at":       base.AddDate(0, 0, 10),
	})
	env := newTestEnv(t, st)

	records := []map[string]any{
		// Overlaps the persisted window.
		{"promotion_id": int64(1), "branch_id": int64(1),
			"start_at": base.AddDate(0, 0, 5), "end_at": base.AddDate(0, 0, 15)},
		// Same promotion, different branch.
		{"promotion_id": int64(1), "branch_id": int64(2),
			"start_at": base.AddDate(0, 0, 5), "end_at": base.AddDate(0, 0, 15)},
		// Same key, after the persisted window ends.
		{"promotion_id": int64(1), "branch_id": int64(1),
			"start_at": base.AddDate(0, 0, 20), "end_at": base.AddDate(0, 0, 25)},
		// Overlaps the previous in-batch record.
		{"promotion_id": int64(1), "branch_id": int64(1),
			"start_at": base.AddDate(0, 0, 22), "end_at": base.AddDate(0, 0, 30)},
	}
	kept, err := env.dropOverlappingWindows(context.Background(), records)
	if err != nil {
		t.Fatalf("Failed to drop overlaps: %v", err)
	}

	if len(kept) != 2 {
		t.Fatalf("Expected 2 surviving windows, got %d", len(kept))
	}
	if kept[0]["branch_id"] != int64(2) {
		t.Errorf("Expected the other-branch window to survive first, got %+v", kept[0])
	}
	if env.Reporter.CategoryCount(WarnOverlapDrop) != 2 {
		t.Errorf("Expected 2 overlap-drop warnings, got %d", env.Reporter.CategoryCount(WarnOverlapDrop))
	}
}

func TestValidateBatchPipeline(t *testing.T) {
	st := store.NewMemory()
	env := newTestEnv(t, st)
	env.Resolver = schema.ParseSQL(validateSchema)

	records := []map[string]any{{"tier": "Silver", "full_name": "Tran An"}}
	out, err := env.validateBatch(context.Background(), domain.TableUsers, records)
	if err != nil {
		t.Fatalf("Failed to validate batch: %v", err)
	}
	if out[0]["tier"] != "SILVER" {
		t.Errorf("Expected enum translation inside the pipeline, got %v", out[0]["tier"])
	}
}
