package seeder

import (
	"context"
	"testing"

	"github.com/Justaguy666/PetCareX-sub000/internal/domain"
	"github.com/Justaguy666/PetCareX-sub000/internal/store"
)

func seedSaleService(st *store.MemoryStore, branchID int64) int64 {
	invoiceID := st.Seed("invoices", map[string]any{"branch_id": branchID})[0]
	return st.Seed("services", map[string]any{
		"service_type": domain.ServiceProductSale,
		"invoice_id":   invoiceID,
	})[0]
}

func TestMatchProductSales(t *testing.T) {
	st := store.NewMemory()
	branchID := st.Seed("branches", map[string]any{"name": "PetCareX Le Loi"})[0]
	serviceID := seedSaleService(st, branchID)
	st.Seed("branch_products", map[string]any{
		"branch_id": branchID,
		"item_id":   int64(7),
		"quantity":  int64(5),
	})
	env := newTestEnv(t, st)

	records, err := matchProductSales(context.Background(), env, 1)
	if err != nil {
		t.Fatalf("Failed to match product sales: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 sale, got %d", len(records))
	}
	if records[0]["service_id"] != serviceID {
		t.Errorf("Expected service %d, got %v", serviceID, records[0]["service_id"])
	}
	if records[0]["product_id"] != int64(7) {
		t.Errorf("Expected product 7, got %v", records[0]["product_id"])
	}
}

func TestMatchProductSalesConsumesServices(t *testing.T) {
	st := store.NewMemory()
	branchID := st.Seed("branches", map[string]any{"name": "PetCareX Le Loi"})[0]
	seedSaleService(st, branchID)
	seedSaleService(st, branchID)
	st.Seed("branch_products", map[string]any{
		"branch_id": branchID, "item_id": int64(7), "quantity": int64(5),
	})
	env := newTestEnv(t, st)

	// Two free services, requesting three. One service per sale.
	records, err := matchProductSales(context.Background(), env, 3)
	if err != nil {
		t.Fatalf("Failed to match product sales: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 sales for 2 free services, got %d", len(records))
	}
	if records[0]["service_id"] == records[1]["service_id"] {
		t.Error("Expected each sale to consume a distinct service")
	}
	if env.Reporter.CategoryCount(WarnPairDrop) == 0 {
		t.Error("Expected a pair-drop warning for the unmatchable request")
	}
}

func TestMatchProductSalesNoCompatibleBranch(t *testing.T) {
	st := store.NewMemory()
	branchA := st.Seed("branches", map[string]any{"name": "A"})[0]
	branchB := st.Seed("branches", map[string]any{"name": "B"})[0]
	seedSaleService(st, branchA)
	// Inventory exists only at the other branch.
	st.Seed("branch_products", map[string]any{
		"branch_id": branchB, "item_id": int64(7), "quantity": int64(5),
	})
	env := newTestEnv(t, st)

	records, err := matchProductSales(context.Background(), env, 4)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("Expected 0 sales with no compatible branch, got %d", len(records))
	}
	if env.Reporter.CategoryCount(WarnInsufficientData) == 0 {
		t.Error("Expected an insufficient-data warning")
	}
}

func TestMatchProductSalesIgnoresDepletedStock(t *testing.T) {
	st := store.NewMemory()
	branchID := st.Seed("branches", map[string]any{"name": "A"})[0]
	seedSaleService(st, branchID)
	st.Seed("branch_products", map[string]any{
		"branch_id": branchID, "item_id": int64(7), "quantity": int64(0),
	})
	env := newTestEnv(t, st)

	records, err := matchProductSales(context.Background(), env, 1)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("Expected depleted inventory to be ignored, got %d records", len(records))
	}
}

func TestMatchPrescriptionsPairUniqueness(t *testing.T) {
	st := store.NewMemory()
	branchID := st.Seed("branches", map[string]any{"name": "A"})[0]
	invoiceID := st.Seed("invoices", map[string]any{"branch_id": branchID})[0]
	serviceID := st.Seed("services", map[string]any{
		"service_type": domain.ServiceExamination,
		"invoice_id":   invoiceID,
	})[0]
	st.Seed("medical_exams", map[string]any{"service_id": serviceID})
	st.Seed("branch_medicines", map[string]any{
		"branch_id": branchID, "item_id": int64(3), "quantity": int64(10),
	})
	env := newTestEnv(t, st)

	// One exam, one medicine: exactly one legal pair.
	records, err := matchPrescriptions(context.Background(), env, 2)
	if err != nil {
		t.Fatalf("Failed to match prescriptions: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 prescription, got %d", len(records))
	}
	if records[0]["medicine_id"] != int64(3) {
		t.Errorf("Expected medicine 3, got %v", records[0]["medicine_id"])
	}
	if env.Reporter.CategoryCount(WarnPairDrop) == 0 {
		t.Error("Expected a pair-drop warning for the duplicate pair")
	}
}

func TestMatchPrescriptionsSkipsPersistedPairs(t *testing.T) {
	st := store.NewMemory()
	branchID := st.Seed("branches", map[string]any{"name": "A"})[0]
	invoiceID := st.Seed("invoices", map[string]any{"branch_id": branchID})[0]
	serviceID := st.Seed("services", map[string]any{
		"service_type": domain.ServiceExamination,
		"invoice_id":   invoiceID,
	})[0]
	examID := st.Seed("medical_exams", map[string]any{"service_id": serviceID})[0]
	st.Seed("branch_medicines", map[string]any{
		"branch_id": branchID, "item_id": int64(3), "quantity": int64(10),
	})
	// The only legal pair is already persisted.
	st.Seed("prescriptions", map[string]any{"exam_id": examID, "medicine_id": int64(3)})
	env := newTestEnv(t, st)

	records, err := matchPrescriptions(context.Background(), env, 1)
	if err != nil {
		t.Fatalf("Failed to match prescriptions: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("Expected 0 prescriptions when the pair exists, got %d", len(records))
	}
}

func TestMatchVaccineUses(t *testing.T) {
	st := store.NewMemory()
	branchID := st.Seed("branches", map[string]any{"name": "A"})[0]
	invoiceID := st.Seed("invoices", map[string]any{"branch_id": branchID})[0]
	serviceID := st.Seed("services", map[string]any{
		"service_type": domain.ServiceInjection,
		"invoice_id":   invoiceID,
	})[0]
	injectionID := st.Seed("injections", map[string]any{"service_id": serviceID})[0]
	st.Seed("branch_vaccines", map[string]any{
		"branch_id": branchID, "item_id": int64(11), "quantity": int64(4),
	})
	env := newTestEnv(t, st)

	records, err := matchVaccineUses(context.Background(), env, 1)
	if err != nil {
		t.Fatalf("Failed to match vaccine uses: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 vaccine use, got %d", len(records))
	}
	if records[0]["injection_id"] != injectionID {
		t.Errorf("Expected injection %d, got %v", injectionID, records[0]["injection_id"])
	}
	if records[0]["vaccine_id"] != int64(11) {
		t.Errorf("Expected vaccine 11, got %v", records[0]["vaccine_id"])
	}
}
