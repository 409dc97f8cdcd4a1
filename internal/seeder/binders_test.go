package seeder

import (
	"context"
	"errors"
	"testing"

	"github.com/Justaguy666/PetCareX-sub000/internal/domain"
	"github.com/Justaguy666/PetCareX-sub000/internal/store"
)

func seedBinderWorld(st *store.MemoryStore, serviceType string, services int) []int64 {
	st.Seed("employees", map[string]any{"role": domain.RoleVeterinarian})
	st.Seed("vaccines", map[string]any{"name": "Vaccine 001"})
	st.Seed("vaccine_packages", map[string]any{"name": "Vaccine Package 001"})

	var ids []int64
	for i := 0; i < services; i++ {
		ids = append(ids, st.Seed("services", map[string]any{"service_type": serviceType})...)
	}
	return ids
}

func TestBindExamsCapsAtPool(t *testing.T) {
	st := store.NewMemory()
	serviceIDs := seedBinderWorld(st, domain.ServiceExamination, 3)
	env := newTestEnv(t, st)

	records, err := bindExams(context.Background(), env, 10)
	if err != nil {
		t.Fatalf("Failed to bind exams: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 exams for a pool of 3, got %d", len(records))
	}
	if env.Reporter.CategoryCount(WarnCapping) == 0 {
		t.Error("Expected a capping warning")
	}

	pool := make(map[int64]bool)
	for _, id := range serviceIDs {
		pool[id] = true
	}
	used := make(map[int64]bool)
	for _, record := range records {
		id := record["service_id"].(int64)
		if !pool[id] {
			t.Errorf("Exam bound to service %d outside the eligible pool", id)
		}
		if used[id] {
			t.Errorf("Service %d bound twice", id)
		}
		used[id] = true
		if record["diagnosis"] == nil {
			t.Error("Expected a diagnosis on the exam record")
		}
	}
}

func TestBindExamsSkipsBoundServices(t *testing.T) {
	st := store.NewMemory()
	serviceIDs := seedBinderWorld(st, domain.ServiceExamination, 2)
	st.Seed("medical_exams", map[string]any{"service_id": serviceIDs[0]})
	env := newTestEnv(t, st)

	records, err := bindExams(context.Background(), env, 5)
	if err != nil {
		t.Fatalf("Failed to bind exams: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected only the unbound service to match, got %d records", len(records))
	}
	if records[0]["service_id"] != serviceIDs[1] {
		t.Errorf("Expected service %d, got %v", serviceIDs[1], records[0]["service_id"])
	}
}

func TestBindExamsEmptyPool(t *testing.T) {
	st := store.NewMemory()
	st.Seed("employees", map[string]any{"role": domain.RoleVeterinarian})
	env := newTestEnv(t, st)

	_, err := bindExams(context.Background(), env, 5)
	var missing *MissingDependencyError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingDependencyError with no eligible services, got %v", err)
	}
}

func TestBindExamsNoVets(t *testing.T) {
	st := store.NewMemory()
	st.Seed("services", map[string]any{"service_type": domain.ServiceExamination})
	env := newTestEnv(t, st)

	_, err := bindExams(context.Background(), env, 1)
	var missing *MissingDependencyError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingDependencyError with no veterinarians, got %v", err)
	}
}

func TestBindInjections(t *testing.T) {
	st := store.NewMemory()
	seedBinderWorld(st, domain.ServiceInjection, 2)
	env := newTestEnv(t, st)

	records, err := bindInjections(context.Background(), env, 2)
	if err != nil {
		t.Fatalf("Failed to bind injections: %v", err)
	}
	for _, record := range records {
		if record["vaccine_id"] == nil {
			t.Error("Expected a vaccine on the injection record")
		}
		if record["doctor_id"] == nil {
			t.Error("Expected a doctor on the injection record")
		}
	}
}

func TestBindPackageInjectionsNeedNoDoctor(t *testing.T) {
	st := store.NewMemory()
	st.Seed("vaccine_packages", map[string]any{"name": "Vaccine Package 001"})
	st.Seed("services", map[string]any{"service_type": domain.ServicePackageInjection})
	env := newTestEnv(t, st)

	// No veterinarians at all; package injections must still bind.
	records, err := bindPackageInjections(context.Background(), env, 1)
	if err != nil {
		t.Fatalf("Failed to bind package injections: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	if records[0]["package_id"] == nil {
		t.Error("Expected a package on the record")
	}
	if dose, ok := records[0]["dose_number"].(int); !ok || dose < 1 {
		t.Errorf("Expected a positive dose number, got %v", records[0]["dose_number"])
	}
}
