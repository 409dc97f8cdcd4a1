package seeder

import (
	"testing"
	"time"

	"github.com/Justaguy666/PetCareX-sub000/internal/config"
	"github.com/Justaguy666/PetCareX-sub000/internal/domain"
	"github.com/Justaguy666/PetCareX-sub000/internal/store"
)

// testNow is 10:00 local wall clock, well inside clinic hours.
var testNow = time.Date(2026, time.March, 2, 3, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T, st store.Store) *Env {
	t.Helper()

	reporter, err := NewReporter("", false)
	if err != nil {
		t.Fatalf("Failed to build reporter: %v", err)
	}

	faker := NewFaker(42, domain.DefaultVocab(), NewUniqueRegistry(), 1000)
	faker.SetNow(testNow)

	return &Env{
		Store:    st,
		IDs:      NewIDRegistry(),
		Faker:    faker,
		Policy:   config.DefaultPolicy(),
		Reporter: reporter,
		Now:      testNow,
	}
}

func newTestFaker(seed int64) *Faker {
	f := NewFaker(seed, domain.DefaultVocab(), NewUniqueRegistry(), 1000)
	f.SetNow(testNow)
	return f
}
