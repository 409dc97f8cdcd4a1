package seeder

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Justaguy666/PetCareX-sub000/internal/domain"
)

func TestPlanValidate(t *testing.T) {
	valid := &Plan{Stages: []Stage{
		{Entity: domain.TableUsers, Count: 10},
		{Entity: domain.TablePets, Count: 20},
	}}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid plan to pass, got %v", err)
	}
}

func TestPlanValidateRejects(t *testing.T) {
	cases := []struct {
		name string
		plan *Plan
	}{
		{"empty", &Plan{}},
		{"unknown entity", &Plan{Stages: []Stage{{Entity: "astronauts", Count: 1}}}},
		{"duplicate entity", &Plan{Stages: []Stage{
			{Entity: domain.TableUsers, Count: 1},
			{Entity: domain.TableUsers, Count: 2},
		}}},
		{"negative count", &Plan{Stages: []Stage{{Entity: domain.TableUsers, Count: -1}}}},
		{"dependency after dependent", &Plan{Stages: []Stage{
			{Entity: domain.TablePets, Count: 5},
			{Entity: domain.TableUsers, Count: 5},
		}}},
	}

	for _, c := range cases {
		err := c.plan.Validate()
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("%s: expected ConfigError, got %v", c.name, err)
		}
	}
}

func TestLoadPlan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	content := `dry_run: true
stages:
  - entity: users
    count: 5
  - entity: pets
    count: 8
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write plan file: %v", err)
	}

	plan, err := LoadPlan(path)
	if err != nil {
		t.Fatalf("Failed to load plan: %v", err)
	}
	if !plan.DryRun {
		t.Error("Expected dry_run to be true")
	}
	if len(plan.Stages) != 2 || plan.Stages[1].Entity != domain.TablePets || plan.Stages[1].Count != 8 {
		t.Errorf("Unexpected stages: %+v", plan.Stages)
	}
}

func TestLoadPlanMissingFile(t *testing.T) {
	_, err := LoadPlan(filepath.Join(t.TempDir(), "nope.yaml"))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Expected ConfigError for missing file, got %v", err)
	}
}
