package seeder

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Justaguy666/PetCareX-sub000/internal/domain"
)

// Stage is one entry of the run plan: an entity type and the requested
// record count. The count is a ceiling, not a guarantee.
type Stage struct {
	Entity string `yaml:"entity"`
	Count  int    `yaml:"count"`
}

// Plan is the declarative run descriptor. Stage order is the processing
// order; an entity type must appear after every type it depends on.
type Plan struct {
	DryRun   bool    `yaml:"dry_run"`
	Verbose  bool    `yaml:"verbose"`
	Truncate bool    `yaml:"truncate"`
	Stages   []Stage `yaml:"stages"`
}

// LoadPlan reads and validates a YAML plan file.
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("cannot read plan file %s: %v", path, err)}
	}

	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, &ConfigError{Reason: fmt.Sprintf("malformed plan file %s: %v", path, err)}
	}

	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Validate rejects unknown entity types, duplicate stages, non-positive
// counts and dependency-order violations.
func (p *Plan) Validate() error {
	if len(p.Stages) == 0 {
		return &ConfigError{Reason: "plan has no stages"}
	}

	position := make(map[string]int, len(p.Stages))
	for i, stage := range p.Stages {
		if !domain.KnownTable(stage.Entity) {
			return &ConfigError{Reason: fmt.Sprintf("unknown entity type %q at stage %d", stage.Entity, i+1)}
		}
		if _, dup := position[stage.Entity]; dup {
			return &ConfigError{Reason: fmt.Sprintf("entity type %q listed twice", stage.Entity)}
		}
		if stage.Count < 0 {
			return &ConfigError{Reason: fmt.Sprintf("negative count for %q", stage.Entity)}
		}
		position[stage.Entity] = i
	}

	for _, stage := range p.Stages {
		for _, dep := range domain.Dependencies[stage.Entity] {
			depPos, listed := position[dep]
			if listed && depPos > position[stage.Entity] {
				return &ConfigError{Reason: fmt.Sprintf(
					"entity type %q is listed before its dependency %q", stage.Entity, dep)}
			}
		}
	}

	return nil
}
