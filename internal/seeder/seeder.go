package seeder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/Justaguy666/PetCareX-sub000/internal/config"
	"github.com/Justaguy666/PetCareX-sub000/internal/domain"
	"github.com/Justaguy666/PetCareX-sub000/internal/schema"
	"github.com/Justaguy666/PetCareX-sub000/internal/store"
)

// Seeder drives generation and persistence in the plan's dependency order,
// one entity-type stage at a time. Stages run strictly sequentially: later
// stages consume primary keys the earlier ones produced.
type Seeder struct {
	cfg        *config.Config
	store      store.Store
	env        *Env
	strategies map[string]Strategy
	dryRun     bool
}

func New(cfg *config.Config, st store.Store, resolver *schema.Resolver, reporter *Reporter) *Seeder {
	now := time.Now().UTC()
	vocab := domain.DefaultVocab()
	unique := NewUniqueRegistry()

	env := &Env{
		Store:    st,
		IDs:      NewIDRegistry(),
		Faker:    NewFaker(now.UnixNano(), vocab, unique, cfg.Policy.UniqueRetries),
		Policy:   cfg.Policy,
		Reporter: reporter,
		Resolver: resolver,
		Now:      now,
	}

	return &Seeder{
		cfg:        cfg,
		store:      st,
		env:        env,
		strategies: Strategies(),
	}
}

// SetNow pins the run clock. Tests only.
func (s *Seeder) SetNow(now time.Time) {
	s.env.Now = now
	s.env.Faker.SetNow(now)
}

// Env exposes the run environment. Tests only.
func (s *Seeder) Env() *Env { return s.env }

// Run executes the full plan. Per-record problems are recovered and logged;
// a stage with a missing hard dependency is skipped with a warning. Only
// configuration problems and unclassified store errors abort the run.
func (s *Seeder) Run(ctx context.Context, plan *Plan) error {
	s.dryRun = plan.DryRun

	if plan.Truncate && plan.DryRun {
		return &ConfigError{Reason: "truncate is not allowed in dry-run mode"}
	}

	color.Cyan("🌱 Seeding %d entity types (dry-run: %v)", len(plan.Stages), plan.DryRun)

	if plan.Truncate {
		if err := s.truncate(ctx, plan); err != nil {
			return fmt.Errorf("failed to truncate tables: %w", err)
		}
	}

	for _, stage := range plan.Stages {
		if err := s.runStage(ctx, stage); err != nil {
			return err
		}
	}

	fmt.Println()
	s.env.Reporter.Summary(os.Stdout)
	return nil
}

// truncate clears the plan's tables in reverse order so child rows go
// before the rows they reference.
func (s *Seeder) truncate(ctx context.Context, plan *Plan) error {
	color.Yellow("🗑️  Truncating %d tables...", len(plan.Stages))
	for i := len(plan.Stages) - 1; i >= 0; i-- {
		if err := s.store.Truncate(ctx, plan.Stages[i].Entity); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) runStage(ctx context.Context, stage Stage) error {
	reporter := s.env.Reporter
	reporter.Info("  📝 %s (%d requested)...", stage.Entity, stage.Count)

	strategy, ok := s.strategies[stage.Entity]
	if !ok {
		return &ConfigError{Reason: fmt.Sprintf("no generator registered for entity type %q", stage.Entity)}
	}

	records, err := strategy(ctx, s.env, stage.Count)
	if err != nil {
		return s.handleStageError(stage, err)
	}

	records, err = s.env.validateBatch(ctx, stage.Entity, records)
	if err != nil {
		return s.handleStageError(stage, err)
	}

	if err := writeSnapshot(s.cfg.OutputDir, stage.Entity, records); err != nil {
		return err
	}

	if s.dryRun {
		reporter.Record(StageResult{
			EntityType: stage.Entity,
			Requested:  stage.Count,
			Generated:  len(records),
		})
		return nil
	}

	persisted, err := s.env.persistBatch(ctx, stage.Entity, records)
	if err != nil {
		return err
	}

	// Harvest the authoritative keys so downstream stages reference what
	// the store actually holds, not what we attempted to insert.
	ids, err := s.store.IDs(ctx, stage.Entity)
	if err != nil {
		return fmt.Errorf("failed to harvest %s ids: %w", stage.Entity, err)
	}
	s.env.IDs.Add(stage.Entity, ids...)

	reporter.Record(StageResult{
		EntityType: stage.Entity,
		Requested:  stage.Count,
		Generated:  len(records),
		Persisted:  persisted,
	})
	return nil
}

// handleStageError downgrades a missing hard dependency to a skip-with-
// warning; anything else is fatal.
func (s *Seeder) handleStageError(stage Stage, err error) error {
	var missing *MissingDependencyError
	if errors.As(err, &missing) {
		s.env.Reporter.Warn(WarnMissingDependency, stage.Entity, "%v, skipping stage", missing)
		s.env.Reporter.Record(StageResult{
			EntityType: stage.Entity,
			Requested:  stage.Count,
			Skipped:    true,
		})
		return nil
	}
	return err
}

// SeedOne seeds a single entity type, resolving its immediate foreign-key
// dependencies from the store on the fly. Unlike a full run, an empty
// dependency set here is fatal and nothing is written.
func (s *Seeder) SeedOne(ctx context.Context, entityType string, count int) error {
	if !domain.KnownTable(entityType) {
		return &ConfigError{Reason: fmt.Sprintf("unknown entity type %q", entityType)}
	}
	if count <= 0 {
		return &ConfigError{Reason: "count must be positive"}
	}

	for _, dep := range domain.Dependencies[entityType] {
		n, err := s.store.Count(ctx, dep)
		if err != nil {
			return fmt.Errorf("failed to check dependency %s: %w", dep, err)
		}
		if n == 0 {
			return fmt.Errorf("cannot seed %q: required dependency %q has no rows; seed it first", entityType, dep)
		}
	}

	strategy := s.strategies[entityType]
	records, err := strategy(ctx, s.env, count)
	if err != nil {
		return err
	}
	records, err = s.env.validateBatch(ctx, entityType, records)
	if err != nil {
		return err
	}
	if err := writeSnapshot(s.cfg.OutputDir, entityType, records); err != nil {
		return err
	}

	persisted, err := s.env.persistBatch(ctx, entityType, records)
	if err != nil {
		return err
	}

	s.env.Reporter.Record(StageResult{
		EntityType: entityType,
		Requested:  count,
		Generated:  len(records),
		Persisted:  persisted,
	})
	s.env.Reporter.Summary(os.Stdout)
	return nil
}
