package seeder

import (
	"errors"
	"fmt"
)

// ErrGenerationExhausted aborts the run: a uniqueness pool could not yield
// a fresh value within the retry cap, so the requested volume exceeds the
// value space.
var ErrGenerationExhausted = errors.New("generation exhausted")

// GenerationExhaustedError reports which pool ran dry.
type GenerationExhaustedError struct {
	Field   string
	Retries int
}

func (e *GenerationExhaustedError) Error() string {
	return fmt.Sprintf("uniqueness pool for %q exhausted after %d retries", e.Field, e.Retries)
}

func (e *GenerationExhaustedError) Unwrap() error { return ErrGenerationExhausted }

// MissingDependencyError marks a stage whose required upstream entity set
// is empty. The orchestrator skips the stage; the single-entity path treats
// it as fatal.
type MissingDependencyError struct {
	EntityType string
	Missing    string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("cannot seed %s: no %s available", e.EntityType, e.Missing)
}

// ConfigError is a fatal run-configuration problem detected before any
// writes happen.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid seed configuration: " + e.Reason
}
