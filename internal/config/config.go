package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Version     string   `json:"version" mapstructure:"version"`
	SchemaDir   string   `json:"schema_dir" mapstructure:"schema_dir"`
	PlanPath    string   `json:"plan_path" mapstructure:"plan_path"`
	OutputDir   string   `json:"output_dir" mapstructure:"output_dir"`
	WarningsDir string   `json:"warnings_dir" mapstructure:"warnings_dir"`
	Database    Database `json:"database" mapstructure:"database"`
	Policy      Policy   `json:"policy" mapstructure:"policy"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	URLEnv   string `json:"url_env" mapstructure:"url_env"`
}

// Policy holds the tunable generation heuristics. The defaults mirror the
// clinic's observed booking behaviour; none of them are schema constraints.
type Policy struct {
	MaxAppointmentsPerPet int `json:"max_appointments_per_pet" mapstructure:"max_appointments_per_pet"`
	MinPetGapHours        int `json:"min_pet_gap_hours" mapstructure:"min_pet_gap_hours"`
	ClinicOpenHour        int `json:"clinic_open_hour" mapstructure:"clinic_open_hour"`
	ClinicCloseHour       int `json:"clinic_close_hour" mapstructure:"clinic_close_hour"`
	HorizonDays           int `json:"horizon_days" mapstructure:"horizon_days"`
	SlotAttempts          int `json:"slot_attempts" mapstructure:"slot_attempts"`
	UniqueRetries         int `json:"unique_retries" mapstructure:"unique_retries"`
	PairAttempts          int `json:"pair_attempts" mapstructure:"pair_attempts"`
	UsedSlotCap           int `json:"used_slot_cap" mapstructure:"used_slot_cap"`
	BatchSize             int `json:"batch_size" mapstructure:"batch_size"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if cfg.SchemaDir == "" {
		cfg.SchemaDir = "db/schema"
	}
	if cfg.PlanPath == "" {
		cfg.PlanPath = "db/seed.plan.yaml"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "db/snapshots"
	}
	if cfg.WarningsDir == "" {
		cfg.WarningsDir = "db/warnings"
	}
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "postgresql"
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = "DATABASE_URL"
	}

	applyPolicyDefaults(&cfg.Policy)

	return &cfg, nil
}

// DefaultPolicy returns the policy knobs with every default applied.
func DefaultPolicy() Policy {
	var p Policy
	applyPolicyDefaults(&p)
	return p
}

func applyPolicyDefaults(p *Policy) {
	if p.MaxAppointmentsPerPet <= 0 {
		p.MaxAppointmentsPerPet = 2
	}
	if p.MinPetGapHours <= 0 {
		p.MinPetGapHours = 4
	}
	if p.ClinicOpenHour <= 0 {
		p.ClinicOpenHour = 8
	}
	if p.ClinicCloseHour <= 0 {
		p.ClinicCloseHour = 21
	}
	if p.HorizonDays <= 0 {
		p.HorizonDays = 90
	}
	if p.SlotAttempts <= 0 {
		p.SlotAttempts = 150
	}
	if p.UniqueRetries <= 0 {
		p.UniqueRetries = 10000
	}
	if p.PairAttempts <= 0 {
		p.PairAttempts = 50
	}
	if p.UsedSlotCap <= 0 {
		p.UsedSlotCap = 100000
	}
	if p.BatchSize <= 0 {
		p.BatchSize = 100
	}
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}

func (c *Config) Validate() error {
	supportedProviders := []string{"postgresql", "postgres", "postgres-pq", "mysql", "sqlite", "sqlite3"}
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	if c.PlanPath == "" {
		return fmt.Errorf("plan_path cannot be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}
	if c.Policy.ClinicOpenHour >= c.Policy.ClinicCloseHour {
		return fmt.Errorf("clinic_open_hour (%d) must be before clinic_close_hour (%d)",
			c.Policy.ClinicOpenHour, c.Policy.ClinicCloseHour)
	}

	return nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.OutputDir, c.WarningsDir}

	for _, dir := range dirs {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// GetSchemaFiles returns all .sql files in the schema directory.
func (c *Config) GetSchemaFiles() ([]string, error) {
	entries, err := os.ReadDir(c.SchemaDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema directory %s: %w", c.SchemaDir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, filepath.Join(c.SchemaDir, entry.Name()))
		}
	}

	return files, nil
}
