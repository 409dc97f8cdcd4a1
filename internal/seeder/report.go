package seeder

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Warning categories. Every recovered per-record issue lands in exactly one.
const (
	WarnCapping           = "capping"
	WarnInsufficientData  = "insufficient-data"
	WarnMissingDependency = "missing-dependency"
	WarnEnumFallback      = "enum-fallback"
	WarnSubstitution      = "substitution"
	WarnOverlapDrop       = "overlap-drop"
	WarnPairDrop          = "pair-drop"
	WarnConstraint        = "constraint"
	WarnReconcile         = "reconcile"
)

// StageResult is one row of the final summary table.
type StageResult struct {
	EntityType string
	Requested  int
	Generated  int
	Persisted  int64
	Skipped    bool
}

// Reporter collects categorized warnings into a per-run JSON-lines log and
// prints run progress and the closing summary table.
type Reporter struct {
	RunID    string
	verbose  bool
	log      zerolog.Logger
	logFile  *os.File
	counts   map[string]int
	messages []string
	results  []StageResult
}

// NewReporter opens a timestamped warnings log under dir. An empty dir
// keeps warnings in memory only (tests).
func NewReporter(dir string, verbose bool) (*Reporter, error) {
	r := &Reporter{
		RunID:   uuid.NewString(),
		verbose: verbose,
		counts:  make(map[string]int),
	}

	writer := io.Discard
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create warnings directory: %w", err)
		}
		name := fmt.Sprintf("warnings-%s.jsonl", time.Now().Format("20060102-150405"))
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to create warnings log: %w", err)
		}
		r.logFile = f
		writer = f
	}

	r.log = zerolog.New(writer).With().
		Timestamp().
		Str("run_id", r.RunID).
		Logger()

	return r, nil
}

func (r *Reporter) Close() error {
	if r.logFile != nil {
		return r.logFile.Close()
	}
	return nil
}

// Warn records one categorized warning.
func (r *Reporter) Warn(category, entityType, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.counts[category]++
	r.messages = append(r.messages, fmt.Sprintf("[%s] %s: %s", category, entityType, msg))

	r.log.Warn().
		Str("category", category).
		Str("entity_type", entityType).
		Msg(msg)

	if r.verbose {
		color.Yellow("  ⚠️  [%s] %s: %s", category, entityType, msg)
	}
}

// Info prints a progress line in verbose mode.
func (r *Reporter) Info(format string, args ...any) {
	if r.verbose {
		color.Cyan(format, args...)
	}
}

// Record appends a stage outcome for the summary table.
func (r *Reporter) Record(result StageResult) {
	r.results = append(r.results, result)
}

// CategoryCount reports how many warnings landed in a category.
func (r *Reporter) CategoryCount(category string) int {
	return r.counts[category]
}

// Messages returns the collected warning lines. Test hook.
func (r *Reporter) Messages() []string {
	return append([]string(nil), r.messages...)
}

// Results returns the collected stage outcomes.
func (r *Reporter) Results() []StageResult {
	return append([]StageResult(nil), r.results...)
}

// Summary prints the closing table: requested vs generated vs persisted per
// entity type, then warning counts by category.
func (r *Reporter) Summary(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ENTITY TYPE\tREQUESTED\tGENERATED\tPERSISTED")
	for _, res := range r.results {
		if res.Skipped {
			fmt.Fprintf(tw, "%s\t%d\t-\tskipped\n", res.EntityType, res.Requested)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", res.EntityType, res.Requested, res.Generated, res.Persisted)
	}
	tw.Flush()

	if len(r.counts) == 0 {
		color.Green("\n✅ No warnings")
		return
	}

	categories := make([]string, 0, len(r.counts))
	for c := range r.counts {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	fmt.Fprintln(w)
	for _, c := range categories {
		color.Yellow("⚠️  %s: %d", c, r.counts[c])
	}
}
