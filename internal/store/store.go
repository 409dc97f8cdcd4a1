package store

import (
	"context"
	"regexp"
	"time"
)

// validIdentifier validates SQL identifiers (table/column names) to prevent
// SQL injection via plan or schema input.
var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

func isValidIdentifier(name string) bool {
	return validIdentifier.MatchString(name)
}

// AppointmentSlot is an already-booked appointment as seen by the
// scheduler's conflict checks.
type AppointmentSlot struct {
	PetID    int64
	DoctorID int64
	BranchID int64
	At       time.Time
}

// PromoWindow is an active promotion-application window for one branch.
type PromoWindow struct {
	PromotionID int64
	BranchID    int64
	Start       time.Time
	End         time.Time
}

// InventoryRow is one positive-quantity inventory line for a branch.
type InventoryRow struct {
	ID       int64
	BranchID int64
	ItemID   int64
	Quantity int64
}

// Store is the persistence abstraction the seeding engine drives. One
// persistent entity type per table; records travel as column->value maps.
type Store interface {
	Provider() string
	Ping(ctx context.Context) error
	Close() error

	// Insert writes one record and returns the store-assigned primary key
	// (zero when the provider cannot report one).
	Insert(ctx context.Context, table string, record map[string]any) (int64, error)

	// BulkInsert writes records in a single multi-row statement.
	BulkInsert(ctx context.Context, table string, records []map[string]any) error

	Count(ctx context.Context, table string) (int64, error)
	IDs(ctx context.Context, table string) ([]int64, error)
	Truncate(ctx context.Context, table string) error

	// EmployeeIDsByRole returns employee IDs holding the given role.
	EmployeeIDsByRole(ctx context.Context, role string) ([]int64, error)

	// ActiveAssignments resolves employee->branch for staff assignments
	// active at the given instant (start <= at < end, or open-ended).
	ActiveAssignments(ctx context.Context, at time.Time) (map[int64]int64, error)

	// PetOwners returns pet->owner for every pet.
	PetOwners(ctx context.Context) (map[int64]int64, error)

	// Appointments returns every persisted appointment slot.
	Appointments(ctx context.Context) ([]AppointmentSlot, error)

	// FreeServiceIDs returns service records of the given type not yet
	// referenced by a row of binderTable.
	FreeServiceIDs(ctx context.Context, serviceType, binderTable string) ([]int64, error)

	// BinderBranches resolves binder row -> branch transitively through
	// the row's service record and its invoice.
	BinderBranches(ctx context.Context, binderTable string) (map[int64]int64, error)

	// ServiceBranches resolves service record -> branch through the
	// owning invoice, filtered to one service type.
	ServiceBranches(ctx context.Context, serviceType string) (map[int64]int64, error)

	// PositiveInventory returns inventory rows with quantity > 0 from one
	// of the per-branch inventory tables.
	PositiveInventory(ctx context.Context, inventoryTable string) ([]InventoryRow, error)

	// PromoWindows returns every persisted promotion-application window.
	PromoWindows(ctx context.Context) ([]PromoWindow, error)

	// ScopePairs returns the persisted (promotion, service_type) pairs.
	ScopePairs(ctx context.Context) (map[int64][]string, error)

	// UsedPairs returns persisted (leftCol, rightCol) ID pairs of table,
	// for pair-uniqueness checks spanning prior runs.
	UsedPairs(ctx context.Context, table, leftCol, rightCol string) (map[[2]int64]bool, error)
}
