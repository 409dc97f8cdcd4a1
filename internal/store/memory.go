package store

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and dry-run tooling.
// Failure hooks let callers simulate driver-level rejections.
type MemoryStore struct {
	mu     sync.Mutex
	tables map[string][]map[string]any
	nextID map[string]int64

	// BulkErr forces BulkInsert on a table to fail with the given error.
	BulkErr map[string]error
	// InsertHook, when set, runs before each single-record insert and can
	// veto it by returning an error.
	InsertHook func(table string, record map[string]any) error
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		tables:  make(map[string][]map[string]any),
		nextID:  make(map[string]int64),
		BulkErr: make(map[string]error),
	}
}

func (m *MemoryStore) Provider() string { return "memory" }

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) insertLocked(table string, record map[string]any) int64 {
	m.nextID[table]++
	id := m.nextID[table]

	stored := make(map[string]any, len(record)+1)
	for k, v := range record {
		stored[k] = v
	}
	stored["id"] = id
	m.tables[table] = append(m.tables[table], stored)
	return id
}

func (m *MemoryStore) Insert(ctx context.Context, table string, record map[string]any) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.InsertHook != nil {
		if err := m.InsertHook(table, record); err != nil {
			return 0, err
		}
	}
	return m.insertLocked(table, record), nil
}

func (m *MemoryStore) BulkInsert(ctx context.Context, table string, records []map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.BulkErr[table]; err != nil {
		return err
	}
	if m.InsertHook != nil {
		for _, record := range records {
			if err := m.InsertHook(table, record); err != nil {
				return err
			}
		}
	}
	for _, record := range records {
		m.insertLocked(table, record)
	}
	return nil
}

func (m *MemoryStore) Count(ctx context.Context, table string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.tables[table])), nil
}

func (m *MemoryStore) IDs(ctx context.Context, table string) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tables[table]
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, asInt64(row["id"]))
	}
	return ids, nil
}

func (m *MemoryStore) Truncate(ctx context.Context, table string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, table)
	delete(m.nextID, table)
	return nil
}

// Rows returns a copy of a table's records. Test helper.
func (m *MemoryStore) Rows(table string) []map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()

	rows := m.tables[table]
	out := make([]map[string]any, len(rows))
	for i, row := range rows {
		cp := make(map[string]any, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out[i] = cp
	}
	return out
}

// Seed loads canned rows into a table, assigning IDs. Test helper.
func (m *MemoryStore) Seed(table string, records ...map[string]any) []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]int64, 0, len(records))
	for _, record := range records {
		ids = append(ids, m.insertLocked(table, record))
	}
	return ids
}

func (m *MemoryStore) EmployeeIDsByRole(ctx context.Context, role string) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []int64
	for _, row := range m.tables["employees"] {
		if asString(row["role"]) == role {
			ids = append(ids, asInt64(row["id"]))
		}
	}
	return ids, nil
}

func (m *MemoryStore) ActiveAssignments(ctx context.Context, at time.Time) (map[int64]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	assignments := make(map[int64]int64)
	for _, row := range m.tables["mobilizations"] {
		start := asTime(row["start_date"])
		if start.After(at) {
			continue
		}
		if end, ok := row["end_date"].(time.Time); ok && !end.After(at) {
			continue
		}
		assignments[asInt64(row["employee_id"])] = asInt64(row["branch_id"])
	}
	return assignments, nil
}

func (m *MemoryStore) PetOwners(ctx context.Context) (map[int64]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	owners := make(map[int64]int64)
	for _, row := range m.tables["pets"] {
		owners[asInt64(row["id"])] = asInt64(row["owner_id"])
	}
	return owners, nil
}

func (m *MemoryStore) Appointments(ctx context.Context) ([]AppointmentSlot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var slots []AppointmentSlot
	for _, row := range m.tables["appointments"] {
		slots = append(slots, AppointmentSlot{
			PetID:    asInt64(row["pet_id"]),
			DoctorID: asInt64(row["doctor_id"]),
			BranchID: asInt64(row["branch_id"]),
			At:       asTime(row["scheduled_at"]),
		})
	}
	return slots, nil
}

func (m *MemoryStore) FreeServiceIDs(ctx context.Context, serviceType, binderTable string) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	bound := make(map[int64]bool)
	for _, row := range m.tables[binderTable] {
		bound[asInt64(row["service_id"])] = true
	}

	var ids []int64
	for _, row := range m.tables["services"] {
		id := asInt64(row["id"])
		if asString(row["service_type"]) == serviceType && !bound[id] {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *MemoryStore) invoiceBranchesLocked() map[int64]int64 {
	branches := make(map[int64]int64)
	for _, row := range m.tables["invoices"] {
		branches[asInt64(row["id"])] = asInt64(row["branch_id"])
	}
	return branches
}

func (m *MemoryStore) serviceBranchesLocked() map[int64]int64 {
	invoices := m.invoiceBranchesLocked()
	branches := make(map[int64]int64)
	for _, row := range m.tables["services"] {
		branches[asInt64(row["id"])] = invoices[asInt64(row["invoice_id"])]
	}
	return branches
}

func (m *MemoryStore) BinderBranches(ctx context.Context, binderTable string) (map[int64]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	services := m.serviceBranchesLocked()
	branches := make(map[int64]int64)
	for _, row := range m.tables[binderTable] {
		branches[asInt64(row["id"])] = services[asInt64(row["service_id"])]
	}
	return branches, nil
}

func (m *MemoryStore) ServiceBranches(ctx context.Context, serviceType string) (map[int64]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	invoices := m.invoiceBranchesLocked()
	branches := make(map[int64]int64)
	for _, row := range m.tables["services"] {
		if asString(row["service_type"]) == serviceType {
			branches[asInt64(row["id"])] = invoices[asInt64(row["invoice_id"])]
		}
	}
	return branches, nil
}

func (m *MemoryStore) PositiveInventory(ctx context.Context, inventoryTable string) ([]InventoryRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var inventory []InventoryRow
	for _, row := range m.tables[inventoryTable] {
		qty := asInt64(row["quantity"])
		if qty <= 0 {
			continue
		}
		inventory = append(inventory, InventoryRow{
			ID:       asInt64(row["id"]),
			BranchID: asInt64(row["branch_id"]),
			ItemID:   asInt64(row["item_id"]),
			Quantity: qty,
		})
	}
	return inventory, nil
}

func (m *MemoryStore) PromoWindows(ctx context.Context) ([]PromoWindow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var windows []PromoWindow
	for _, row := range m.tables["promotion_applications"] {
		windows = append(windows, PromoWindow{
			PromotionID: asInt64(row["promotion_id"]),
			BranchID:    asInt64(row["branch_id"]),
			Start:       asTime(row["start_at"]),
			End:         asTime(row["end_at"]),
		})
	}
	return windows, nil
}

func (m *MemoryStore) ScopePairs(ctx context.Context) (map[int64][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pairs := make(map[int64][]string)
	for _, row := range m.tables["promotion_scopes"] {
		id := asInt64(row["promotion_id"])
		pairs[id] = append(pairs[id], asString(row["service_type"]))
	}
	return pairs, nil
}

func (m *MemoryStore) UsedPairs(ctx context.Context, table, leftCol, rightCol string) (map[[2]int64]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pairs := make(map[[2]int64]bool)
	for _, row := range m.tables[table] {
		pairs[[2]int64{asInt64(row[leftCol]), asInt64(row[rightCol])}] = true
	}
	return pairs, nil
}
