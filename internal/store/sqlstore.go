package store

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"
)

// SQLStore implements Store over a provider Querier. All statements are
// built with squirrel; the placeholder format follows the provider.
type SQLStore struct {
	provider string
	querier  Querier
	qb       squirrel.StatementBuilderType
}

// Open connects to the configured provider and returns a ready store.
func Open(ctx context.Context, provider, url string) (*SQLStore, error) {
	var (
		querier Querier
		err     error
	)

	switch provider {
	case "postgresql", "postgres":
		querier, err = newPgxQuerier(ctx, url)
	case "postgres-pq":
		querier, err = newSQLQuerier("postgres", url)
	case "mysql":
		querier, err = newSQLQuerier("mysql", url)
	case "sqlite", "sqlite3":
		querier, err = newSQLQuerier("sqlite3", url)
	default:
		return nil, fmt.Errorf("unsupported database provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}

	s := &SQLStore{provider: provider, querier: querier, qb: builderFor(provider)}
	if err := s.Ping(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return s, nil
}

func builderFor(provider string) squirrel.StatementBuilderType {
	switch provider {
	case "postgresql", "postgres", "postgres-pq":
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	default:
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	}
}

func (s *SQLStore) isPostgres() bool {
	switch s.provider {
	case "postgresql", "postgres", "postgres-pq":
		return true
	}
	return false
}

func (s *SQLStore) Provider() string { return s.provider }

func (s *SQLStore) Ping(ctx context.Context) error { return s.querier.Ping(ctx) }

func (s *SQLStore) Close() error { return s.querier.Close() }

// sortedColumns gives records a deterministic column order; map iteration
// order would otherwise shuffle the statement between batches.
func sortedColumns(record map[string]any) ([]string, error) {
	columns := make([]string, 0, len(record))
	for col := range record {
		if !isValidIdentifier(col) {
			return nil, fmt.Errorf("invalid column name: %s", col)
		}
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns, nil
}

func (s *SQLStore) Insert(ctx context.Context, table string, record map[string]any) (int64, error) {
	if !isValidIdentifier(table) {
		return 0, fmt.Errorf("invalid table name: %s", table)
	}
	columns, err := sortedColumns(record)
	if err != nil {
		return 0, err
	}

	values := make([]any, 0, len(columns))
	for _, col := range columns {
		values = append(values, record[col])
	}

	builder := s.qb.Insert(table).Columns(columns...).Values(values...)

	if s.isPostgres() {
		query, args, err := builder.Suffix("RETURNING id").ToSql()
		if err != nil {
			return 0, err
		}
		rows, err := s.querier.Query(ctx, query, args...)
		if err != nil {
			return 0, err
		}
		if len(rows) > 0 {
			return asInt64(rows[0]["id"]), nil
		}
		return 0, nil
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	return s.querier.Exec(ctx, query, args...)
}

func (s *SQLStore) BulkInsert(ctx context.Context, table string, records []map[string]any) error {
	if len(records) == 0 {
		return nil
	}
	if !isValidIdentifier(table) {
		return fmt.Errorf("invalid table name: %s", table)
	}
	columns, err := sortedColumns(records[0])
	if err != nil {
		return err
	}

	builder := s.qb.Insert(table).Columns(columns...)
	for _, record := range records {
		values := make([]any, 0, len(columns))
		for _, col := range columns {
			values = append(values, record[col])
		}
		builder = builder.Values(values...)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	_, err = s.querier.Exec(ctx, query, args...)
	return err
}

func (s *SQLStore) Count(ctx context.Context, table string) (int64, error) {
	if !isValidIdentifier(table) {
		return 0, fmt.Errorf("invalid table name: %s", table)
	}
	query, args, err := s.qb.Select("COUNT(*) AS n").From(table).ToSql()
	if err != nil {
		return 0, err
	}
	rows, err := s.querier.Query(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return asInt64(rows[0]["n"]), nil
}

func (s *SQLStore) IDs(ctx context.Context, table string) ([]int64, error) {
	if !isValidIdentifier(table) {
		return nil, fmt.Errorf("invalid table name: %s", table)
	}
	query, args, err := s.qb.Select("id").From(table).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, asInt64(row["id"]))
	}
	return ids, nil
}

func (s *SQLStore) Truncate(ctx context.Context, table string) error {
	if !isValidIdentifier(table) {
		return fmt.Errorf("invalid table name: %s", table)
	}
	var query string
	switch s.provider {
	case "postgresql", "postgres", "postgres-pq":
		query = fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)
	case "mysql":
		query = fmt.Sprintf("TRUNCATE TABLE %s", table)
	default:
		query = fmt.Sprintf("DELETE FROM %s", table)
	}
	_, err := s.querier.Exec(ctx, query)
	return err
}

func (s *SQLStore) EmployeeIDsByRole(ctx context.Context, role string) ([]int64, error) {
	query, args, err := s.qb.Select("id").From("employees").
		Where(squirrel.Eq{"role": role}).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, asInt64(row["id"]))
	}
	return ids, nil
}

func (s *SQLStore) ActiveAssignments(ctx context.Context, at time.Time) (map[int64]int64, error) {
	query, args, err := s.qb.Select("employee_id", "branch_id").From("mobilizations").
		Where(squirrel.LtOrEq{"start_date": at}).
		Where(squirrel.Or{
			squirrel.Eq{"end_date": nil},
			squirrel.Gt{"end_date": at},
		}).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	assignments := make(map[int64]int64, len(rows))
	for _, row := range rows {
		assignments[asInt64(row["employee_id"])] = asInt64(row["branch_id"])
	}
	return assignments, nil
}

func (s *SQLStore) PetOwners(ctx context.Context) (map[int64]int64, error) {
	query, args, err := s.qb.Select("id", "owner_id").From("pets").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	owners := make(map[int64]int64, len(rows))
	for _, row := range rows {
		owners[asInt64(row["id"])] = asInt64(row["owner_id"])
	}
	return owners, nil
}

func (s *SQLStore) Appointments(ctx context.Context) ([]AppointmentSlot, error) {
	query, args, err := s.qb.Select("pet_id", "doctor_id", "branch_id", "scheduled_at").
		From("appointments").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	slots := make([]AppointmentSlot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, AppointmentSlot{
			PetID:    asInt64(row["pet_id"]),
			DoctorID: asInt64(row["doctor_id"]),
			BranchID: asInt64(row["branch_id"]),
			At:       asTime(row["scheduled_at"]),
		})
	}
	return slots, nil
}

func (s *SQLStore) FreeServiceIDs(ctx context.Context, serviceType, binderTable string) ([]int64, error) {
	if !isValidIdentifier(binderTable) {
		return nil, fmt.Errorf("invalid table name: %s", binderTable)
	}
	query, args, err := s.qb.Select("s.id").From("services s").
		Where(squirrel.Eq{"s.service_type": serviceType}).
		Where(fmt.Sprintf("NOT EXISTS (SELECT 1 FROM %s b WHERE b.service_id = s.id)", binderTable)).
		OrderBy("s.id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, asInt64(row["id"]))
	}
	return ids, nil
}

func (s *SQLStore) BinderBranches(ctx context.Context, binderTable string) (map[int64]int64, error) {
	if !isValidIdentifier(binderTable) {
		return nil, fmt.Errorf("invalid table name: %s", binderTable)
	}
	query, args, err := s.qb.Select("b.id", "i.branch_id").
		From(binderTable+" b").
		Join("services s ON b.service_id = s.id").
		Join("invoices i ON s.invoice_id = i.id").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	branches := make(map[int64]int64, len(rows))
	for _, row := range rows {
		branches[asInt64(row["id"])] = asInt64(row["branch_id"])
	}
	return branches, nil
}

func (s *SQLStore) ServiceBranches(ctx context.Context, serviceType string) (map[int64]int64, error) {
	query, args, err := s.qb.Select("s.id", "i.branch_id").
		From("services s").
		Join("invoices i ON s.invoice_id = i.id").
		Where(squirrel.Eq{"s.service_type": serviceType}).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	branches := make(map[int64]int64, len(rows))
	for _, row := range rows {
		branches[asInt64(row["id"])] = asInt64(row["branch_id"])
	}
	return branches, nil
}

func (s *SQLStore) PositiveInventory(ctx context.Context, inventoryTable string) ([]InventoryRow, error) {
	if !isValidIdentifier(inventoryTable) {
		return nil, fmt.Errorf("invalid table name: %s", inventoryTable)
	}
	query, args, err := s.qb.Select("id", "branch_id", "item_id", "quantity").
		From(inventoryTable).
		Where(squirrel.Gt{"quantity": 0}).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	inventory := make([]InventoryRow, 0, len(rows))
	for _, row := range rows {
		inventory = append(inventory, InventoryRow{
			ID:       asInt64(row["id"]),
			BranchID: asInt64(row["branch_id"]),
			ItemID:   asInt64(row["item_id"]),
			Quantity: asInt64(row["quantity"]),
		})
	}
	return inventory, nil
}

func (s *SQLStore) PromoWindows(ctx context.Context) ([]PromoWindow, error) {
	query, args, err := s.qb.Select("promotion_id", "branch_id", "start_at", "end_at").
		From("promotion_applications").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	windows := make([]PromoWindow, 0, len(rows))
	for _, row := range rows {
		windows = append(windows, PromoWindow{
			PromotionID: asInt64(row["promotion_id"]),
			BranchID:    asInt64(row["branch_id"]),
			Start:       asTime(row["start_at"]),
			End:         asTime(row["end_at"]),
		})
	}
	return windows, nil
}

func (s *SQLStore) ScopePairs(ctx context.Context) (map[int64][]string, error) {
	query, args, err := s.qb.Select("promotion_id", "service_type").
		From("promotion_scopes").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	pairs := make(map[int64][]string)
	for _, row := range rows {
		id := asInt64(row["promotion_id"])
		pairs[id] = append(pairs[id], asString(row["service_type"]))
	}
	return pairs, nil
}

func (s *SQLStore) UsedPairs(ctx context.Context, table, leftCol, rightCol string) (map[[2]int64]bool, error) {
	for _, name := range []string{table, leftCol, rightCol} {
		if !isValidIdentifier(name) {
			return nil, fmt.Errorf("invalid identifier: %s", name)
		}
	}
	query, args, err := s.qb.Select(leftCol, rightCol).From(table).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	pairs := make(map[[2]int64]bool, len(rows))
	for _, row := range rows {
		pairs[[2]int64{asInt64(row[leftCol]), asInt64(row[rightCol])}] = true
	}
	return pairs, nil
}
