package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Justaguy666/PetCareX-sub000/internal/domain"
	"github.com/Justaguy666/PetCareX-sub000/internal/store"
)

// enumColumns declares which columns hold vocabulary labels that must be
// translated into schema-native enum identifiers before persistence.
var enumColumns = map[string]map[string]string{
	domain.TableUsers:        {"tier": "membership_tier"},
	domain.TableEmployees:    {"gender": "gender", "role": "employee_role"},
	domain.TablePets:         {"health_status": "health_status"},
	domain.TableInvoices:     {"status": "invoice_status"},
	domain.TableServices:     {"service_type": "service_type"},
	domain.TablePromoScopes:  {"service_type": "service_type"},
	domain.TableAppointments: {"status": "appointment_status", "service_type": "service_type"},
}

// strippedColumns lists fields the store rejects on bulk-insert paths.
var strippedColumns = map[string][]string{
	domain.TableInvoices: {"rating", "rating_comment"},
}

// vetColumns lists doctor foreign keys that must reference a veterinarian.
var vetColumns = map[string]string{
	domain.TableAppointments: "doctor_id",
	domain.TableMedicalExams: "doctor_id",
	domain.TableInjections:   "doctor_id",
}

const (
	minDiscountPercent = 5
	maxDiscountPercent = 50
)

// validateBatch runs the correction passes over one entity-type batch
// immediately before persistence. Records may be mutated or dropped; the
// returned slice is what gets persisted.
func (e *Env) validateBatch(ctx context.Context, entityType string, records []map[string]any) ([]map[string]any, error) {
	e.translateEnums(entityType, records)
	e.stripRejectedFields(entityType, records)
	e.clampRanges(entityType, records)

	if err := e.revalidateVets(ctx, entityType, records); err != nil {
		return nil, err
	}

	if entityType == domain.TablePromoApps {
		return e.dropOverlappingWindows(ctx, records)
	}
	return records, nil
}

// translateEnums rewrites vocabulary labels to schema identifiers. An
// unresolvable label falls back to the enum's first identifier with a
// warning; a schema without the enum keeps the label untouched.
func (e *Env) translateEnums(entityType string, records []map[string]any) {
	columns, ok := enumColumns[entityType]
	if !ok || e.Resolver == nil {
		return
	}

	for column, enumName := range columns {
		if _, declared := e.Resolver.First(enumName); !declared {
			continue
		}
		for _, record := range records {
			label, isString := record[column].(string)
			if !isString {
				continue
			}
			if id, ok := e.Resolver.Resolve(enumName, label); ok {
				record[column] = id
				continue
			}
			fallback, _ := e.Resolver.First(enumName)
			e.Reporter.Warn(WarnEnumFallback, entityType,
				"label %q has no %s identifier, falling back to %q", label, enumName, fallback)
			record[column] = fallback
		}
	}
}

func (e *Env) stripRejectedFields(entityType string, records []map[string]any) {
	for _, column := range strippedColumns[entityType] {
		for _, record := range records {
			delete(record, column)
		}
	}
}

func (e *Env) clampRanges(entityType string, records []map[string]any) {
	switch entityType {
	case domain.TablePromoScopes:
		low := decimal.NewFromInt(minDiscountPercent)
		high := decimal.NewFromInt(maxDiscountPercent)
		for _, record := range records {
			pct, ok := record["discount_percent"].(decimal.Decimal)
			if !ok {
				continue
			}
			if pct.LessThan(low) {
				record["discount_percent"] = low
			} else if pct.GreaterThan(high) {
				record["discount_percent"] = high
			}
		}
	case domain.TableBranchProducts, domain.TableBranchMedicines,
		domain.TableBranchVaccines, domain.TableBranchPackages:
		for _, record := range records {
			if qty, ok := record["quantity"].(int); ok && qty < 0 {
				record["quantity"] = 0
			}
		}
	}
}

// revalidateVets checks every doctor foreign key against a freshly queried
// authoritative veterinarian set and substitutes a valid one when the
// referenced employee is not (or no longer) a veterinarian.
func (e *Env) revalidateVets(ctx context.Context, entityType string, records []map[string]any) error {
	column, ok := vetColumns[entityType]
	if !ok || len(records) == 0 {
		return nil
	}

	vets, err := e.Store.EmployeeIDsByRole(ctx, e.enumID("employee_role", domain.RoleVeterinarian))
	if err != nil {
		return fmt.Errorf("failed to re-validate veterinarians: %w", err)
	}
	if len(vets) == 0 {
		return &MissingDependencyError{EntityType: entityType, Missing: "veterinarian employees"}
	}

	valid := make(map[int64]bool, len(vets))
	for _, id := range vets {
		valid[id] = true
	}

	for _, record := range records {
		doctorID, isID := record[column].(int64)
		if isID && valid[doctorID] {
			continue
		}
		substitute := vets[e.Faker.rand.Intn(len(vets))]
		e.Reporter.Warn(WarnSubstitution, entityType,
			"doctor %v is not a veterinarian, substituting %d", record[column], substitute)
		record[column] = substitute
	}
	return nil
}

// dropOverlappingWindows enforces pairwise non-overlap of active windows
// per (promotion, branch), against both persisted windows and the batch.
func (e *Env) dropOverlappingWindows(ctx context.Context, records []map[string]any) ([]map[string]any, error) {
	existing, err := e.Store.PromoWindows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load promotion windows: %w", err)
	}

	windows := make(map[[2]int64][]store.PromoWindow)
	for _, w := range existing {
		key := [2]int64{w.PromotionID, w.BranchID}
		windows[key] = append(windows[key], w)
	}

	kept := records[:0]
	for _, record := range records {
		promotionID, _ := record["promotion_id"].(int64)
		branchID, _ := record["branch_id"].(int64)
		start, _ := record["start_at"].(time.Time)
		end, _ := record["end_at"].(time.Time)
		key := [2]int64{promotionID, branchID}

		overlaps := false
		for _, w := range windows[key] {
			if start.Before(w.End) && w.Start.Before(end) {
				overlaps = true
				break
			}
		}
		if overlaps {
			e.Reporter.Warn(WarnOverlapDrop, domain.TablePromoApps,
				"window %s..%s overlaps an active window for promotion %d at branch %d, dropping",
				start.Format("2006-01-02"), end.Format("2006-01-02"), promotionID, branchID)
			continue
		}

		windows[key] = append(windows[key], store.PromoWindow{
			PromotionID: promotionID, BranchID: branchID, Start: start, End: end,
		})
		kept = append(kept, record)
	}
	return kept, nil
}
