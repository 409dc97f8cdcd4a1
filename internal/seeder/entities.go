package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/Justaguy666/PetCareX-sub000/internal/config"
	"github.com/Justaguy666/PetCareX-sub000/internal/domain"
	"github.com/Justaguy666/PetCareX-sub000/internal/schema"
	"github.com/Justaguy666/PetCareX-sub000/internal/store"
)

// Env is the context a generator strategy works in: the authoritative store,
// the in-run registries, the factories and the policy knobs.
type Env struct {
	Store    store.Store
	IDs      *IDRegistry
	Faker    *Faker
	Policy   config.Policy
	Reporter *Reporter
	Resolver *schema.Resolver
	Now      time.Time
}

// enumID translates a vocabulary label into the schema-native identifier,
// falling back to the label itself when the schema declares no such enum.
func (e *Env) enumID(enumName, label string) string {
	if e.Resolver != nil {
		if id, ok := e.Resolver.Resolve(enumName, label); ok {
			return id
		}
	}
	return label
}

// ref picks a random known primary key of entityType. The in-run registry
// is consulted first; when a stage was not part of this run the store is
// read once and its keys merged in.
func (e *Env) ref(ctx context.Context, entityType string) (int64, error) {
	ids, err := e.refs(ctx, entityType)
	if err != nil {
		return 0, err
	}
	return ids[e.Faker.rand.Intn(len(ids))], nil
}

// refs returns every known primary key of entityType, loading from the
// store when the in-run registry has none.
func (e *Env) refs(ctx context.Context, entityType string) ([]int64, error) {
	if !e.IDs.Has(entityType) {
		stored, err := e.Store.IDs(ctx, entityType)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s ids: %w", entityType, err)
		}
		e.IDs.Add(entityType, stored...)
	}
	if !e.IDs.Has(entityType) {
		return nil, &MissingDependencyError{EntityType: entityType, Missing: entityType}
	}
	return e.IDs.Get(entityType), nil
}

// Strategy generates candidate records for one entity type. Returned
// records are still pre-validation; the orchestrator runs the correctors
// before anything is persisted.
type Strategy func(ctx context.Context, env *Env, count int) ([]map[string]any, error)

type factoryFn func(Overrides) (map[string]any, error)

// plainFactory repeats a factory count times with no cross-entity coupling.
func plainFactory(fn func(*Faker) factoryFn) Strategy {
	return func(ctx context.Context, env *Env, count int) ([]map[string]any, error) {
		records := make([]map[string]any, 0, count)
		for i := 0; i < count; i++ {
			record, err := fn(env.Faker)(nil)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
		return records, nil
	}
}

// fkFactory repeats a factory count times, filling each listed column with
// a random primary key of the referenced entity type.
func fkFactory(fn func(*Faker) factoryFn, refs map[string]string) Strategy {
	return func(ctx context.Context, env *Env, count int) ([]map[string]any, error) {
		records := make([]map[string]any, 0, count)
		for i := 0; i < count; i++ {
			ov := Overrides{}
			for column, entityType := range refs {
				id, err := env.ref(ctx, entityType)
				if err != nil {
					return nil, err
				}
				ov[column] = id
			}
			record, err := fn(env.Faker)(ov)
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
		return records, nil
	}
}

// Strategies maps entity-type key to its generator. Adding an entity type
// means registering it here and declaring its dependencies in the domain
// package.
func Strategies() map[string]Strategy {
	return map[string]Strategy{
		domain.TableUsers:     plainFactory(func(f *Faker) factoryFn { return f.User }),
		domain.TableEmployees: plainFactory(func(f *Faker) factoryFn { return f.Employee }),
		domain.TableBranches:  plainFactory(func(f *Faker) factoryFn { return f.Branch }),

		domain.TableMobilizations: generateMobilizations,

		domain.TablePets: fkFactory(func(f *Faker) factoryFn { return f.Pet },
			map[string]string{"owner_id": domain.TableUsers}),

		domain.TableProducts:  plainFactory(func(f *Faker) factoryFn { return f.Product }),
		domain.TableMedicines: plainFactory(func(f *Faker) factoryFn { return f.Medicine }),
		domain.TableVaccines:  plainFactory(func(f *Faker) factoryFn { return f.Vaccine }),
		domain.TablePackages: fkFactory(func(f *Faker) factoryFn { return f.VaccinePackage },
			map[string]string{"vaccine_id": domain.TableVaccines}),

		domain.TableBranchProducts:  inventoryStrategy(domain.TableBranchProducts, domain.TableProducts),
		domain.TableBranchMedicines: inventoryStrategy(domain.TableBranchMedicines, domain.TableMedicines),
		domain.TableBranchVaccines:  inventoryStrategy(domain.TableBranchVaccines, domain.TableVaccines),
		domain.TableBranchPackages:  inventoryStrategy(domain.TableBranchPackages, domain.TablePackages),

		domain.TablePromotions:  plainFactory(func(f *Faker) factoryFn { return f.Promotion }),
		domain.TablePromoScopes: generatePromotionScopes,
		domain.TablePromoApps: fkFactory(func(f *Faker) factoryFn { return f.PromotionApplication },
			map[string]string{
				"promotion_id": domain.TablePromotions,
				"branch_id":    domain.TableBranches,
			}),

		domain.TableInvoices: fkFactory(func(f *Faker) factoryFn { return f.Invoice },
			map[string]string{
				"customer_id": domain.TableUsers,
				"branch_id":   domain.TableBranches,
			}),
		domain.TableServices: fkFactory(func(f *Faker) factoryFn { return f.Service },
			map[string]string{"invoice_id": domain.TableInvoices}),

		domain.TableMedicalExams:  bindExams,
		domain.TableInjections:    bindInjections,
		domain.TablePkgInjections: bindPackageInjections,

		domain.TableProductSales:  matchProductSales,
		domain.TablePrescriptions: matchPrescriptions,
		domain.TableVaccineUses:   matchVaccineUses,

		domain.TableAppointments: generateAppointments,
	}
}

// generateMobilizations assigns employees to branches while honouring the
// one-active-assignment-per-employee invariant: employees that already hold
// an active assignment (from the store or earlier in this batch) only
// receive closed, historical windows.
func generateMobilizations(ctx context.Context, env *Env, count int) ([]map[string]any, error) {
	employees, err := env.refs(ctx, domain.TableEmployees)
	if err != nil {
		return nil, err
	}
	branches, err := env.refs(ctx, domain.TableBranches)
	if err != nil {
		return nil, err
	}

	active, err := env.Store.ActiveAssignments(ctx, env.Now)
	if err != nil {
		return nil, fmt.Errorf("failed to load active assignments: %w", err)
	}
	hasActive := make(map[int64]bool, len(active))
	for employeeID := range active {
		hasActive[employeeID] = true
	}

	records := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		employeeID := employees[env.Faker.rand.Intn(len(employees))]
		branchID := branches[env.Faker.rand.Intn(len(branches))]

		record, err := env.Faker.Mobilization(Overrides{
			"employee_id": employeeID,
			"branch_id":   branchID,
		})
		if err != nil {
			return nil, err
		}

		if record["end_date"] == nil {
			if hasActive[employeeID] {
				// Close the window in the past instead of stacking a
				// second active assignment.
				start := record["start_date"].(time.Time)
				record["end_date"] = start.AddDate(0, 1, 0)
				if !record["end_date"].(time.Time).Before(env.Now) {
					record["start_date"] = env.Now.AddDate(0, -3, 0)
					record["end_date"] = env.Now.AddDate(0, -1, 0)
				}
			} else {
				hasActive[employeeID] = true
			}
		}
		records = append(records, record)
	}
	return records, nil
}

// inventoryStrategy generates per-branch stock rows with a unique
// (branch, item) pair per row. The requested count is capped at the number
// of unfilled pairs.
func inventoryStrategy(table, itemTable string) Strategy {
	return func(ctx context.Context, env *Env, count int) ([]map[string]any, error) {
		branches, err := env.refs(ctx, domain.TableBranches)
		if err != nil {
			return nil, err
		}
		items, err := env.refs(ctx, itemTable)
		if err != nil {
			return nil, err
		}

		used, err := env.Store.UsedPairs(ctx, table, "branch_id", "item_id")
		if err != nil {
			return nil, fmt.Errorf("failed to load existing %s pairs: %w", table, err)
		}

		free := len(branches)*len(items) - len(used)
		if count > free {
			env.Reporter.Warn(WarnCapping, table, "requested %d but only %d free (branch, item) pairs", count, free)
			count = free
		}

		records := make([]map[string]any, 0, count)
		for len(records) < count {
			pair := [2]int64{
				branches[env.Faker.rand.Intn(len(branches))],
				items[env.Faker.rand.Intn(len(items))],
			}
			if used[pair] {
				continue
			}
			used[pair] = true

			record, err := env.Faker.Inventory(Overrides{
				"branch_id": pair[0],
				"item_id":   pair[1],
			})
			if err != nil {
				return nil, err
			}
			records = append(records, record)
		}
		return records, nil
	}
}

// generatePromotionScopes keeps (promotion, service_type) pairs unique
// across the store and the batch; a duplicate draw is remapped to a free
// pair or dropped when none remains.
func generatePromotionScopes(ctx context.Context, env *Env, count int) ([]map[string]any, error) {
	promotions, err := env.refs(ctx, domain.TablePromotions)
	if err != nil {
		return nil, err
	}

	existing, err := env.Store.ScopePairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load promotion scopes: %w", err)
	}
	used := make(map[string]bool)
	for promotionID, types := range existing {
		for _, serviceType := range types {
			used[fmt.Sprintf("%d|%s", promotionID, serviceType)] = true
		}
	}

	records := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		record, err := env.Faker.PromotionScope(Overrides{
			"promotion_id": promotions[env.Faker.rand.Intn(len(promotions))],
		})
		if err != nil {
			return nil, err
		}

		key := fmt.Sprintf("%d|%s", record["promotion_id"], record["service_type"])
		if used[key] {
			record, key = remapScope(env, promotions, record, used)
			if record == nil {
				env.Reporter.Warn(WarnPairDrop, domain.TablePromoScopes,
					"no free (promotion, service type) pair left, dropping record")
				continue
			}
		}
		used[key] = true
		records = append(records, record)
	}
	return records, nil
}

func remapScope(env *Env, promotions []int64, record map[string]any, used map[string]bool) (map[string]any, string) {
	for _, promotionID := range promotions {
		for _, serviceType := range env.Faker.vocab.ServiceTypes {
			key := fmt.Sprintf("%d|%s", promotionID, serviceType)
			if !used[key] {
				record["promotion_id"] = promotionID
				record["service_type"] = serviceType
				return record, key
			}
		}
	}
	return nil, ""
}
