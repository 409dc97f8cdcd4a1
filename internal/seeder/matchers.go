package seeder

import (
	"context"
	"fmt"

	"github.com/Justaguy666/PetCareX-sub000/internal/domain"
)

// pairMatch joins two already-persisted pools that must share a branch.
// Each target record draws a branch with non-empty pools on both sides,
// then one ID from each pool; a draw is rejected when the (left, right)
// pair was already used. When the attempt budget runs out the record is
// dropped with a warning — the requested count is a ceiling.
type pairMatch struct {
	entityType  string
	left        map[int64][]int64 // branch -> left-side IDs
	right       map[int64][]int64 // branch -> right-side IDs
	usedPairs   map[[2]int64]bool
	consumeLeft bool // each left ID may be used at most once
}

func (m *pairMatch) run(env *Env, count int, build func(branchID, leftID, rightID int64) (map[string]any, error)) ([]map[string]any, error) {
	var branches []int64
	for branchID, leftIDs := range m.left {
		if len(leftIDs) > 0 && len(m.right[branchID]) > 0 {
			branches = append(branches, branchID)
		}
	}
	if len(branches) == 0 {
		env.Reporter.Warn(WarnInsufficientData, m.entityType,
			"no branch has compatible records on both sides, generating 0 of %d", count)
		return nil, nil
	}

	records := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		record, ok, err := m.drawOne(env, branches, build)
		if err != nil {
			return nil, err
		}
		if !ok {
			env.Reporter.Warn(WarnPairDrop, m.entityType,
				"no compatible (branch, pair) found within %d attempts, dropping record", env.Policy.PairAttempts)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (m *pairMatch) drawOne(env *Env, branches []int64, build func(branchID, leftID, rightID int64) (map[string]any, error)) (map[string]any, bool, error) {
	for attempt := 0; attempt < env.Policy.PairAttempts; attempt++ {
		branchID := branches[env.Faker.rand.Intn(len(branches))]
		leftIDs := m.left[branchID]
		rightIDs := m.right[branchID]
		if len(leftIDs) == 0 || len(rightIDs) == 0 {
			continue
		}

		leftIdx := env.Faker.rand.Intn(len(leftIDs))
		leftID := leftIDs[leftIdx]
		rightID := rightIDs[env.Faker.rand.Intn(len(rightIDs))]

		if m.usedPairs != nil && m.usedPairs[[2]int64{leftID, rightID}] {
			continue
		}

		record, err := build(branchID, leftID, rightID)
		if err != nil {
			return nil, false, err
		}
		if m.usedPairs != nil {
			m.usedPairs[[2]int64{leftID, rightID}] = true
		}
		if m.consumeLeft {
			m.left[branchID] = append(leftIDs[:leftIdx], leftIDs[leftIdx+1:]...)
		}
		return record, true, nil
	}
	return nil, false, nil
}

func indexByBranch(branchOf map[int64]int64, ids []int64) map[int64][]int64 {
	index := make(map[int64][]int64)
	for _, id := range ids {
		if branchID, ok := branchOf[id]; ok {
			index[branchID] = append(index[branchID], id)
		}
	}
	return index
}

// matchProductSales pairs unbound product-sale service records with a
// positive-quantity product inventory row at the same branch.
func matchProductSales(ctx context.Context, env *Env, count int) ([]map[string]any, error) {
	serviceType := env.enumID("service_type", domain.ServiceProductSale)

	free, err := env.Store.FreeServiceIDs(ctx, serviceType, domain.TableProductSales)
	if err != nil {
		return nil, fmt.Errorf("failed to load unbound sale services: %w", err)
	}
	branchOf, err := env.Store.ServiceBranches(ctx, serviceType)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve service branches: %w", err)
	}
	inventory, err := env.Store.PositiveInventory(ctx, domain.TableBranchProducts)
	if err != nil {
		return nil, fmt.Errorf("failed to load product inventory: %w", err)
	}

	right := make(map[int64][]int64)
	for _, row := range inventory {
		right[row.BranchID] = append(right[row.BranchID], row.ItemID)
	}

	m := &pairMatch{
		entityType:  domain.TableProductSales,
		left:        indexByBranch(branchOf, free),
		right:       right,
		consumeLeft: true, // service_id is a unique one-to-one link
	}
	return m.run(env, count, func(_, serviceID, productID int64) (map[string]any, error) {
		return env.Faker.ProductSale(Overrides{
			"service_id": serviceID,
			"product_id": productID,
		})
	})
}

// matchPrescriptions pairs a medical exam with a medicine stocked at the
// exam's branch (resolved transitively via service -> invoice).
func matchPrescriptions(ctx context.Context, env *Env, count int) ([]map[string]any, error) {
	examBranches, err := env.Store.BinderBranches(ctx, domain.TableMedicalExams)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve exam branches: %w", err)
	}
	inventory, err := env.Store.PositiveInventory(ctx, domain.TableBranchMedicines)
	if err != nil {
		return nil, fmt.Errorf("failed to load medicine inventory: %w", err)
	}
	used, err := env.Store.UsedPairs(ctx, domain.TablePrescriptions, "exam_id", "medicine_id")
	if err != nil {
		return nil, fmt.Errorf("failed to load existing prescription pairs: %w", err)
	}

	left := make(map[int64][]int64)
	for examID, branchID := range examBranches {
		left[branchID] = append(left[branchID], examID)
	}
	right := make(map[int64][]int64)
	for _, row := range inventory {
		right[row.BranchID] = append(right[row.BranchID], row.ItemID)
	}

	m := &pairMatch{
		entityType: domain.TablePrescriptions,
		left:       left,
		right:      right,
		usedPairs:  used,
	}
	return m.run(env, count, func(_, examID, medicineID int64) (map[string]any, error) {
		return env.Faker.Prescription(Overrides{
			"exam_id":     examID,
			"medicine_id": medicineID,
		})
	})
}

// matchVaccineUses pairs an injection with a vaccine stocked at the
// injection's branch.
func matchVaccineUses(ctx context.Context, env *Env, count int) ([]map[string]any, error) {
	injectionBranches, err := env.Store.BinderBranches(ctx, domain.TableInjections)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve injection branches: %w", err)
	}
	inventory, err := env.Store.PositiveInventory(ctx, domain.TableBranchVaccines)
	if err != nil {
		return nil, fmt.Errorf("failed to load vaccine inventory: %w", err)
	}
	used, err := env.Store.UsedPairs(ctx, domain.TableVaccineUses, "injection_id", "vaccine_id")
	if err != nil {
		return nil, fmt.Errorf("failed to load existing vaccine-use pairs: %w", err)
	}

	left := make(map[int64][]int64)
	for injectionID, branchID := range injectionBranches {
		left[branchID] = append(left[branchID], injectionID)
	}
	right := make(map[int64][]int64)
	for _, row := range inventory {
		right[row.BranchID] = append(right[row.BranchID], row.ItemID)
	}

	m := &pairMatch{
		entityType: domain.TableVaccineUses,
		left:       left,
		right:      right,
		usedPairs:  used,
	}
	return m.run(env, count, func(_, injectionID, vaccineID int64) (map[string]any, error) {
		return env.Faker.VaccineUse(Overrides{
			"injection_id": injectionID,
			"vaccine_id":   vaccineID,
		})
	})
}
