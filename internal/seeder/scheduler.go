package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/Justaguy666/PetCareX-sub000/internal/domain"
)

type slotKey struct {
	doctorID int64
	branchID int64
	at       int64
}

// usedSlotSet tracks (doctor, branch, timestamp) slots already taken. The
// set is bounded: past the cap the oldest entries are evicted, trading a
// small chance of duplicate-slot retries for bounded memory on very large
// runs.
type usedSlotSet struct {
	slots map[slotKey]bool
	order []slotKey
	cap   int
}

func newUsedSlotSet(cap int) *usedSlotSet {
	if cap <= 0 {
		cap = 100000
	}
	return &usedSlotSet{slots: make(map[slotKey]bool), cap: cap}
}

func (s *usedSlotSet) has(k slotKey) bool { return s.slots[k] }

func (s *usedSlotSet) add(k slotKey) {
	if s.slots[k] {
		return
	}
	s.slots[k] = true
	s.order = append(s.order, k)
	for len(s.order) > s.cap {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.slots, oldest)
	}
}

// generateAppointments builds conflict-free appointments: vet doctors only,
// doctor placed at their currently assigned branch when one exists, local
// time-of-day inside clinic hours, no two appointments for one pet closer
// than the minimum separation window.
func generateAppointments(ctx context.Context, env *Env, count int) ([]map[string]any, error) {
	owners, err := env.Store.PetOwners(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load pets: %w", err)
	}
	if len(owners) == 0 {
		return nil, &MissingDependencyError{EntityType: domain.TableAppointments, Missing: "pets"}
	}

	vets, err := env.Store.EmployeeIDsByRole(ctx, env.enumID("employee_role", domain.RoleVeterinarian))
	if err != nil {
		return nil, fmt.Errorf("failed to load veterinarians: %w", err)
	}
	if len(vets) == 0 {
		return nil, &MissingDependencyError{EntityType: domain.TableAppointments, Missing: "veterinarian employees"}
	}

	assignments, err := env.Store.ActiveAssignments(ctx, env.Now)
	if err != nil {
		return nil, fmt.Errorf("failed to load staff assignments: %w", err)
	}

	existing, err := env.Store.Appointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing appointments: %w", err)
	}

	// Schedule load cap: at most N appointments per known pet.
	maxTotal := env.Policy.MaxAppointmentsPerPet * len(owners)
	if count > maxTotal {
		env.Reporter.Warn(WarnCapping, domain.TableAppointments,
			"requested %d appointments capped to %d (%d per pet, %d pets)",
			count, maxTotal, env.Policy.MaxAppointmentsPerPet, len(owners))
		count = maxTotal
	}

	ownerPets := make(map[int64][]int64)
	for petID, ownerID := range owners {
		ownerPets[ownerID] = append(ownerPets[ownerID], petID)
	}
	ownerList := make([]int64, 0, len(ownerPets))
	for ownerID := range ownerPets {
		ownerList = append(ownerList, ownerID)
	}

	usedSlots := newUsedSlotSet(env.Policy.UsedSlotCap)
	petTimes := make(map[int64][]time.Time)
	petLoad := make(map[int64]int)
	for _, slot := range existing {
		usedSlots.add(slotKey{slot.DoctorID, slot.BranchID, slot.At.Unix()})
		petTimes[slot.PetID] = append(petTimes[slot.PetID], slot.At)
		petLoad[slot.PetID]++
	}

	// Vets that currently belong to a branch are preferred; with none, any
	// vet is paired with any branch.
	var assignedVets []int64
	for _, vetID := range vets {
		if _, ok := assignments[vetID]; ok {
			assignedVets = append(assignedVets, vetID)
		}
	}

	minGap := time.Duration(env.Policy.MinPetGapHours) * time.Hour
	records := make([]map[string]any, 0, count)

	for i := 0; i < count; i++ {
		ownerID := ownerList[env.Faker.rand.Intn(len(ownerList))]
		petID := leastLoadedPet(ownerPets[ownerID], petLoad)

		var doctorID, branchID int64
		if len(assignedVets) > 0 {
			doctorID = assignedVets[env.Faker.rand.Intn(len(assignedVets))]
			branchID = assignments[doctorID]
		} else {
			doctorID = vets[env.Faker.rand.Intn(len(vets))]
			branches, err := env.refs(ctx, domain.TableBranches)
			if err != nil {
				return nil, err
			}
			branchID = branches[env.Faker.rand.Intn(len(branches))]
		}

		at, found := env.proposeSlot(doctorID, branchID, petTimes[petID], usedSlots, minGap)
		if !found {
			// Deterministic far-future fallback keyed to the batch
			// position: forward progress wins over realism.
			at = env.fallbackSlot(i)
		}

		usedSlots.add(slotKey{doctorID, branchID, at.Unix()})
		petTimes[petID] = append(petTimes[petID], at)
		petLoad[petID]++

		record, err := env.Faker.Appointment(Overrides{
			"pet_id":       petID,
			"owner_id":     ownerID,
			"branch_id":    branchID,
			"doctor_id":    doctorID,
			"scheduled_at": at,
		})
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

func leastLoadedPet(pets []int64, load map[int64]int) int64 {
	best := pets[0]
	for _, petID := range pets[1:] {
		if load[petID] < load[best] {
			best = petID
		}
	}
	return best
}

var slotMinutes = []int{0, 15, 30, 45}

// proposeSlot draws candidate timestamps inside the scheduling horizon and
// clinic hours until one is strictly in the future, not double-booked for
// the doctor/branch, and outside the pet's separation window.
func (e *Env) proposeSlot(doctorID, branchID int64, petBooked []time.Time, used *usedSlotSet, minGap time.Duration) (time.Time, bool) {
	localToday := StorageToLocal(e.Now)
	openHours := e.Policy.ClinicCloseHour - e.Policy.ClinicOpenHour

	for attempt := 0; attempt < e.Policy.SlotAttempts; attempt++ {
		dayOffset := 1 + e.Faker.rand.Intn(e.Policy.HorizonDays)
		hour := e.Policy.ClinicOpenHour + e.Faker.rand.Intn(openHours)
		minute := slotMinutes[e.Faker.rand.Intn(len(slotMinutes))]

		day := localToday.AddDate(0, 0, dayOffset)
		at := LocalToStorage(time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, localZone))

		if !at.After(e.Now) {
			continue
		}
		if used.has(slotKey{doctorID, branchID, at.Unix()}) {
			continue
		}
		if conflictsWithPet(at, petBooked, minGap) {
			continue
		}
		return at, true
	}
	return time.Time{}, false
}

func conflictsWithPet(at time.Time, booked []time.Time, minGap time.Duration) bool {
	for _, t := range booked {
		delta := at.Sub(t)
		if delta < 0 {
			delta = -delta
		}
		if delta < minGap {
			return true
		}
	}
	return false
}

// fallbackSlot derives a guaranteed-unique far-future slot from the batch
// position: one year out plus one clinic-opening day per index.
func (e *Env) fallbackSlot(index int) time.Time {
	base := StorageToLocal(e.Now).AddDate(1, 0, 0)
	day := base.AddDate(0, 0, index)
	return LocalToStorage(time.Date(day.Year(), day.Month(), day.Day(),
		e.Policy.ClinicOpenHour, 0, 0, 0, localZone))
}
