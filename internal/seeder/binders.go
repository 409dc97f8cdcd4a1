package seeder

import (
	"context"
	"fmt"

	"github.com/Justaguy666/PetCareX-sub000/internal/domain"
)

// bindOneToOne assigns each generated record a unique service record of the
// matching type. The eligible pool is shuffled, the requested count capped
// to the pool size, and every pool entry is consumed at most once.
func bindOneToOne(
	ctx context.Context,
	env *Env,
	count int,
	binderTable, serviceLabel string,
	needDoctor bool,
	build func(serviceID int64, doctorID int64) (map[string]any, error),
) ([]map[string]any, error) {
	pool, err := env.Store.FreeServiceIDs(ctx, env.enumID("service_type", serviceLabel), binderTable)
	if err != nil {
		return nil, fmt.Errorf("failed to load eligible service records: %w", err)
	}
	if len(pool) == 0 {
		return nil, &MissingDependencyError{
			EntityType: binderTable,
			Missing:    fmt.Sprintf("unbound %q service records", serviceLabel),
		}
	}

	var vets []int64
	if needDoctor {
		// Absence of any veterinarian makes the whole stage a no-op rather
		// than a partially inconsistent batch.
		vets, err = env.Store.EmployeeIDsByRole(ctx, env.enumID("employee_role", domain.RoleVeterinarian))
		if err != nil {
			return nil, fmt.Errorf("failed to load veterinarians: %w", err)
		}
		if len(vets) == 0 {
			return nil, &MissingDependencyError{EntityType: binderTable, Missing: "veterinarian employees"}
		}
	}

	env.Faker.rand.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	if count > len(pool) {
		env.Reporter.Warn(WarnCapping, binderTable,
			"requested %d capped to %d eligible service records", count, len(pool))
		count = len(pool)
	}

	records := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		var doctorID int64
		if needDoctor {
			doctorID = vets[env.Faker.rand.Intn(len(vets))]
		}
		record, err := build(pool[i], doctorID)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func bindExams(ctx context.Context, env *Env, count int) ([]map[string]any, error) {
	return bindOneToOne(ctx, env, count, domain.TableMedicalExams, domain.ServiceExamination, true,
		func(serviceID, doctorID int64) (map[string]any, error) {
			return env.Faker.MedicalExam(Overrides{
				"service_id": serviceID,
				"doctor_id":  doctorID,
			})
		})
}

func bindInjections(ctx context.Context, env *Env, count int) ([]map[string]any, error) {
	return bindOneToOne(ctx, env, count, domain.TableInjections, domain.ServiceInjection, true,
		func(serviceID, doctorID int64) (map[string]any, error) {
			vaccineID, err := env.ref(ctx, domain.TableVaccines)
			if err != nil {
				return nil, err
			}
			return env.Faker.Injection(Overrides{
				"service_id": serviceID,
				"doctor_id":  doctorID,
				"vaccine_id": vaccineID,
			})
		})
}

func bindPackageInjections(ctx context.Context, env *Env, count int) ([]map[string]any, error) {
	return bindOneToOne(ctx, env, count, domain.TablePkgInjections, domain.ServicePackageInjection, false,
		func(serviceID, _ int64) (map[string]any, error) {
			packageID, err := env.ref(ctx, domain.TablePackages)
			if err != nil {
				return nil, err
			}
			return env.Faker.PackageInjection(Overrides{
				"service_id": serviceID,
				"package_id": packageID,
			})
		})
}
