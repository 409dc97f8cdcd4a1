package seeder

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Justaguy666/PetCareX-sub000/internal/domain"
)

// Overrides are caller-pinned field values; they take precedence over
// anything a factory generates.
type Overrides map[string]any

// Faker produces one plausible record per call. Field-level domain rules
// (name character class, numeric ranges, valid enum labels) are enforced
// here; cross-entity invariants belong to the specialized generators.
type Faker struct {
	rand    *rand.Rand
	vocab   *domain.Vocab
	unique  *UniqueRegistry
	retries int
	now     time.Time
	counter int
}

func NewFaker(seed int64, vocab *domain.Vocab, unique *UniqueRegistry, retries int) *Faker {
	if retries <= 0 {
		retries = 10000
	}
	return &Faker{
		rand:    rand.New(rand.NewSource(seed)),
		vocab:   vocab,
		unique:  unique,
		retries: retries,
		now:     time.Now().UTC(),
	}
}

// SetNow pins the generation clock. Tests only.
func (f *Faker) SetNow(now time.Time) { f.now = now }

var firstNames = []string{
	"An", "Binh", "Chi", "Dung", "Giang", "Hanh", "Hieu", "Khanh", "Lan",
	"Linh", "Minh", "Nam", "Ngoc", "Phuong", "Quan", "Thao", "Trang", "Tuan",
}

var lastNames = []string{
	"Nguyen", "Tran", "Le", "Pham", "Hoang", "Vu", "Dang", "Bui", "Do", "Ho",
}

var petNames = []string{
	"Milo", "Luna", "Coco", "Bông", "Mèo", "Rex", "Bella", "Susu", "Kiki", "Max",
}

var breedsBySpecies = map[string][]string{
	"Dog":     {"Labrador", "Poodle", "Corgi", "Husky", "Phu Quoc Ridgeback"},
	"Cat":     {"British Shorthair", "Siamese", "Persian", "Tabby"},
	"Rabbit":  {"Mini Lop", "Dutch", "Lionhead"},
	"Hamster": {"Syrian", "Dwarf"},
	"Parrot":  {"Cockatiel", "Budgerigar"},
	"Turtle":  {"Red-eared Slider"},
}

var streets = []string{
	"Nguyen Trai", "Le Loi", "Tran Hung Dao", "Hai Ba Trung", "Ly Thuong Kiet",
	"Pham Ngu Lao", "Vo Van Tan", "Cach Mang Thang Tam",
}

func (f *Faker) pick(values []string) string {
	return values[f.rand.Intn(len(values))]
}

func (f *Faker) fullName() string {
	return domain.SanitizeName(f.pick(lastNames) + " " + f.pick(firstNames))
}

// drawUnique retries gen until the value is fresh in the named pool. The
// retry cap turns an over-requested run into a typed fatal error instead of
// an endless loop.
func (f *Faker) drawUnique(pool string, gen func() string) (string, error) {
	for i := 0; i < f.retries; i++ {
		v := gen()
		if f.unique.Claim(pool, v) {
			return v, nil
		}
	}
	return "", &GenerationExhaustedError{Field: pool, Retries: f.retries}
}

func (f *Faker) apply(record map[string]any, ov Overrides) map[string]any {
	for k, v := range ov {
		record[k] = v
	}
	return record
}

func (f *Faker) pastDate(minYears, maxYears int) time.Time {
	years := minYears + f.rand.Intn(maxYears-minYears+1)
	days := f.rand.Intn(365)
	return f.now.AddDate(-years, 0, -days).Truncate(24 * time.Hour)
}

// User generates a person record with run-wide unique email, phone,
// national ID and username.
func (f *Faker) User(ov Overrides) (map[string]any, error) {
	email, err := f.drawUnique("email", func() string {
		f.counter++
		return fmt.Sprintf("user%d.%d@petcarex.vn", f.counter, f.rand.Intn(100000))
	})
	if err != nil {
		return nil, err
	}
	phone, err := f.drawUnique("phone", func() string {
		return fmt.Sprintf("09%08d", f.rand.Intn(100000000))
	})
	if err != nil {
		return nil, err
	}
	nationalID, err := f.drawUnique("national_id", func() string {
		return fmt.Sprintf("%012d", f.rand.Int63n(1000000000000))
	})
	if err != nil {
		return nil, err
	}
	username, err := f.drawUnique("username", func() string {
		return fmt.Sprintf("member_%06d", f.rand.Intn(1000000))
	})
	if err != nil {
		return nil, err
	}

	return f.apply(map[string]any{
		"full_name":   f.fullName(),
		"email":       email,
		"phone":       phone,
		"national_id": nationalID,
		"username":    username,
		"tier":        f.pick(f.vocab.MembershipTiers),
	}, ov), nil
}

func (f *Faker) Employee(ov Overrides) (map[string]any, error) {
	salary := decimal.NewFromInt(int64(8 + f.rand.Intn(25))).Mul(decimal.NewFromInt(1000000))
	return f.apply(map[string]any{
		"full_name":   f.fullName(),
		"birth_date":  f.pastDate(22, 55),
		"gender":      f.pick(f.vocab.Genders),
		"role":        f.pick(f.vocab.EmployeeRoles),
		"base_salary": salary,
	}, ov), nil
}

func (f *Faker) Branch(ov Overrides) (map[string]any, error) {
	phone, err := f.drawUnique("branch_phone", func() string {
		return fmt.Sprintf("028%07d", f.rand.Intn(10000000))
	})
	if err != nil {
		return nil, err
	}
	return f.apply(map[string]any{
		"name":       fmt.Sprintf("PetCareX %s", f.pick(streets)),
		"address":    fmt.Sprintf("%d %s Street, District %d", 1+f.rand.Intn(400), f.pick(streets), 1+f.rand.Intn(12)),
		"phone":      phone,
		"open_time":  "08:00",
		"close_time": "21:00",
	}, ov), nil
}

func (f *Faker) Mobilization(ov Overrides) (map[string]any, error) {
	start := f.now.AddDate(0, -f.rand.Intn(24), 0).Truncate(24 * time.Hour)
	record := map[string]any{
		"start_date": start,
		"end_date":   nil,
	}
	// Roughly a third of assignments are already closed.
	if f.rand.Intn(3) == 0 {
		record["end_date"] = start.AddDate(0, 1+f.rand.Intn(6), 0)
	}
	return f.apply(record, ov), nil
}

func (f *Faker) Pet(ov Overrides) (map[string]any, error) {
	species := f.pick(f.vocab.Species)
	breeds := breedsBySpecies[species]
	breed := species
	if len(breeds) > 0 {
		breed = f.pick(breeds)
	}
	return f.apply(map[string]any{
		"name":          domain.SanitizeName(f.pick(petNames)),
		"species":       species,
		"breed":         domain.SanitizeName(breed),
		"birth_date":    f.pastDate(0, 12),
		"health_status": f.pick(f.vocab.HealthStatuses),
	}, ov), nil
}

func (f *Faker) catalogItem(prefix string, ov Overrides) (map[string]any, error) {
	price := decimal.NewFromInt(int64(2 + f.rand.Intn(80))).Mul(decimal.NewFromInt(10000))
	return f.apply(map[string]any{
		"name":       fmt.Sprintf("%s %03d", prefix, 1+f.rand.Intn(999)),
		"unit_price": price,
	}, ov), nil
}

func (f *Faker) Product(ov Overrides) (map[string]any, error) {
	return f.catalogItem("Product", ov)
}

func (f *Faker) Medicine(ov Overrides) (map[string]any, error) {
	return f.catalogItem("Medicine", ov)
}

func (f *Faker) Vaccine(ov Overrides) (map[string]any, error) {
	return f.catalogItem("Vaccine", ov)
}

func (f *Faker) VaccinePackage(ov Overrides) (map[string]any, error) {
	record, err := f.catalogItem("Vaccine Package", ov)
	if err != nil {
		return nil, err
	}
	if _, pinned := ov["dose_count"]; !pinned {
		record["dose_count"] = 2 + f.rand.Intn(4)
	}
	return record, nil
}

func (f *Faker) Inventory(ov Overrides) (map[string]any, error) {
	return f.apply(map[string]any{
		"quantity": f.rand.Intn(200),
	}, ov), nil
}

func (f *Faker) Promotion(ov Overrides) (map[string]any, error) {
	return f.apply(map[string]any{
		"name":        fmt.Sprintf("Promo %04d", 1+f.rand.Intn(9999)),
		"description": "Seasonal clinic promotion",
	}, ov), nil
}

func (f *Faker) PromotionScope(ov Overrides) (map[string]any, error) {
	return f.apply(map[string]any{
		"service_type":     f.pick(f.vocab.ServiceTypes),
		"discount_percent": decimal.NewFromInt(int64(f.rand.Intn(80))),
	}, ov), nil
}

func (f *Faker) PromotionApplication(ov Overrides) (map[string]any, error) {
	start := f.now.AddDate(0, 0, f.rand.Intn(60)).Truncate(24 * time.Hour)
	return f.apply(map[string]any{
		"start_at": start,
		"end_at":   start.AddDate(0, 0, 7+f.rand.Intn(21)),
	}, ov), nil
}

func (f *Faker) Invoice(ov Overrides) (map[string]any, error) {
	total := decimal.NewFromInt(int64(5 + f.rand.Intn(300))).Mul(decimal.NewFromInt(10000))
	record := map[string]any{
		"total":      total,
		"status":     f.pick(f.vocab.InvoiceStatuses),
		"created_at": f.now.AddDate(0, 0, -f.rand.Intn(180)),
		// Ratings exist in the schema but bulk-created invoices must not
		// carry them; the validator strips these before persistence.
		"rating":         5,
		"rating_comment": "auto",
	}
	return f.apply(record, ov), nil
}

func (f *Faker) Service(ov Overrides) (map[string]any, error) {
	price := decimal.NewFromInt(int64(5 + f.rand.Intn(100))).Mul(decimal.NewFromInt(10000))
	return f.apply(map[string]any{
		"service_type": f.pick(f.vocab.ServiceTypes),
		"price":        price,
	}, ov), nil
}

func (f *Faker) MedicalExam(ov Overrides) (map[string]any, error) {
	diagnoses := []string{
		"Routine checkup, no findings",
		"Mild skin irritation",
		"Ear infection, treatment prescribed",
		"Digestive upset, diet adjustment",
		"Dental scaling recommended",
	}
	return f.apply(map[string]any{
		"diagnosis": f.pick(diagnoses),
	}, ov), nil
}

func (f *Faker) Injection(ov Overrides) (map[string]any, error) {
	return f.apply(map[string]any{}, ov), nil
}

func (f *Faker) PackageInjection(ov Overrides) (map[string]any, error) {
	return f.apply(map[string]any{
		"dose_number": 1 + f.rand.Intn(3),
	}, ov), nil
}

func (f *Faker) ProductSale(ov Overrides) (map[string]any, error) {
	return f.apply(map[string]any{
		"quantity": 1 + f.rand.Intn(3),
	}, ov), nil
}

func (f *Faker) Prescription(ov Overrides) (map[string]any, error) {
	return f.apply(map[string]any{
		"dosage": fmt.Sprintf("%d pill(s) per day for %d days", 1+f.rand.Intn(3), 3+f.rand.Intn(11)),
	}, ov), nil
}

func (f *Faker) VaccineUse(ov Overrides) (map[string]any, error) {
	return f.apply(map[string]any{}, ov), nil
}

// Appointment fills the field-level parts of an appointment; the scheduler
// owns pet/doctor/branch selection and the timestamp.
func (f *Faker) Appointment(ov Overrides) (map[string]any, error) {
	status := f.pick(f.vocab.AppointmentStatuses)
	record := map[string]any{
		"service_type":  f.pick(f.vocab.ServiceTypes),
		"status":        status,
		"cancel_reason": nil,
	}
	record = f.apply(record, ov)

	// Cancellation reason is mandatory iff the status denotes cancellation.
	if record["status"] == domain.StatusCancelled {
		if record["cancel_reason"] == nil {
			record["cancel_reason"] = f.pick(f.vocab.CancelReasons)
		}
	} else {
		record["cancel_reason"] = nil
	}
	return record, nil
}
