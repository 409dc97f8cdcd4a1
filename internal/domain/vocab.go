package domain

import (
	"regexp"
	"strings"
)

// Vocab is the set of enumerated label domains the factories draw from.
// Labels are the human-readable side; the schema package translates them
// into schema-native enum identifiers before persistence.
type Vocab struct {
	AppointmentStatuses []string
	InvoiceStatuses     []string
	EmployeeRoles       []string
	Genders             []string
	ServiceTypes        []string
	HealthStatuses      []string
	MembershipTiers     []string
	Species             []string
	CancelReasons       []string
}

const (
	RoleVeterinarian = "Veterinarian"

	StatusCancelled = "Cancelled"

	ServiceExamination      = "Examination"
	ServiceInjection        = "Injection"
	ServicePackageInjection = "Package Injection"
	ServiceProductSale      = "Product Sale"
	ServiceGrooming         = "Grooming"
)

// DefaultVocab returns the static label sets for the clinic domain.
func DefaultVocab() *Vocab {
	return &Vocab{
		AppointmentStatuses: []string{"Scheduled", "Confirmed", "Completed", StatusCancelled},
		InvoiceStatuses:     []string{"Pending", "Paid", StatusCancelled},
		EmployeeRoles:       []string{RoleVeterinarian, "Receptionist", "Groomer", "Manager", "Technician"},
		Genders:             []string{"Male", "Female"},
		ServiceTypes: []string{
			ServiceExamination,
			ServiceInjection,
			ServicePackageInjection,
			ServiceProductSale,
			ServiceGrooming,
		},
		HealthStatuses:  []string{"Healthy", "Under Treatment", "Recovering", "Chronic"},
		MembershipTiers: []string{"Standard", "Silver", "Gold", "Platinum"},
		Species: []string{
			"Dog", "Cat", "Rabbit", "Hamster", "Parrot", "Turtle",
		},
		CancelReasons: []string{
			"Owner requested reschedule",
			"Pet condition improved",
			"Doctor unavailable",
			"Duplicate booking",
			"Owner no-show",
		},
	}
}

var nameCharClass = regexp.MustCompile(`[^\p{L} .'-]`)

// SanitizeName strips characters outside the name character class and
// collapses runs of whitespace. Labels for people, pets and breeds go
// through this before they reach a factory record.
func SanitizeName(s string) string {
	s = nameCharClass.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}
