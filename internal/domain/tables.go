package domain

// Entity-type keys. These double as table names; the processing order in a
// seed plan must list a key after every key it depends on.
const (
	TableUsers           = "users"
	TableEmployees       = "employees"
	TableBranches        = "branches"
	TableMobilizations   = "mobilizations"
	TablePets            = "pets"
	TableProducts        = "products"
	TableMedicines       = "medicines"
	TableVaccines        = "vaccines"
	TablePackages        = "vaccine_packages"
	TableBranchProducts  = "branch_products"
	TableBranchMedicines = "branch_medicines"
	TableBranchVaccines  = "branch_vaccines"
	TableBranchPackages  = "branch_packages"
	TablePromotions      = "promotions"
	TablePromoScopes     = "promotion_scopes"
	TablePromoApps       = "promotion_applications"
	TableInvoices        = "invoices"
	TableServices        = "services"
	TableMedicalExams    = "medical_exams"
	TableInjections      = "injections"
	TablePkgInjections   = "package_injections"
	TableProductSales    = "product_sales"
	TablePrescriptions   = "prescriptions"
	TableVaccineUses     = "vaccine_uses"
	TableAppointments    = "appointments"
)

// Dependencies maps each entity type to the entity types whose primary keys
// it references. Used to validate plan order and to resolve the dependency
// set of the single-entity seeding path.
var Dependencies = map[string][]string{
	TableUsers:           {},
	TableEmployees:       {},
	TableBranches:        {},
	TableMobilizations:   {TableEmployees, TableBranches},
	TablePets:            {TableUsers},
	TableProducts:        {},
	TableMedicines:       {},
	TableVaccines:        {},
	TablePackages:        {TableVaccines},
	TableBranchProducts:  {TableBranches, TableProducts},
	TableBranchMedicines: {TableBranches, TableMedicines},
	TableBranchVaccines:  {TableBranches, TableVaccines},
	TableBranchPackages:  {TableBranches, TablePackages},
	TablePromotions:      {},
	TablePromoScopes:     {TablePromotions},
	TablePromoApps:       {TablePromotions, TableBranches},
	TableInvoices:        {TableUsers, TableBranches},
	TableServices:        {TableInvoices},
	TableMedicalExams:    {TableServices, TableEmployees},
	TableInjections:      {TableServices, TableEmployees, TableVaccines},
	TablePkgInjections:   {TableServices, TablePackages},
	TableProductSales:    {TableServices, TableBranchProducts},
	TablePrescriptions:   {TableMedicalExams, TableBranchMedicines},
	TableVaccineUses:     {TableInjections, TableBranchVaccines},
	TableAppointments:    {TablePets, TableUsers, TableBranches, TableEmployees},
}

// KnownTables reports whether name is a seedable entity type.
func KnownTable(name string) bool {
	_, ok := Dependencies[name]
	return ok
}
