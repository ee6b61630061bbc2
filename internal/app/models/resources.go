package models

// Resource names, used as REST path segments, store names and event topics.
const (
	ResourceCalls           = "calls"
	ResourceCallHistory     = "call-history"
	ResourceCompanies       = "companies"
	ResourceUsers           = "users"
	ResourceCities          = "cities"
	ResourceDepartments     = "departments"
	ResourceInterests       = "interests"
	ResourceRequirements    = "requirements"
	ResourceRoles           = "roles"
	ResourceLines           = "lines"
	ResourceTargetAudiences = "targetAudiences"
	ResourceInstitutions    = "institutions"
	ResourceTypes           = "types"
	ResourceChecks          = "checks"
)

// Resources lists every resource in menu order.
var Resources = []string{
	ResourceCalls,
	ResourceCallHistory,
	ResourceCompanies,
	ResourceUsers,
	ResourceCities,
	ResourceDepartments,
	ResourceInterests,
	ResourceRequirements,
	ResourceRoles,
	ResourceLines,
	ResourceTargetAudiences,
	ResourceInstitutions,
	ResourceTypes,
	ResourceChecks,
}
