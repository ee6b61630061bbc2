package models

// Company (empresa) is a wide flat record of contact and legal data.
type Company struct {
	ID               string `json:"id"`
	Name             string `json:"name" validate:"notblank"`
	TaxID            string `json:"taxId" validate:"notblank"`
	Address          string `json:"address"`
	City             string `json:"city"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Website          string `json:"website"`
	ContactName      string `json:"contactName"`
	ContactPhone     string `json:"contactPhone"`
	ContactEmail     string `json:"contactEmail"`
	LegalRepName     string `json:"legalRepName"`
	LegalRepDocument string `json:"legalRepDocument"`
	LegalRepEmail    string `json:"legalRepEmail"`
	LegalRepPhone    string `json:"legalRepPhone"`
	EconomicActivity string `json:"economicActivity"`
	EmployeeCount    int    `json:"employeeCount"`
}

func (c Company) Key() string { return c.ID }

func (c Company) WithKey(id string) Company {
	c.ID = id
	return c
}

func (c Company) SearchFields() []string {
	return []string{c.Name, c.TaxID, c.City, c.ContactName}
}

func (c Company) DisplayName() string { return c.Name }

// Check (chequeo) records whether a company passed a selection requirement.
type Check struct {
	ID            string `json:"id"`
	CompanyID     string `json:"companyId" validate:"notblank"`
	RequirementID string `json:"requirementId" validate:"notblank"`
	Passed        bool   `json:"passed"`
	Notes         string `json:"notes"`
	CheckedAt     string `json:"checkedAt"`
}

func (c Check) Key() string { return c.ID }

func (c Check) WithKey(id string) Check {
	c.ID = id
	return c
}

func (c Check) SearchFields() []string {
	return []string{c.CompanyID, c.RequirementID, c.Notes}
}
