package models

// Department (departamento) is a geographic department.
type Department struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"notblank"`
}

func (d Department) Key() string { return d.ID }

func (d Department) WithKey(id string) Department {
	d.ID = id
	return d
}

func (d Department) SearchFields() []string { return []string{d.Name} }

func (d Department) DisplayName() string { return d.Name }

// City belongs to a department by free id.
type City struct {
	ID           string `json:"id"`
	Name         string `json:"name" validate:"notblank"`
	DepartmentID string `json:"departmentId"`
}

func (c City) Key() string { return c.ID }

func (c City) WithKey(id string) City {
	c.ID = id
	return c
}

func (c City) SearchFields() []string { return []string{c.Name} }

func (c City) DisplayName() string { return c.Name }
