package models

// Lookup records: an id plus a name and an optional description.

// Institution (entidad) issues calls.
type Institution struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

func (i Institution) Key() string { return i.ID }

func (i Institution) WithKey(id string) Institution {
	i.ID = id
	return i
}

func (i Institution) SearchFields() []string { return []string{i.Name, i.Description} }

func (i Institution) DisplayName() string { return i.Name }

// Line (línea) is a thematic category of calls.
type Line struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description"`
}

func (l Line) Key() string { return l.ID }

func (l Line) WithKey(id string) Line {
	l.ID = id
	return l
}

func (l Line) SearchFields() []string { return []string{l.Name, l.Description} }

func (l Line) DisplayName() string { return l.Name }

// TargetAudience (público objetivo) is who a call is aimed at.
type TargetAudience struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description"`
}

func (a TargetAudience) Key() string { return a.ID }

func (a TargetAudience) WithKey(id string) TargetAudience {
	a.ID = id
	return a
}

func (a TargetAudience) SearchFields() []string { return []string{a.Name, a.Description} }

func (a TargetAudience) DisplayName() string { return a.Name }

// Interest is a topic users and calls are tagged with.
type Interest struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description"`
}

func (i Interest) Key() string { return i.ID }

func (i Interest) WithKey(id string) Interest {
	i.ID = id
	return i
}

func (i Interest) SearchFields() []string { return []string{i.Name, i.Description} }

func (i Interest) DisplayName() string { return i.Name }

// Requirement (requisito de selección) is checked against companies.
type Requirement struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description"`
}

func (r Requirement) Key() string { return r.ID }

func (r Requirement) WithKey(id string) Requirement {
	r.ID = id
	return r
}

func (r Requirement) SearchFields() []string { return []string{r.Name, r.Description} }

func (r Requirement) DisplayName() string { return r.Name }

// Role (rol) of a user.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description"`
}

func (r Role) Key() string { return r.ID }

func (r Role) WithKey(id string) Role {
	r.ID = id
	return r
}

func (r Role) SearchFields() []string { return []string{r.Name, r.Description} }

func (r Role) DisplayName() string { return r.Name }

// Type (tipo) classifies calls.
type Type struct {
	ID          string `json:"id"`
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description"`
}

func (t Type) Key() string { return t.ID }

func (t Type) WithKey(id string) Type {
	t.ID = id
	return t
}

func (t Type) SearchFields() []string { return []string{t.Name, t.Description} }

func (t Type) DisplayName() string { return t.Name }
