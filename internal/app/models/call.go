package models

// Call is a convocatoria, the central record of the catalog.
// Foreign keys are free ids with no referential check.
type Call struct {
	ID               string `json:"id"`
	Title            string `json:"title" validate:"notblank"`
	Description      string `json:"description" validate:"notblank"`
	Resources        string `json:"resources"`
	Link             string `json:"link"`
	OpenDate         string `json:"openDate" validate:"notblank"`
	CloseDate        string `json:"closeDate" validate:"notblank"`
	PageName         string `json:"pageName"`
	PageURL          string `json:"pageUrl"`
	Objective        string `json:"objective"`
	Notes            string `json:"notes"`
	InstitutionID    string `json:"institutionId"`
	LineID           string `json:"lineId"`
	TargetAudienceID string `json:"targetAudienceId"`
	InterestID       string `json:"interestId"`
	UserID           string `json:"userId"`
	ClickCount       int    `json:"clickCount"`
	ImageURL         string `json:"imageUrl"`
}

func (c Call) Key() string { return c.ID }

func (c Call) WithKey(id string) Call {
	c.ID = id
	return c
}

func (c Call) SearchFields() []string {
	return []string{c.Title, c.Description, c.PageName}
}

// CallStatus is the manually maintained status of a history entry.
type CallStatus string

const (
	CallStatusActive  CallStatus = "Activo"
	CallStatusClosed  CallStatus = "Cerrado"
	CallStatusPending CallStatus = "Pendiente"
)

// CallHistory is the historial copy of a call. It is maintained
// independently of Call and its status never changes on its own.
type CallHistory struct {
	ID               string     `json:"id"`
	Title            string     `json:"title" validate:"notblank"`
	Description      string     `json:"description"`
	Resources        string     `json:"resources"`
	Link             string     `json:"link"`
	OpenDate         string     `json:"openDate"`
	CloseDate        string     `json:"closeDate"`
	PageName         string     `json:"pageName"`
	PageURL          string     `json:"pageUrl"`
	Objective        string     `json:"objective"`
	Notes            string     `json:"notes"`
	InstitutionID    string     `json:"institutionId"`
	LineID           string     `json:"lineId"`
	TargetAudienceID string     `json:"targetAudienceId"`
	InterestID       string     `json:"interestId"`
	UserID           string     `json:"userId"`
	Status           CallStatus `json:"status" validate:"notblank,oneof=Activo Cerrado Pendiente"`
}

func (h CallHistory) Key() string { return h.ID }

func (h CallHistory) WithKey(id string) CallHistory {
	h.ID = id
	return h
}

func (h CallHistory) SearchFields() []string {
	return []string{h.Title, string(h.Status)}
}
