package models

// UserStatus is the account status of a user.
type UserStatus string

const (
	UserStatusActive   UserStatus = "Activo"
	UserStatusInactive UserStatus = "Inactivo"
)

// AdminRoleName is the role that grants access to the administrative screens.
const AdminRoleName = "Administrador"

// DefaultRoleName is given to self-registered users.
const DefaultRoleName = "Usuario"

// User is a console account. Password is only ever an input; the store keeps
// PasswordHash and responses go through Redacted.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name" validate:"notblank"`
	Email        string     `json:"email" validate:"notblank,email"`
	Password     string     `json:"password,omitempty"`
	PasswordHash string     `json:"passwordHash,omitempty"`
	Phone        string     `json:"phone"`
	Status       UserStatus `json:"status" validate:"notblank,oneof=Activo Inactivo"`
	RoleID       string     `json:"roleId"`
}

func (u User) Key() string { return u.ID }

func (u User) WithKey(id string) User {
	u.ID = id
	return u
}

func (u User) SearchFields() []string {
	return []string{u.Name, u.Email}
}

func (u User) DisplayName() string { return u.Name }

// Redacted returns the user without any password material.
func (u User) Redacted() User {
	u.Password = ""
	u.PasswordHash = ""
	return u
}

// IsActive reports whether the user may log in.
func (u User) IsActive() bool {
	return u.Status == UserStatusActive
}
