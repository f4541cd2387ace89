package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleTeamlead = "teamlead"
	RoleUser     = "user"
)

// Estados de cuenta.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa a quien registra tiempo o emite facturas.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Alias        string
	Role         string // admin, teamlead, user
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName usa el alias si existe.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Alias != "" {
		return u.Alias
	}
	return u.Name
}
