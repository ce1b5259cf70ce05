package entity

import "time"

// Roles válidos en el token. No se persisten: se derivan de IsAdmin.
const (
	RoleAdmin        = "admin"
	RoleProfissional = "profissional"
)

// User profesional del taller (mecánico, técnico o administrador).
type User struct {
	ID               string
	Username         string
	Email            string
	PasswordHash     string // bcrypt hash, nunca plano en dominio después de persistir
	ProfessionalName string // nombre que aparece en la OS impresa
	IsAdmin          bool
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Role devuelve el rol para el claim JWT.
func (u *User) Role() string {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleProfissional
}
