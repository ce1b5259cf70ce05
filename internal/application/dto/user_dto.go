package dto

import "time"

// RegisterRequest entrada para crear un profesional (solo admin).
type RegisterRequest struct {
	Username         string `json:"username" validate:"required,min=3,max=80"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=6"`
	ProfessionalName string `json:"professional_name" validate:"required,max=100"`
	IsAdmin          bool   `json:"is_admin"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	ProfessionalName string    `json:"professional_name"`
	IsAdmin          bool      `json:"is_admin"`
	Role             string    `json:"role"`
	CreatedAt        time.Time `json:"created_at"`
}

// LoginRequest entrada para login por nombre de usuario.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
