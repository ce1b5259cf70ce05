package entity

import "time"

// Client cliente del taller. Un cliente puede tener varios vehículos.
type Client struct {
	ID        string
	Name      string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time

	Vehicles []*Vehicle // cargado solo en consultas que lo piden (autocomplete)
}
