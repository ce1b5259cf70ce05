package entity

import "time"

// Vehicle vehículo de un cliente.
type Vehicle struct {
	ID           string
	ClientID     string
	LicensePlate string
	CarModel     string
	Year         *int // opcional
	Color        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Label texto corto "PLACA - Modelo" usado en PDF y CSV.
func (v *Vehicle) Label() string {
	if v == nil {
		return ""
	}
	if v.CarModel == "" {
		return v.LicensePlate
	}
	return v.LicensePlate + " - " + v.CarModel
}
