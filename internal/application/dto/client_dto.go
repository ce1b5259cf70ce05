package dto

// ClientResponse cliente con sus vehículos (autocomplete y listado).
type ClientResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Phone    string            `json:"phone"`
	Vehicles []VehicleResponse `json:"vehicles,omitempty"`
}

// CreateVehicleRequest body para POST /api/vehicles.
type CreateVehicleRequest struct {
	ClientID     string `json:"client_id"`
	LicensePlate string `json:"license_plate"`
	CarModel     string `json:"car_model,omitempty"`
	Year         *int   `json:"year,omitempty"`
	Color        string `json:"color,omitempty"`
}

// VehicleResponse vehículo en respuestas.
type VehicleResponse struct {
	ID           string `json:"id"`
	LicensePlate string `json:"license_plate"`
	CarModel     string `json:"car_model"`
	Year         *int   `json:"year,omitempty"`
	Color        string `json:"color,omitempty"`
}
