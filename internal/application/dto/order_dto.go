package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaveOrderRequest body para crear (POST /api/orders) o editar (PUT /api/orders/:id) una OS.
// El cliente se identifica por nombre: si no existe se crea.
type SaveOrderRequest struct {
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone,omitempty"`

	// VehicleID vehículo ya registrado; si va vacío y hay placa o modelo se registra uno nuevo.
	VehicleID    string `json:"vehicle_id,omitempty"`
	LicensePlate string `json:"license_plate,omitempty"`
	CarModel     string `json:"car_model,omitempty"`

	LaborTotal          decimal.Decimal `json:"labor_total"`
	GeneralBudget       decimal.Decimal `json:"general_budget"`
	DiscountType        string          `json:"discount_type"` // none | percentage | fixed
	DiscountValue       decimal.Decimal `json:"discount_value"`
	SurchargePercentage decimal.Decimal `json:"surcharge_percentage"` // se limita a [0, 5]

	PaymentMethod        string `json:"payment_method,omitempty"`
	Status               string `json:"status,omitempty"`
	IsPaid               bool   `json:"is_paid"` // solo en edición
	InternalObservations string `json:"internal_observations,omitempty"`

	Items []OrderItemRequest `json:"items"`
}

// OrderItemRequest línea de la OS. Cantidad vacía = 1, precio vacío = 0; nombre vacío se ignora.
type OrderItemRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
}

// OrderResponse OS con detalle.
type OrderResponse struct {
	ID                   string              `json:"id"`
	Number               string              `json:"os_number"`
	IssueDate            string              `json:"issue_date"`
	ProfessionalID       string              `json:"professional_id"`
	ProfessionalName     string              `json:"professional_name,omitempty"`
	ClientID             string              `json:"client_id"`
	ClientName           string              `json:"client_name,omitempty"`
	ClientPhone          string              `json:"client_phone,omitempty"`
	VehicleID            string              `json:"vehicle_id,omitempty"`
	Vehicle              string              `json:"vehicle,omitempty"`
	MaterialTotal        decimal.Decimal     `json:"material_total"`
	LaborTotal           decimal.Decimal     `json:"labor_total"`
	GeneralBudget        decimal.Decimal     `json:"general_budget"`
	DiscountType         string              `json:"discount_type"`
	DiscountValue        decimal.Decimal     `json:"discount_value"`
	SurchargePercentage  decimal.Decimal     `json:"surcharge_percentage"`
	FinalTotal           decimal.Decimal     `json:"final_total"`
	Status               string              `json:"status"`
	PaymentMethod        string              `json:"payment_method,omitempty"`
	IsPaid               bool                `json:"is_paid"`
	PaymentDate          *time.Time          `json:"payment_date,omitempty"`
	InternalObservations string              `json:"internal_observations,omitempty"`
	ImageURL             string              `json:"image_url,omitempty"`
	Items                []OrderItemResponse `json:"items"`
	CreatedAt            time.Time           `json:"created_at"`
}

// OrderItemResponse línea de la OS en respuestas.
type OrderItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// OrderHistoryQuery filtros de GET /api/orders (fechas YYYY-MM-DD).
type OrderHistoryQuery struct {
	Search   string `query:"search"`
	Status   string `query:"status"`
	Payment  string `query:"payment"` // paid | unpaid
	DateFrom string `query:"date_from"`
	DateTo   string `query:"date_to"`
}
