package dto

import "github.com/shopspring/decimal"

// StandardServiceResponse servicio de catálogo.
type StandardServiceResponse struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	SuggestedPrice decimal.Decimal `json:"suggested_price"`
	Category       string          `json:"category,omitempty"`
	IsActive       bool            `json:"is_active"`
}
