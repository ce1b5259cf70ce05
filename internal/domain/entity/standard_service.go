package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StandardService servicio de catálogo con precio sugerido (autocompleta ítems de la OS).
type StandardService struct {
	ID             string
	Name           string
	Description    string
	SuggestedPrice decimal.Decimal
	Category       string
	IsActive       bool
	CreatedAt      time.Time
}
