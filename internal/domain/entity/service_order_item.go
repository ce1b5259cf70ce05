package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ServiceOrderItem línea de material/servicio de la OS.
type ServiceOrderItem struct {
	ID             string
	ServiceOrderID string
	Name           string
	Description    string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	TotalPrice     decimal.Decimal
	CreatedAt      time.Time
}
