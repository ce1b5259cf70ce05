package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/OrdemServico-api/internal/domain/serviceorder"
)

// Estados de la orden de servicio (texto tal como lo ve el usuario).
const (
	OrderStatusInProgress = "Em andamento"
	OrderStatusFinished   = "Finalizado"
	OrderStatusCancelled  = "Cancelado"
)

// ValidOrderStatus indica si s es uno de los estados conocidos.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusInProgress, OrderStatusFinished, OrderStatusCancelled:
		return true
	}
	return false
}

// ServiceOrder orden de servicio (OS): un trabajo sobre el vehículo de un cliente.
type ServiceOrder struct {
	ID             string
	Number         string // OS-AAAA-NNNN, único
	IssueDate      time.Time
	ProfessionalID string
	ClientID       string
	VehicleID      *string

	MaterialTotal       decimal.Decimal
	LaborTotal          decimal.Decimal
	GeneralBudget       decimal.Decimal
	DiscountType        serviceorder.DiscountType
	DiscountValue       decimal.Decimal
	SurchargePercentage decimal.Decimal // siempre dentro de [0, 5]
	FinalTotal          decimal.Decimal

	Status               string
	PaymentMethod        string
	IsPaid               bool
	PaymentDate          *time.Time
	InternalObservations string
	ImageKey             string

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []*ServiceOrderItem
}

// Financials extrae los campos que intervienen en el total.
func (o *ServiceOrder) Financials() serviceorder.Financials {
	return serviceorder.Financials{
		MaterialTotal:       o.MaterialTotal,
		LaborTotal:          o.LaborTotal,
		GeneralBudget:       o.GeneralBudget,
		DiscountType:        o.DiscountType,
		DiscountValue:       o.DiscountValue,
		SurchargePercentage: o.SurchargePercentage,
	}
}

// RecalculateTotals suma los ítems en MaterialTotal y recalcula FinalTotal.
func (o *ServiceOrder) RecalculateTotals() {
	material := decimal.Zero
	for _, it := range o.Items {
		material = material.Add(it.TotalPrice)
	}
	o.MaterialTotal = material
	o.SurchargePercentage = serviceorder.ClampSurcharge(o.SurchargePercentage)
	o.FinalTotal = serviceorder.ComputeFinalTotal(o.Financials())
}

// SetPaid marca o desmarca el pago. La fecha de pago se fija solo en la primera marca.
func (o *ServiceOrder) SetPaid(paid bool, now time.Time) {
	if paid {
		if !o.IsPaid {
			o.IsPaid = true
			o.PaymentDate = &now
		}
		return
	}
	o.IsPaid = false
	o.PaymentDate = nil
}
