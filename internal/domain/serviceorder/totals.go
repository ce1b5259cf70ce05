// Package serviceorder contiene las reglas de negocio puras de la orden de servicio:
// cálculo del total final (descuento, recargo, presupuesto general) y numeración
// secuencial anual (OS-AAAA-NNNN). No tiene dependencias de infraestructura.
package serviceorder

import "github.com/shopspring/decimal"

// DiscountType tipo de descuento aplicado a la orden.
type DiscountType string

const (
	DiscountNone       DiscountType = "none"
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// MaxSurchargePercentage tope del recargo (acréscimo) sobre el total con descuento.
var MaxSurchargePercentage = decimal.NewFromInt(5)

var hundred = decimal.NewFromInt(100)

// ParseDiscountType normaliza el valor recibido del formulario.
// Cualquier valor desconocido se trata como "none".
func ParseDiscountType(s string) DiscountType {
	switch DiscountType(s) {
	case DiscountPercentage:
		return DiscountPercentage
	case DiscountFixed:
		return DiscountFixed
	default:
		return DiscountNone
	}
}

// ClampSurcharge limita el porcentaje de recargo a [0, 5].
// Se aplica al asignar el campo; ComputeFinalTotal no vuelve a limitarlo.
func ClampSurcharge(p decimal.Decimal) decimal.Decimal {
	if p.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	if p.GreaterThan(MaxSurchargePercentage) {
		return MaxSurchargePercentage
	}
	return p
}

// Financials campos financieros de la orden que intervienen en el total.
type Financials struct {
	MaterialTotal       decimal.Decimal
	LaborTotal          decimal.Decimal
	GeneralBudget       decimal.Decimal
	DiscountType        DiscountType
	DiscountValue       decimal.Decimal
	SurchargePercentage decimal.Decimal
}

// ComputeFinalTotal calcula el total a pagar. Orden estricto:
//
//	base = material + mano de obra (el presupuesto general actúa como piso)
//	descuento (porcentaje sobre base o valor fijo sin tope)
//	recargo porcentual sobre el valor con descuento
//	resultado nunca negativo
//
// Un descuento fijo mayor que la base deja el parcial negativo; el recargo se
// aplica igual sobre ese parcial y solo el piso final en cero lo corrige.
func ComputeFinalTotal(f Financials) decimal.Decimal {
	base := f.MaterialTotal.Add(f.LaborTotal)
	if f.GeneralBudget.GreaterThan(base) {
		base = f.GeneralBudget
	}

	discount := decimal.Zero
	switch f.DiscountType {
	case DiscountPercentage:
		discount = base.Mul(f.DiscountValue.Div(hundred))
	case DiscountFixed:
		discount = f.DiscountValue
	}

	afterDiscount := base.Sub(discount)
	surcharge := afterDiscount.Mul(f.SurchargePercentage.Div(hundred))
	total := afterDiscount.Add(surcharge)

	if total.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return total
}

// ItemTotal total de una línea: cantidad × precio unitario.
func ItemTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}
