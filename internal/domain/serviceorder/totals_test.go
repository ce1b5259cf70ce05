package serviceorder_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/OrdemServico-api/internal/domain/serviceorder"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func fin(material, labor, budget string, dt serviceorder.DiscountType, discount, surcharge string) serviceorder.Financials {
	return serviceorder.Financials{
		MaterialTotal:       d(material),
		LaborTotal:          d(labor),
		GeneralBudget:       d(budget),
		DiscountType:        dt,
		DiscountValue:       d(discount),
		SurchargePercentage: d(surcharge),
	}
}

func TestComputeFinalTotal(t *testing.T) {
	cases := []struct {
		name string
		in   serviceorder.Financials
		want string
	}{
		{"sin ajustes suma material y mano de obra", fin("80", "50", "0", serviceorder.DiscountNone, "0", "0"), "130"},
		{"presupuesto mayor actúa como piso", fin("10", "10", "50", serviceorder.DiscountNone, "0", "0"), "50"},
		{"presupuesto menor no limita", fin("40", "40", "50", serviceorder.DiscountNone, "0", "0"), "80"},
		{"descuento porcentual", fin("100", "0", "0", serviceorder.DiscountPercentage, "10", "0"), "90"},
		{"descuento fijo", fin("100", "20", "0", serviceorder.DiscountFixed, "30", "0"), "90"},
		{"descuento fijo mayor que la base queda en cero", fin("10", "0", "0", serviceorder.DiscountFixed, "50", "0"), "0"},
		{"recargo después del descuento", fin("100", "0", "0", serviceorder.DiscountPercentage, "10", "5"), "94.5"},
		{"recargo sobre parcial negativo sigue en cero", fin("10", "0", "0", serviceorder.DiscountFixed, "50", "5"), "0"},
		{"descuento porcentual sobre el presupuesto", fin("10", "10", "200", serviceorder.DiscountPercentage, "25", "0"), "150"},
		{"tipo desconocido no descuenta", fin("100", "0", "0", serviceorder.DiscountType("bogus"), "40", "0"), "100"},
		{"descuento de 100% deja cero", fin("70", "30", "0", serviceorder.DiscountPercentage, "100", "5"), "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := serviceorder.ComputeFinalTotal(tc.in)
			assert.True(t, d(tc.want).Equal(got), "esperado %s, obtenido %s", tc.want, got)
		})
	}
}

// El orden descuento → recargo importa: invertirlo daría otro resultado.
func TestComputeFinalTotal_OrdenDescuentoRecargo(t *testing.T) {
	got := serviceorder.ComputeFinalTotal(fin("200", "0", "0", serviceorder.DiscountFixed, "100", "5"))
	assert.True(t, d("105").Equal(got), "obtenido %s", got)
}

func TestComputeFinalTotal_NuncaNegativo(t *testing.T) {
	for _, dt := range []serviceorder.DiscountType{serviceorder.DiscountNone, serviceorder.DiscountPercentage, serviceorder.DiscountFixed} {
		for _, disc := range []string{"0", "50", "150", "100000"} {
			for _, sur := range []string{"0", "2.5", "5"} {
				got := serviceorder.ComputeFinalTotal(fin("12.34", "7.66", "15", dt, disc, sur))
				assert.False(t, got.IsNegative(), "%s/%s/%s → %s", dt, disc, sur, got)
			}
		}
	}
}

func TestComputeFinalTotal_NoVuelveALimitarRecargo(t *testing.T) {
	got := serviceorder.ComputeFinalTotal(fin("100", "0", "0", serviceorder.DiscountNone, "0", "10"))
	assert.True(t, d("110").Equal(got))
}

func TestClampSurcharge(t *testing.T) {
	assert.True(t, d("0").Equal(serviceorder.ClampSurcharge(d("-1"))))
	assert.True(t, d("3.5").Equal(serviceorder.ClampSurcharge(d("3.5"))))
	assert.True(t, d("5").Equal(serviceorder.ClampSurcharge(d("12"))))
}

func TestParseDiscountType(t *testing.T) {
	assert.Equal(t, serviceorder.DiscountPercentage, serviceorder.ParseDiscountType("percentage"))
	assert.Equal(t, serviceorder.DiscountFixed, serviceorder.ParseDiscountType("fixed"))
	assert.Equal(t, serviceorder.DiscountNone, serviceorder.ParseDiscountType("none"))
	assert.Equal(t, serviceorder.DiscountNone, serviceorder.ParseDiscountType(""))
	assert.Equal(t, serviceorder.DiscountNone, serviceorder.ParseDiscountType("PERCENTAGE"))
}

func TestItemTotal(t *testing.T) {
	assert.True(t, d("60").Equal(serviceorder.ItemTotal(d("4"), d("15"))))
	assert.True(t, d("0").Equal(serviceorder.ItemTotal(d("1"), d("0"))))
}
