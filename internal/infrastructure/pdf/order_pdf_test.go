package pdf

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
	"github.com/jhoicas/OrdemServico-api/internal/domain/repository"
	"github.com/jhoicas/OrdemServico-api/internal/domain/serviceorder"
)

type failingImages struct{ calls int }

func (f *failingImages) Download(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	return nil, errors.New("sin storage")
}

func sampleDetails() *repository.OrderDetails {
	o := &entity.ServiceOrder{
		Number:              "OS-2024-0001",
		IssueDate:           time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		LaborTotal:          decimal.NewFromInt(50),
		DiscountType:        serviceorder.DiscountPercentage,
		DiscountValue:       decimal.NewFromInt(10),
		SurchargePercentage: decimal.NewFromInt(2),
		Status:              entity.OrderStatusInProgress,
		PaymentMethod:       "PIX",
		Items: []*entity.ServiceOrderItem{
			{Name: "Óleo 5W30", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(20), TotalPrice: decimal.NewFromInt(80)},
			{Name: "Filtro", Quantity: decimal.RequireFromString("1.5"), UnitPrice: decimal.NewFromInt(10), TotalPrice: decimal.NewFromInt(15)},
		},
	}
	o.RecalculateTotals()
	return &repository.OrderDetails{
		Order:        o,
		Client:       &entity.Client{Name: "João", Phone: "1199999"},
		Vehicle:      &entity.Vehicle{LicensePlate: "ABC1234", CarModel: "Gol"},
		Professional: &entity.User{ProfessionalName: "Carlos"},
	}
}

func TestGenerateOrderPDF_GeneraDocumento(t *testing.T) {
	imgs := &failingImages{}
	g := NewOrderPDFGenerator(imgs)

	out, err := g.GenerateOrderPDF(context.Background(), sampleDetails(), entity.NewDefaultCompanyInfo("1"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	// Los defaults son .svg: no se intenta descargar lo que no se puede embeber.
	assert.Equal(t, 0, imgs.calls)
}

func TestGenerateOrderPDF_SinItemsNiVehiculo(t *testing.T) {
	d := sampleDetails()
	d.Order.Items = nil
	d.Vehicle = nil
	d.Order.SetPaid(true, time.Now())

	out, err := NewOrderPDFGenerator(nil).GenerateOrderPDF(context.Background(), d, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateOrderPDF_ImagenQueFallaNoRompe(t *testing.T) {
	imgs := &failingImages{}
	company := entity.NewDefaultCompanyInfo("1")
	company.LogoKey = "logo_empresa.png"
	company.PixQRKey = "pix_qr.jpg"

	out, err := NewOrderPDFGenerator(imgs).GenerateOrderPDF(context.Background(), sampleDetails(), company)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Equal(t, 2, imgs.calls)
}

func TestGenerateOrderPDF_OrdenVacia(t *testing.T) {
	_, err := NewOrderPDFGenerator(nil).GenerateOrderPDF(context.Background(), &repository.OrderDetails{}, nil)
	assert.Error(t, err)
}

func TestQuantity(t *testing.T) {
	assert.Equal(t, "2", quantity(&entity.ServiceOrderItem{Quantity: decimal.NewFromInt(2)}))
	assert.Equal(t, "1,50", quantity(&entity.ServiceOrderItem{Quantity: decimal.RequireFromString("1.5")}))
}
