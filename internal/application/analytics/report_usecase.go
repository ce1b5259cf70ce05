package analytics

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/OrdemServico-api/internal/application/dto"
	appos "github.com/jhoicas/OrdemServico-api/internal/application/serviceorder"
	"github.com/jhoicas/OrdemServico-api/internal/domain/repository"
)

// ReportUseCase resumen financiero por período y cliente.
type ReportUseCase struct {
	orders repository.ServiceOrderRepository
}

func NewReportUseCase(orders repository.ServiceOrderRepository) *ReportUseCase {
	return &ReportUseCase{orders: orders}
}

// Generate filtra por fecha de emisión y cliente. Lo pagado suma en TotalRevenue,
// lo pendiente en PendingRevenue.
func (uc *ReportUseCase) Generate(ctx context.Context, q dto.ReportQuery) (*dto.ReportDTO, error) {
	from, err := appos.ParseDate(q.DateFrom)
	if err != nil {
		return nil, err
	}
	to, err := appos.ParseDate(q.DateTo)
	if err != nil {
		return nil, err
	}
	list, err := uc.orders.List(ctx, repository.OrderFilter{
		ClientID: q.ClientID,
		DateFrom: from,
		DateTo:   to,
	})
	if err != nil {
		return nil, err
	}

	report := &dto.ReportDTO{
		Orders:         make([]dto.OrderResponse, 0, len(list)),
		TotalRevenue:   decimal.Zero,
		PendingRevenue: decimal.Zero,
		TotalOrders:    len(list),
	}
	for _, d := range list {
		if d.Order.IsPaid {
			report.TotalRevenue = report.TotalRevenue.Add(d.Order.FinalTotal)
		} else {
			report.PendingRevenue = report.PendingRevenue.Add(d.Order.FinalTotal)
		}
		report.Orders = append(report.Orders, appos.ToOrderResponse(d))
	}
	report.TotalRevenue = report.TotalRevenue.Round(2)
	report.PendingRevenue = report.PendingRevenue.Round(2)
	return report, nil
}
