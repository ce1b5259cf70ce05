// Package analytics contiene el dashboard del taller y los reportes financieros por período.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/OrdemServico-api/internal/application/dto"
	appos "github.com/jhoicas/OrdemServico-api/internal/application/serviceorder"
	"github.com/jhoicas/OrdemServico-api/internal/domain/repository"
	"github.com/jhoicas/OrdemServico-api/pkg/logger"
)

const dashboardRecentOrders = 10 // OS en el widget de últimas órdenes

// DashboardCache guarda el resumen ya calculado durante un TTL corto.
type DashboardCache interface {
	Get(ctx context.Context) (*dto.DashboardDTO, bool, error)
	Set(ctx context.Context, summary *dto.DashboardDTO) error
}

// DashboardUseCase arma el resumen: últimas órdenes y contadores del día.
type DashboardUseCase struct {
	orders repository.ServiceOrderRepository
	cache  DashboardCache
	log    *logger.Logger
	now    func() time.Time
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(orders repository.ServiceOrderRepository, cache DashboardCache, log *logger.Logger) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{orders: orders, cache: cache, log: log, now: time.Now}
}

// GetSummary devuelve el resumen desde cache o lo recalcula.
//
// Dos consultas en paralelo:
//  1. Recent(10)   → RecentOrders
//  2. Stats(hoy)   → contadores y facturación del día
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardDTO, error) {
	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx)
		if err != nil {
			uc.log.Warn().Err(err).Msg("leer dashboard de cache")
		} else if ok {
			return cached, nil
		}
	}

	type recentResult struct {
		rows []*repository.OrderDetails
		err  error
	}
	type statsResult struct {
		stats *repository.OrderStats
		err   error
	}
	recentCh := make(chan recentResult, 1)
	statsCh := make(chan statsResult, 1)

	go func() {
		rows, err := uc.orders.Recent(ctx, dashboardRecentOrders)
		recentCh <- recentResult{rows, err}
	}()
	go func() {
		stats, err := uc.orders.Stats(ctx, uc.now())
		statsCh <- statsResult{stats, err}
	}()

	recent := <-recentCh
	stats := <-statsCh

	if recent.err != nil {
		return nil, fmt.Errorf("dashboard: órdenes recientes: %w", recent.err)
	}
	if stats.err != nil {
		return nil, fmt.Errorf("dashboard: contadores: %w", stats.err)
	}

	summary := &dto.DashboardDTO{
		RecentOrders:  make([]dto.OrderResponse, 0, len(recent.rows)),
		TotalOrders:   stats.stats.TotalOrders,
		PendingOrders: stats.stats.PendingOrders,
		UnpaidOrders:  stats.stats.UnpaidOrders,
		TodayRevenue:  stats.stats.TodayRevenue.Round(2),
	}
	for _, d := range recent.rows {
		summary.RecentOrders = append(summary.RecentOrders, appos.ToOrderResponse(d))
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, summary); err != nil {
			uc.log.Warn().Err(err).Msg("guardar dashboard en cache")
		}
	}
	return summary, nil
}
