package serviceorder

import (
	"context"

	"github.com/jhoicas/OrdemServico-api/internal/domain/repository"
	"github.com/jhoicas/OrdemServico-api/internal/domain/serviceorder"
)

// AllocateNumber reserva el siguiente número del año. Debe llamarse con un repo atado a la
// transacción que luego inserta la OS: el lock por año se libera recién en el commit, así que
// dos altas concurrentes nunca leen el mismo máximo.
func AllocateNumber(ctx context.Context, orders repository.ServiceOrderRepository, year int) (string, error) {
	if err := orders.LockYear(ctx, year); err != nil {
		return "", err
	}
	existing, err := orders.ListNumbersByYear(ctx, year)
	if err != nil {
		return "", err
	}
	return serviceorder.NextOrderNumber(year, existing), nil
}
