package repository

import (
	"context"

	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
)

// VehicleRepository define el puerto de persistencia para Vehicle.
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *entity.Vehicle) error
	GetByID(ctx context.Context, id string) (*entity.Vehicle, error)
	ListByClient(ctx context.Context, clientID string) ([]*entity.Vehicle, error)
}
