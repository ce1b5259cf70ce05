package repository

import (
	"context"

	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
)

// StandardServiceRepository catálogo de servicios estándar.
type StandardServiceRepository interface {
	Create(ctx context.Context, svc *entity.StandardService) error
	List(ctx context.Context) ([]*entity.StandardService, error)
	SearchActive(ctx context.Context, term string, limit int) ([]*entity.StandardService, error)
}
