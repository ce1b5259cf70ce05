package repository

import (
	"context"

	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	// GetByName búsqueda exacta por nombre (el formulario de OS identifica al cliente por nombre).
	GetByName(ctx context.Context, name string) (*entity.Client, error)
	List(ctx context.Context) ([]*entity.Client, error)
	// Search busca por nombre (ILIKE) e incluye los vehículos de cada cliente.
	Search(ctx context.Context, term string, limit int) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
}
