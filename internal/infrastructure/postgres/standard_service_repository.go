package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
	"github.com/jhoicas/OrdemServico-api/internal/domain/repository"
)

var _ repository.StandardServiceRepository = (*StandardServiceRepo)(nil)

// StandardServiceRepo catálogo de servicios estándar.
type StandardServiceRepo struct {
	q Querier
}

func NewStandardServiceRepository(q Querier) *StandardServiceRepo {
	return &StandardServiceRepo{q: q}
}

const serviceColumns = `id, name, description, suggested_price, category, is_active, created_at`

func (r *StandardServiceRepo) Create(ctx context.Context, s *entity.StandardService) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO standard_services (`+serviceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.Description, s.SuggestedPrice, s.Category, s.IsActive, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert standard service: %w", err)
	}
	return nil
}

func (r *StandardServiceRepo) List(ctx context.Context) ([]*entity.StandardService, error) {
	rows, err := r.q.Query(ctx, `SELECT `+serviceColumns+` FROM standard_services ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("list standard services: %w", err)
	}
	return collectServices(rows)
}

// SearchActive servicios activos por nombre (ILIKE).
func (r *StandardServiceRepo) SearchActive(ctx context.Context, term string, limit int) ([]*entity.StandardService, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+serviceColumns+` FROM standard_services
		WHERE is_active AND name ILIKE $1
		ORDER BY name
		LIMIT $2`, likePattern(term), limit)
	if err != nil {
		return nil, fmt.Errorf("search standard services: %w", err)
	}
	return collectServices(rows)
}

func collectServices(rows pgx.Rows) ([]*entity.StandardService, error) {
	defer rows.Close()
	var out []*entity.StandardService
	for rows.Next() {
		var s entity.StandardService
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.SuggestedPrice, &s.Category, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan standard service: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
