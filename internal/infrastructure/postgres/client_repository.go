package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/OrdemServico-api/internal/domain"
	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
	"github.com/jhoicas/OrdemServico-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, name, phone, created_at, updated_at`

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.Name, c.Phone, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	return r.findOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
}

// GetByName coincidencia exacta; con homónimos devuelve el más antiguo.
func (r *ClientRepo) GetByName(ctx context.Context, name string) (*entity.Client, error) {
	return r.findOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE name = $1 ORDER BY created_at LIMIT 1`, name)
}

// List clientes por nombre.
func (r *ClientRepo) List(ctx context.Context) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return collectClients(rows)
}

// Search clientes cuyo nombre contiene term, con sus vehículos.
func (r *ClientRepo) Search(ctx context.Context, term string, limit int) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+clientColumns+` FROM clients
		WHERE name ILIKE $1
		ORDER BY name
		LIMIT $2`, likePattern(term), limit)
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	clients, err := collectClients(rows)
	if err != nil || len(clients) == 0 {
		return clients, err
	}

	ids := make([]string, 0, len(clients))
	byID := make(map[string]*entity.Client, len(clients))
	for _, c := range clients {
		ids = append(ids, c.ID)
		byID[c.ID] = c
	}
	vrows, err := r.q.Query(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE client_id = ANY($1) ORDER BY license_plate`, ids)
	if err != nil {
		return nil, fmt.Errorf("search clients vehicles: %w", err)
	}
	defer vrows.Close()
	for vrows.Next() {
		v, err := scanVehicle(vrows)
		if err != nil {
			return nil, fmt.Errorf("scan vehicle: %w", err)
		}
		if c := byID[v.ClientID]; c != nil {
			c.Vehicles = append(c.Vehicles, v)
		}
	}
	return clients, vrows.Err()
}

// Update actualiza nombre y teléfono.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	tag, err := r.q.Exec(ctx, `UPDATE clients SET name = $2, phone = $3, updated_at = $4 WHERE id = $1`,
		c.ID, c.Name, c.Phone, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ClientRepo) findOne(ctx context.Context, query string, arg any) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func collectClients(rows pgx.Rows) ([]*entity.Client, error) {
	defer rows.Close()
	var out []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
