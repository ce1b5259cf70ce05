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

var _ repository.CompanyInfoRepository = (*CompanyInfoRepo)(nil)

// CompanyInfoRepo ficha del taller. La tabla admite una sola fila (columna singleton).
type CompanyInfoRepo struct {
	q Querier
}

func NewCompanyInfoRepository(q Querier) *CompanyInfoRepo {
	return &CompanyInfoRepo{q: q}
}

// Get devuelve la ficha o nil, nil si todavía no existe.
func (r *CompanyInfoRepo) Get(ctx context.Context) (*entity.CompanyInfo, error) {
	var c entity.CompanyInfo
	err := r.q.QueryRow(ctx, `
		SELECT id, company_name, company_phone, company_address, company_cnpj, logo_key, pix_qr_key
		FROM company_info LIMIT 1`).Scan(
		&c.ID, &c.Name, &c.Phone, &c.Address, &c.CNPJ, &c.LogoKey, &c.PixQRKey,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company info: %w", err)
	}
	return &c, nil
}

// Create inserta la ficha. ErrDuplicate si ya existe una.
func (r *CompanyInfoRepo) Create(ctx context.Context, c *entity.CompanyInfo) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO company_info (id, company_name, company_phone, company_address, company_cnpj, logo_key, pix_qr_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.Name, c.Phone, c.Address, c.CNPJ, c.LogoKey, c.PixQRKey,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company info: %w", err)
	}
	return nil
}

func (r *CompanyInfoRepo) Update(ctx context.Context, c *entity.CompanyInfo) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE company_info
		SET company_name = $2, company_phone = $3, company_address = $4, company_cnpj = $5,
		    logo_key = $6, pix_qr_key = $7
		WHERE id = $1`,
		c.ID, c.Name, c.Phone, c.Address, c.CNPJ, c.LogoKey, c.PixQRKey,
	)
	if err != nil {
		return fmt.Errorf("update company info: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
