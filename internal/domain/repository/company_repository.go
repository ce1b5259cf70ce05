package repository

import (
	"context"

	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
)

// CompanyInfoRepository persistencia de la ficha única del taller.
type CompanyInfoRepository interface {
	// Get devuelve la ficha o nil, nil si todavía no existe.
	Get(ctx context.Context) (*entity.CompanyInfo, error)
	Create(ctx context.Context, info *entity.CompanyInfo) error
	Update(ctx context.Context, info *entity.CompanyInfo) error
}
