package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/OrdemServico-api/internal/application/dto"
	"github.com/jhoicas/OrdemServico-api/internal/domain/entity"
	"github.com/jhoicas/OrdemServico-api/internal/domain/repository"
)

// CatalogUseCase catálogo de servicios estándar (autocompleta ítems de la OS).
type CatalogUseCase struct {
	repo repository.StandardServiceRepository
}

func NewCatalogUseCase(repo repository.StandardServiceRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo}
}

// List todos los servicios.
func (uc *CatalogUseCase) List(ctx context.Context) ([]dto.StandardServiceResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toServiceResponses(list), nil
}

// Search servicios activos cuyo nombre contiene term.
func (uc *CatalogUseCase) Search(ctx context.Context, term string) ([]dto.StandardServiceResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []dto.StandardServiceResponse{}, nil
	}
	list, err := uc.repo.SearchActive(ctx, term, AutocompleteLimit)
	if err != nil {
		return nil, err
	}
	return toServiceResponses(list), nil
}

func toServiceResponses(list []*entity.StandardService) []dto.StandardServiceResponse {
	out := make([]dto.StandardServiceResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.StandardServiceResponse{
			ID:             s.ID,
			Name:           s.Name,
			Description:    s.Description,
			SuggestedPrice: s.SuggestedPrice,
			Category:       s.Category,
			IsActive:       s.IsActive,
		})
	}
	return out
}
