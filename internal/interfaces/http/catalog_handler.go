package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/OrdemServico-api/internal/application/usecase"
)

// CatalogHandler servicios estándar (precios sugeridos).
type CatalogHandler struct {
	uc *usecase.CatalogUseCase
}

func NewCatalogHandler(uc *usecase.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// List GET /api/services; con ?q= hace autocomplete sobre los activos.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if q := c.Query("q"); q != "" {
		list, err := h.uc.Search(ctx, q)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(list)
	}
	list, err := h.uc.List(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
