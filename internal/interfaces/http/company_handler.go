package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/OrdemServico-api/internal/application/dto"
	"github.com/jhoicas/OrdemServico-api/internal/application/usecase"
)

// CompanyHandler ficha del taller. Lectura para todos; cambios solo admin (ver Router).
type CompanyHandler struct {
	uc *usecase.CompanyUseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *usecase.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Get godoc
// @Summary      Datos del taller
// @Tags         company
// @Produce      json
// @Success      200  {object}  dto.CompanyResponse
// @Router       /api/company [get]
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/company
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UploadLogo POST /api/company/logo
func (h *CompanyHandler) UploadLogo(c *fiber.Ctx) error {
	name, data, err := readUpload(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UploadLogo(c.UserContext(), name, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UploadPixQR POST /api/company/pix-qr
func (h *CompanyHandler) UploadPixQR(c *fiber.Ctx) error {
	name, data, err := readUpload(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UploadPixQR(c.UserContext(), name, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
