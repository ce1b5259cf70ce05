package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/OrdemServico-api/internal/application/dto"
	"github.com/jhoicas/OrdemServico-api/internal/application/usecase"
)

// ClientHandler clientes y vehículos.
type ClientHandler struct {
	uc *usecase.ClientUseCase
}

func NewClientHandler(uc *usecase.ClientUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// List GET /api/clients
func (h *ClientHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Search GET /api/clients/search?q= (autocomplete, con vehículos)
func (h *ClientHandler) Search(c *fiber.Ctx) error {
	list, err := h.uc.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Vehicles GET /api/clients/:id/vehicles
func (h *ClientHandler) Vehicles(c *fiber.Ctx) error {
	list, err := h.uc.ListVehicles(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// AddVehicle POST /api/vehicles
func (h *ClientHandler) AddVehicle(c *fiber.Ctx) error {
	var in dto.CreateVehicleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.AddVehicle(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
