package http

import (
	"bytes"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/OrdemServico-api/internal/application/dto"
	appos "github.com/jhoicas/OrdemServico-api/internal/application/serviceorder"
)

// OrderHandler alta, edición, historial y documentos de la OS.
type OrderHandler struct {
	uc   *appos.UseCase
	docs *appos.DocumentsUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *appos.UseCase, docs *appos.DocumentsUseCase) *OrderHandler {
	return &OrderHandler{uc: uc, docs: docs}
}

// Create godoc
// @Summary      Crear orden de servicio
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveOrderRequest  true  "cliente, vehículo, valores e ítems"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.SaveOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update PUT /api/orders/:id
func (h *OrderHandler) Update(c *fiber.Ctx) error {
	var in dto.SaveOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get GET /api/orders/:id
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// History GET /api/orders?search=&status=&payment=paid|unpaid&date_from=&date_to=
func (h *OrderHandler) History(c *fiber.Ctx) error {
	var q dto.OrderHistoryQuery
	if err := c.QueryParser(&q); err != nil {
		return badBody(c)
	}
	list, err := h.uc.History(c.UserContext(), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// UploadImage POST /api/orders/:id/image (multipart, campo "file")
func (h *OrderHandler) UploadImage(c *fiber.Ctx) error {
	name, data, err := readUpload(c)
	if err != nil {
		return respondError(c, err)
	}
	key, err := h.uc.AttachImage(c.UserContext(), c.Params("id"), name, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"image_key": key})
}

// PDF GET /api/orders/:id/pdf
func (h *OrderHandler) PDF(c *fiber.Ctx) error {
	data, name, err := h.docs.OrderPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, "application/pdf", name, data)
}

// ExportCSV GET /api/orders/export/csv
func (h *OrderHandler) ExportCSV(c *fiber.Ctx) error {
	data, name, err := h.docs.ExportCSV(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return sendFile(c, "text/csv; charset=utf-8", name, data)
}

// ImportCSV POST /api/orders/import/csv (multipart, campo "file"). Todo o nada.
func (h *OrderHandler) ImportCSV(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	_, data, err := readUpload(c)
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.docs.ImportCSV(c.UserContext(), userID, bytes.NewReader(data))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func sendFile(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+url.PathEscape(filename)+`"`)
	return c.Send(data)
}
