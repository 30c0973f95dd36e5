package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/barstock-api/internal/application/dto"
	"github.com/tu-usuario/barstock-api/internal/application/usecase"
	"github.com/tu-usuario/barstock-api/internal/domain"
)

// BarHandler maneja las peticiones HTTP para barras (protegido).
type BarHandler struct {
	uc *usecase.BarUseCase
}

// NewBarHandler construye el handler.
func NewBarHandler(uc *usecase.BarUseCase) *BarHandler {
	return &BarHandler{uc: uc}
}

// Create godoc
// @Summary      Crear barra
// @Tags         bars
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBarRequest  true  "Datos de la barra"
// @Success      201   {object}  dto.BarResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/bars [post]
func (h *BarHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBarRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "name es requerido"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener barra por ID
// @Tags         bars
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la barra"
// @Success      200  {object}  dto.BarResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bars/{id} [get]
func (h *BarHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "barra no encontrada"})
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar barra
// @Tags         bars
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la barra"
// @Param        body  body  dto.UpdateBarRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.BarResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/bars/{id} [put]
func (h *BarHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateBarRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(id, in)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if out == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "barra no encontrada"})
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar barras
// @Tags         bars
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {object}  dto.BarListResponse
// @Router       /api/bars [get]
func (h *BarHandler) List(c *fiber.Ctx) error {
	limit, offset := dto.ClampPage(c.QueryInt("limit", dto.DefaultPageLimit), c.QueryInt("offset", 0))
	out, err := h.uc.List(limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
