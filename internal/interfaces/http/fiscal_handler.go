package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendafacil-api/internal/application/fiscal"
)

// FiscalHandler emisión del documento fiscal de una venta (protegido).
type FiscalHandler struct {
	uc *fiscal.EmitUseCase
}

// NewFiscalHandler construye el handler.
func NewFiscalHandler(uc *fiscal.EmitUseCase) *FiscalHandler {
	return &FiscalHandler{uc: uc}
}

// Emit godoc
// @Summary      Emitir NF-e/NFC-e de una venta
// @Description  Construye el XML, lo firma, calcula la clave de acceso y lo persiste en la venta.
// @Tags         fiscal
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      201  {object}  dto.EmitResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/sales/{id}/nfe [post]
func (h *FiscalHandler) Emit(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "id requerido")
	}
	out, err := h.uc.Emit(c.Context(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Preview godoc
// @Summary      Vista previa del XML sin firma
// @Tags         fiscal
// @Produce      xml
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {string}  string
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/sales/{id}/nfe/preview [get]
func (h *FiscalHandler) Preview(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	raw, err := h.uc.Preview(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.SendString(raw)
}
