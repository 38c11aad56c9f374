package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendafacil-api/internal/application/dto"
	"github.com/jhoicas/vendafacil-api/internal/application/fiscal"
)

// InvoiceHandler consulta y operaciones sobre documentos fiscales emitidos (protegido).
type InvoiceHandler struct {
	uc       *fiscal.InvoiceUseCase
	receipts *fiscal.ReceiptUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *fiscal.InvoiceUseCase, receipts *fiscal.ReceiptUseCase) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, receipts: receipts}
}

// List godoc
// @Summary      Listar documentos fiscales
// @Tags         invoices
// @Produce      json
// @Param        type    query  string  false  "NFe | NFCe"
// @Param        q       query  string  false  "número o clave de acceso"
// @Param        limit   query  int     false  "máximo 100"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.InvoiceListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices [get]
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	out, err := h.uc.List(c.Context(), companyID, dto.InvoiceListRequest{
		PageRequest: dto.PageRequest{Limit: limit, Offset: offset},
		Type:        c.Query("type"),
		Search:      c.Query("q"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DownloadXML godoc
// @Summary      Descargar XML firmado
// @Tags         invoices
// @Produce      xml
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id}/xml [get]
func (h *InvoiceHandler) DownloadXML(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	xml, filename, err := h.uc.GetXML(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.SendString(xml)
}

// DownloadPDF godoc
// @Summary      Descargar DANFE en PDF
// @Tags         invoices
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) DownloadPDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	pdf, filename, err := h.receipts.DownloadReceiptPDF(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.Send(pdf)
}

// Export godoc
// @Summary      Exportar XML del período en ZIP
// @Tags         invoices
// @Produce      application/zip
// @Param        from  query  string  false  "YYYY-MM-DD"
// @Param        to    query  string  false  "YYYY-MM-DD"
// @Success      200  {file}  file
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/export [get]
func (h *InvoiceHandler) Export(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	from, err := parseDate(c.Query("from"))
	if err != nil {
		return badRequest(c, "from debe tener formato YYYY-MM-DD")
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		return badRequest(c, "to debe tener formato YYYY-MM-DD")
	}
	data, filename, err := h.uc.ExportZip(c.Context(), companyID, from, to)
	if err != nil {
		return writeError(c, err)
	}
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, "application/zip")
	return c.Send(data)
}

// Cancel godoc
// @Summary      Cancelar documento fiscal
// @Tags         invoices
// @Accept       json
// @Param        id    path  string                    true  "ID de la venta"
// @Param        body  body  dto.CancelInvoiceRequest  true  "justificación (mín. 15 caracteres)"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CancelInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Cancel(c.Context(), companyID, c.Params("id"), in.Justification); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateReturn godoc
// @Summary      Crear nota de devolución
// @Tags         invoices
// @Produce      json
// @Param        id   path  string  true  "ID de la venta original"
// @Success      201  {object}  dto.ReturnResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/{id}/return [post]
func (h *InvoiceHandler) CreateReturn(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.CreateReturn(c.Context(), companyID, c.Params("id"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// VoidRange godoc
// @Summary      Inutilizar rango de numeración
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VoidRangeRequest  true  "modelo, rango y justificación"
// @Success      201  {object}  dto.VoidRangeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/invoices/void-range [post]
func (h *InvoiceHandler) VoidRange(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.VoidRangeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.VoidRange(c.Context(), companyID, userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// parseDate interpreta YYYY-MM-DD; vacío devuelve nil.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
