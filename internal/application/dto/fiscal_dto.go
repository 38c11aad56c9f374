package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// EmitResponse resultado de POST /api/sales/:id/nfe.
type EmitResponse struct {
	SaleID             string `json:"sale_id"`
	DocumentNumber     string `json:"document_number"`
	Model              string `json:"model"`
	DocumentType       string `json:"document_type"` // NFe | NFCe
	AccessKey          string `json:"access_key"`
	AccessKeyFormatted string `json:"access_key_formatted"`
	FiscalStatus       string `json:"fiscal_status"`
}

// InvoiceListRequest filtros de GET /api/invoices.
type InvoiceListRequest struct {
	PageRequest
	Type   string `query:"type"` // NFe | NFCe | vacío = todos
	Search string `query:"q"`
}

// InvoiceResponse documento fiscal en el listado (derivado de la venta).
type InvoiceResponse struct {
	ID                 string          `json:"id"`
	Number             string          `json:"number"`
	Series             string          `json:"series"`
	Type               string          `json:"type"` // NFe | NFCe
	Operation          string          `json:"operation"`
	Date               time.Time       `json:"date"`
	Total              decimal.Decimal `json:"total"`
	Status             string          `json:"status"` // Autorizada | Pendente | Cancelada
	AccessKey          string          `json:"access_key,omitempty"`
	AccessKeyFormatted string          `json:"access_key_formatted,omitempty"`
	HasXML             bool            `json:"has_xml"`
}

// InvoiceListResponse página de documentos fiscales.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// CancelInvoiceRequest body de POST /api/invoices/:id/cancel.
type CancelInvoiceRequest struct {
	Justification string `json:"justification"`
}

// ReturnResponse nota de devolución creada a partir de una venta.
type ReturnResponse struct {
	SaleID         string `json:"sale_id"`
	ReferenceID    string `json:"reference_id"`
	DocumentNumber string `json:"document_number"`
	FiscalStatus   string `json:"fiscal_status"`
}

// VoidRangeRequest body de POST /api/invoices/void-range (inutilización de numeración).
type VoidRangeRequest struct {
	Model         string `json:"model"` // 55 | 65; vacío = 55
	Start         int    `json:"start"`
	End           int    `json:"end"`
	Justification string `json:"justification"`
}

// VoidRangeResponse inutilización registrada.
type VoidRangeResponse struct {
	ID        string    `json:"id"`
	Model     string    `json:"model"`
	Series    string    `json:"series"`
	Start     int       `json:"start"`
	End       int       `json:"end"`
	CreatedAt time.Time `json:"created_at"`
}
