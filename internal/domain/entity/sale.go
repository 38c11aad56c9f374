package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod forma de pago registrada en la venta.
type PaymentMethod string

// Formas de pago soportadas por el punto de venta.
const (
	PaymentCash        PaymentMethod = "cash"
	PaymentCreditCard  PaymentMethod = "credit_card"
	PaymentDebitCard   PaymentMethod = "debit_card"
	PaymentPix         PaymentMethod = "pix"
	PaymentStoreCredit PaymentMethod = "store_credit"
)

// Valid indica si la forma de pago pertenece a la enumeración conocida.
func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentPix, PaymentStoreCredit:
		return true
	}
	return false
}

// OperationKind tipo de operación de la venta.
type OperationKind string

const (
	OperationSale   OperationKind = "sale"
	OperationReturn OperationKind = "return"
)

// Estados de la venta y de su documento fiscal.
const (
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"

	FiscalStatusPending = "pending"
	FiscalStatusIssued  = "issued"
	FiscalStatusError   = "error"
)

// Sale venta completada y, una vez emitida, su documento fiscal (XML firmado y clave de acceso).
type Sale struct {
	ID             string
	CompanyID      string
	ClientID       string // vacío = consumidor final
	SellerID       string
	Date           time.Time
	Total          decimal.Decimal
	Discount       decimal.Decimal
	Items          []SaleItem
	PaymentMethod  PaymentMethod
	DocumentNumber string // nNF
	Operation      OperationKind
	ReferenceID    string // venta original cuando Operation = return
	Status         string
	FiscalStatus   string
	XML            string
	AccessKey      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsReturn indica si la venta es una nota de devolución.
func (s *Sale) IsReturn() bool {
	return s.Operation == OperationReturn
}

// ProductIDs devuelve los IDs de producto de los ítems, sin repetir, en orden de aparición.
func (s *Sale) ProductIDs() []string {
	seen := make(map[string]struct{}, len(s.Items))
	ids := make([]string, 0, len(s.Items))
	for _, it := range s.Items {
		if _, ok := seen[it.ProductID]; ok || it.ProductID == "" {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	return ids
}

// SaleItem línea de la venta. Subtotal se recibe calculado (cantidad × precio) y no se recalcula.
type SaleItem struct {
	ID        string
	SaleID    string
	ProductID string
	Name      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
	Discount  decimal.Decimal
}
