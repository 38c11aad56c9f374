package repository

import (
	"context"
	"time"

	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
)

// SaleFilter criterios de listado de ventas con documento fiscal.
type SaleFilter struct {
	From        *time.Time
	To          *time.Time
	Model       string // 55 | 65 | vacío = todos (el modelo se deriva de la forma de pago)
	Search      string // número de documento o clave de acceso
	OnlyWithXML bool
	Limit       int
	Offset      int
}

// SaleRepository define el puerto de persistencia para ventas y su registro fiscal.
type SaleRepository interface {
	// Create inserta la venta con sus ítems.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con sus ítems.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// UpdateFiscal actualiza document_number, xml, access_key y fiscal_status.
	UpdateFiscal(ctx context.Context, sale *entity.Sale) error
	// UpdateStatus actualiza status y fiscal_status (cancelación).
	UpdateStatus(ctx context.Context, sale *entity.Sale) error
	List(ctx context.Context, companyID string, filter SaleFilter) ([]*entity.Sale, error)
	// NextDocumentNumber reserva el siguiente nNF de la serie de la empresa.
	NextDocumentNumber(ctx context.Context, companyID, series string) (int64, error)
}

// NumberVoidRepository persiste inutilizaciones de numeración.
type NumberVoidRepository interface {
	Create(ctx context.Context, v *entity.NumberVoid) error
}
