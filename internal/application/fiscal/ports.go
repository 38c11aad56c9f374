package fiscal

import (
	"context"

	"github.com/jhoicas/vendafacil-api/internal/domain/repository"
	infranfe "github.com/jhoicas/vendafacil-api/internal/infrastructure/nfe"
)

// XMLBuilder construye el XML NF-e/NFC-e sin firma.
type XMLBuilder interface {
	Build(bc *infranfe.BuildContext) (string, error)
}

// Signer inserta el bloque de firma en el XML construido.
type Signer interface {
	Sign(xml string) string
}

// ReceiptPDFGenerator genera la representación impresa (DANFE NFC-e simplificado) de la venta.
type ReceiptPDFGenerator interface {
	GenerateReceiptPDF(ctx context.Context, data *ReceiptData) ([]byte, error)
}

// SaleTxRunner ejecuta fn dentro de una transacción con el repositorio de ventas atado a ella.
type SaleTxRunner interface {
	RunSales(ctx context.Context, fn func(sales repository.SaleRepository) error) error
}
