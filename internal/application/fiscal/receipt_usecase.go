package fiscal

import (
	"context"
	"fmt"

	"github.com/jhoicas/vendafacil-api/internal/domain"
	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
	"github.com/jhoicas/vendafacil-api/internal/domain/repository"
	"github.com/jhoicas/vendafacil-api/pkg/logger"
	"github.com/jhoicas/vendafacil-api/pkg/nfe"
)

// ReceiptData datos de la representación impresa de un documento emitido.
type ReceiptData struct {
	Company   *entity.Company
	Client    *entity.Client // nil = consumidor final
	Sale      *entity.Sale
	Model     string
	AccessKey string
	QRCodeURL string // vacío si la empresa no tiene CSC configurado o el modelo es 55
}

// ReceiptUseCase genera el PDF del cupón (DANFE NFC-e simplificado) de una venta emitida.
type ReceiptUseCase struct {
	saleRepo    repository.SaleRepository
	companyRepo repository.CompanyRepository
	clientRepo  repository.ClientRepository
	generator   ReceiptPDFGenerator
	qrBaseURL   string
	log         *logger.Logger
}

// NewReceiptUseCase construye el caso de uso. qrBaseURL vacío usa la URL de consulta de SP.
func NewReceiptUseCase(
	saleRepo repository.SaleRepository,
	companyRepo repository.CompanyRepository,
	clientRepo repository.ClientRepository,
	generator ReceiptPDFGenerator,
	qrBaseURL string,
	log *logger.Logger,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		saleRepo:    saleRepo,
		companyRepo: companyRepo,
		clientRepo:  clientRepo,
		generator:   generator,
		qrBaseURL:   qrBaseURL,
		log:         log,
	}
}

// DownloadReceiptPDF genera el PDF de la venta.
//
// Retorna:
//   - (pdfBytes, filename, nil)      si todo sale bien.
//   - domain.ErrNotFound             si la venta no existe.
//   - domain.ErrForbidden            si la venta no pertenece a la empresa del token.
//   - domain.ErrFiscalNotIssued      si la venta aún no tiene documento emitido.
func (uc *ReceiptUseCase) DownloadReceiptPDF(ctx context.Context, companyID, saleID string) ([]byte, string, error) {
	// ── 1. Cargar venta ───────────────────────────────────────────────────────
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, "", domain.ErrNotFound
	}
	if sale.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}
	if sale.AccessKey == "" {
		return nil, "", domain.ErrFiscalNotIssued
	}

	// ── 2. Empresa y cliente ──────────────────────────────────────────────────
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}
	var client *entity.Client
	if sale.ClientID != "" {
		if client, err = uc.clientRepo.GetByID(ctx, sale.ClientID); err != nil {
			return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
		}
	}

	// ── 3. QR Code de consulta (solo NFC-e con CSC) ──────────────────────────
	model := nfe.ModelForPayment(string(sale.PaymentMethod))
	data := &ReceiptData{
		Company:   company,
		Client:    client,
		Sale:      sale,
		Model:     model,
		AccessKey: sale.AccessKey,
	}
	if model == nfe.ModelNFCe && company.Fiscal.CSC != "" {
		env := nfe.EnvironmentStaging
		if company.Fiscal.IsProduction() {
			env = nfe.EnvironmentProduction
		}
		url, qrErr := nfe.ConsumerQRCodeURL(nfe.QRCodeParams{
			AccessKey:   sale.AccessKey,
			Environment: env,
			CSCID:       company.Fiscal.CSCID,
			CSC:         company.Fiscal.CSC,
			BaseURL:     uc.qrBaseURL,
		})
		if qrErr != nil {
			uc.log.Warn().Err(qrErr).Str("sale_id", sale.ID).Msg("QR Code de NFC-e omitido")
		}
		data.QRCodeURL = url
	}

	// ── 4. Generar PDF ────────────────────────────────────────────────────────
	pdf, err := uc.generator.GenerateReceiptPDF(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar: %w", err)
	}
	return pdf, fmt.Sprintf("%s_%s.pdf", nfe.DocumentType(model), sale.DocumentNumber), nil
}
