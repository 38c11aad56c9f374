package fiscal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vendafacil-api/internal/application/dto"
	"github.com/jhoicas/vendafacil-api/internal/domain"
	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
	"github.com/jhoicas/vendafacil-api/internal/domain/repository"
	infranfe "github.com/jhoicas/vendafacil-api/internal/infrastructure/nfe"
	"github.com/jhoicas/vendafacil-api/pkg/logger"
	"github.com/jhoicas/vendafacil-api/pkg/nfe"
)

// Estados mostrados en el listado de documentos fiscales.
const (
	InvoiceStatusAuthorized = "Autorizada"
	InvoiceStatusPending    = "Pendente"
	InvoiceStatusCancelled  = "Cancelada"
)

// minJustificationLength mínimo de caracteres exigido en cancelación e inutilización.
const minJustificationLength = 15

// exportLimit máximo de documentos por lote de exportación.
const exportLimit = 5000

// InvoiceUseCase consulta y operaciones posteriores a la emisión: listado, descarga del XML,
// cancelación, devolución, inutilización de numeración y exportación en lote.
type InvoiceUseCase struct {
	saleRepo repository.SaleRepository
	voidRepo repository.NumberVoidRepository
	tx       SaleTxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(saleRepo repository.SaleRepository, voidRepo repository.NumberVoidRepository, log *logger.Logger) *InvoiceUseCase {
	return &InvoiceUseCase{saleRepo: saleRepo, voidRepo: voidRepo, log: log, now: time.Now}
}

// WithTx hace que la reserva de numeración y el alta de la devolución ocurran en una transacción.
func (uc *InvoiceUseCase) WithTx(tx SaleTxRunner) *InvoiceUseCase {
	uc.tx = tx
	return uc
}

// List devuelve los documentos fiscales de la empresa. El tipo (NFe/NFCe) se deriva del
// modelo, que a su vez depende de la forma de pago.
func (uc *InvoiceUseCase) List(ctx context.Context, companyID string, in dto.InvoiceListRequest) (*dto.InvoiceListResponse, error) {
	in.DefaultPage()
	filter := repository.SaleFilter{
		Search: strings.TrimSpace(in.Search),
		Limit:  in.Limit,
		Offset: in.Offset,
	}
	switch strings.ToLower(in.Type) {
	case "":
	case "nfe":
		filter.Model = nfe.ModelNFe
	case "nfce":
		filter.Model = nfe.ModelNFCe
	default:
		return nil, fmt.Errorf("%w: tipo %q (use NFe o NFCe)", domain.ErrInvalidInput, in.Type)
	}

	sales, err := uc.saleRepo.List(ctx, companyID, filter)
	if err != nil {
		return nil, fmt.Errorf("invoices: listar: %w", err)
	}
	items := make([]dto.InvoiceResponse, 0, len(sales))
	for _, s := range sales {
		items = append(items, toInvoiceResponse(s))
	}
	return &dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// GetXML devuelve el XML firmado de la venta y su nombre de descarga NFe_<numero>.xml.
func (uc *InvoiceUseCase) GetXML(ctx context.Context, companyID, saleID string) (xml, filename string, err error) {
	sale, err := uc.load(ctx, companyID, saleID)
	if err != nil {
		return "", "", err
	}
	if sale.XML == "" {
		return "", "", domain.ErrFiscalNotIssued
	}
	return sale.XML, infranfe.XMLFileName(sale.DocumentNumber), nil
}

// Cancel cancela la venta y su documento. Exige justificación de al menos 15 caracteres.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, companyID, saleID, justification string) error {
	if err := checkJustification(justification); err != nil {
		return err
	}
	sale, err := uc.load(ctx, companyID, saleID)
	if err != nil {
		return err
	}
	if sale.Status == entity.SaleStatusCancelled {
		return domain.ErrSaleCancelled
	}
	sale.Status = entity.SaleStatusCancelled
	sale.UpdatedAt = uc.now()
	if err := uc.saleRepo.UpdateStatus(ctx, sale); err != nil {
		return fmt.Errorf("invoices: cancelar: %w", err)
	}
	uc.log.Info().Str("sale_id", sale.ID).Str("access_key", sale.AccessKey).
		Str("justification", strings.TrimSpace(justification)).Msg("documento fiscal cancelado")
	return nil
}

// CreateReturn genera una nota de devolución pendiente de emisión a partir de la venta:
// mismos ítems, cliente y forma de pago, con numeración nueva.
func (uc *InvoiceUseCase) CreateReturn(ctx context.Context, companyID, saleID, employeeID string) (*dto.ReturnResponse, error) {
	orig, err := uc.load(ctx, companyID, saleID)
	if err != nil {
		return nil, err
	}
	if orig.IsReturn() {
		return nil, fmt.Errorf("%w: la venta ya es una devolución", domain.ErrConflict)
	}
	if orig.Status == entity.SaleStatusCancelled {
		return nil, domain.ErrSaleCancelled
	}

	var ret *entity.Sale
	create := func(sales repository.SaleRepository) error {
		var err error
		ret, err = uc.newReturn(ctx, sales, orig, employeeID)
		return err
	}
	if uc.tx != nil {
		err = uc.tx.RunSales(ctx, create)
	} else {
		err = create(uc.saleRepo)
	}
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("sale_id", ret.ID).Str("reference_id", orig.ID).Msg("nota de devolución creada")

	return &dto.ReturnResponse{
		SaleID:         ret.ID,
		ReferenceID:    orig.ID,
		DocumentNumber: ret.DocumentNumber,
		FiscalStatus:   ret.FiscalStatus,
	}, nil
}

// VoidRange registra la inutilización de un rango de numeración no utilizado.
func (uc *InvoiceUseCase) VoidRange(ctx context.Context, companyID, employeeID string, in dto.VoidRangeRequest) (*dto.VoidRangeResponse, error) {
	if err := checkJustification(in.Justification); err != nil {
		return nil, err
	}
	model := in.Model
	if model == "" {
		model = nfe.ModelNFe
	}
	if model != nfe.ModelNFe && model != nfe.ModelNFCe {
		return nil, fmt.Errorf("%w: modelo %q (use 55 o 65)", domain.ErrInvalidInput, model)
	}
	if in.Start <= 0 || in.End < in.Start || in.End > 999999999 {
		return nil, fmt.Errorf("%w: rango %d-%d inválido", domain.ErrInvalidInput, in.Start, in.End)
	}

	v := &entity.NumberVoid{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		Model:         model,
		Series:        nfe.DefaultSeries,
		Start:         in.Start,
		End:           in.End,
		Justification: strings.TrimSpace(in.Justification),
		CreatedBy:     employeeID,
		CreatedAt:     uc.now(),
	}
	if err := uc.voidRepo.Create(ctx, v); err != nil {
		return nil, fmt.Errorf("invoices: inutilizar: %w", err)
	}
	uc.log.Info().Str("company_id", companyID).Int("start", v.Start).Int("end", v.End).Msg("numeración inutilizada")

	return &dto.VoidRangeResponse{
		ID:        v.ID,
		Model:     v.Model,
		Series:    v.Series,
		Start:     v.Start,
		End:       v.End,
		CreatedAt: v.CreatedAt,
	}, nil
}

// ExportZip empaqueta en un ZIP los XML emitidos en el período [from, to].
func (uc *InvoiceUseCase) ExportZip(ctx context.Context, companyID string, from, to *time.Time) ([]byte, string, error) {
	sales, err := uc.saleRepo.List(ctx, companyID, repository.SaleFilter{
		From:        from,
		To:          to,
		OnlyWithXML: true,
		Limit:       exportLimit,
	})
	if err != nil {
		return nil, "", fmt.Errorf("invoices: listar para exportar: %w", err)
	}
	files := make([]infranfe.ExportFile, 0, len(sales))
	for _, s := range sales {
		if s.XML == "" {
			continue
		}
		files = append(files, infranfe.ExportFile{Number: s.DocumentNumber, XML: s.XML})
	}
	if len(files) == 0 {
		return nil, "", fmt.Errorf("%w: no hay documentos emitidos en el período", domain.ErrNotFound)
	}
	data, err := infranfe.ExportZip(files)
	if err != nil {
		return nil, "", err
	}
	return data, exportFileName(from, to), nil
}

// newReturn reserva la numeración y crea la nota de devolución de orig.
func (uc *InvoiceUseCase) newReturn(ctx context.Context, sales repository.SaleRepository, orig *entity.Sale, employeeID string) (*entity.Sale, error) {
	n, err := sales.NextDocumentNumber(ctx, orig.CompanyID, nfe.DefaultSeries)
	if err != nil {
		return nil, fmt.Errorf("invoices: reservar numeración: %w", err)
	}

	now := uc.now()
	ret := &entity.Sale{
		ID:             uuid.New().String(),
		CompanyID:      orig.CompanyID,
		ClientID:       orig.ClientID,
		SellerID:       employeeID,
		Date:           now,
		Discount:       decimal.Zero,
		PaymentMethod:  orig.PaymentMethod,
		DocumentNumber: strconv.FormatInt(n, 10),
		Operation:      entity.OperationReturn,
		ReferenceID:    orig.ID,
		Status:         entity.SaleStatusCompleted,
		FiscalStatus:   entity.FiscalStatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	// La devolución no arrastra el descuento: su total es la suma de los subtotales.
	ret.Items = make([]entity.SaleItem, len(orig.Items))
	total := decimal.Zero
	for i, it := range orig.Items {
		it.ID = uuid.New().String()
		it.SaleID = ret.ID
		ret.Items[i] = it
		total = total.Add(it.Subtotal)
	}
	ret.Total = total

	if err := sales.Create(ctx, ret); err != nil {
		return nil, fmt.Errorf("invoices: crear devolución: %w", err)
	}
	return ret, nil
}

func (uc *InvoiceUseCase) load(ctx context.Context, companyID, saleID string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("invoices: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return sale, nil
}

func checkJustification(j string) error {
	if utf8.RuneCountInString(strings.TrimSpace(j)) < minJustificationLength {
		return fmt.Errorf("%w: la justificación debe tener al menos %d caracteres", domain.ErrInvalidInput, minJustificationLength)
	}
	return nil
}

func exportFileName(from, to *time.Time) string {
	name := "NFe_lote"
	if from != nil {
		name += "_" + from.Format("20060102")
	}
	if to != nil {
		name += "_" + to.Format("20060102")
	}
	return name + ".zip"
}

func toInvoiceResponse(s *entity.Sale) dto.InvoiceResponse {
	model := nfe.ModelForPayment(string(s.PaymentMethod))
	status := InvoiceStatusPending
	switch {
	case s.Status == entity.SaleStatusCancelled:
		status = InvoiceStatusCancelled
	case s.FiscalStatus == entity.FiscalStatusIssued:
		status = InvoiceStatusAuthorized
	}
	return dto.InvoiceResponse{
		ID:                 s.ID,
		Number:             s.DocumentNumber,
		Series:             nfe.SeriesCode(nfe.DefaultSeries),
		Type:               nfe.DocumentType(model),
		Operation:          string(s.Operation),
		Date:               s.Date,
		Total:              s.Total,
		Status:             status,
		AccessKey:          s.AccessKey,
		AccessKeyFormatted: nfe.FormatAccessKey(s.AccessKey),
		HasXML:             s.XML != "",
	}
}
