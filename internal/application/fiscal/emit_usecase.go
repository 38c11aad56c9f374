package fiscal

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jhoicas/vendafacil-api/internal/application/dto"
	"github.com/jhoicas/vendafacil-api/internal/domain"
	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
	domainnfe "github.com/jhoicas/vendafacil-api/internal/domain/nfe"
	"github.com/jhoicas/vendafacil-api/internal/domain/repository"
	infranfe "github.com/jhoicas/vendafacil-api/internal/infrastructure/nfe"
	"github.com/jhoicas/vendafacil-api/pkg/logger"
	"github.com/jhoicas/vendafacil-api/pkg/nfe"
)

// EmitUseCase orquesta la emisión del documento fiscal de una venta:
//
//	venta + empresa + cliente + catálogo → validar → XML → firma → clave → persistir
//
// Es síncrono: el XML y la clave quedan guardados en la venta al retornar.
type EmitUseCase struct {
	saleRepo    repository.SaleRepository
	companyRepo repository.CompanyRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
	builder     XMLBuilder
	signer      Signer
	log         *logger.Logger
}

// NewEmitUseCase construye el caso de uso inyectando todas sus dependencias.
func NewEmitUseCase(
	saleRepo repository.SaleRepository,
	companyRepo repository.CompanyRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	builder XMLBuilder,
	signer Signer,
	log *logger.Logger,
) *EmitUseCase {
	return &EmitUseCase{
		saleRepo:    saleRepo,
		companyRepo: companyRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
		builder:     builder,
		signer:      signer,
		log:         log,
	}
}

// Emit genera, firma y persiste el documento fiscal de la venta.
//
// Retorna:
//   - domain.ErrNotFound       si la venta o la empresa no existen.
//   - domain.ErrForbidden      si la venta no pertenece a la empresa del token.
//   - domain.ErrSaleCancelled  si la venta está cancelada.
//   - domain.ErrAlreadyIssued  si la venta ya tiene documento emitido.
//   - domain.ErrInvalidInput   si la venta o el emisor no pasan la validación.
func (uc *EmitUseCase) Emit(ctx context.Context, companyID, saleID string) (*dto.EmitResponse, error) {
	sale, err := uc.loadSale(ctx, companyID, saleID)
	if err != nil {
		return nil, err
	}
	if sale.Status == entity.SaleStatusCancelled {
		return nil, domain.ErrSaleCancelled
	}
	if sale.FiscalStatus == entity.FiscalStatusIssued && sale.XML != "" {
		return nil, domain.ErrAlreadyIssued
	}

	bc, err := uc.buildContext(ctx, sale)
	if err != nil {
		return nil, err
	}
	if err := domainnfe.ValidateIssuer(bc.Company); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	// ── Numeración: secuencial por serie si la venta no trae número ──────────
	if sale.DocumentNumber == "" {
		n, err := uc.saleRepo.NextDocumentNumber(ctx, companyID, nfe.DefaultSeries)
		if err != nil {
			return nil, fmt.Errorf("emit: reservar numeración: %w", err)
		}
		sale.DocumentNumber = strconv.FormatInt(n, 10)
	}
	if err := domainnfe.ValidateSale(sale, bc.Client); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	raw, err := uc.builder.Build(bc)
	if err != nil {
		uc.markError(ctx, sale, "xml-build", err)
		return nil, fmt.Errorf("emit: construir XML: %w", err)
	}
	signed := uc.signer.Sign(raw)
	key := nfe.ExtractAccessKey(signed)
	if key == "" {
		err := errors.New("el XML firmado no contiene Id NFe")
		uc.markError(ctx, sale, "access-key", err)
		return nil, fmt.Errorf("emit: %w", err)
	}

	sale.XML = signed
	sale.AccessKey = key
	sale.FiscalStatus = entity.FiscalStatusIssued
	sale.UpdatedAt = time.Now()
	if err := uc.saleRepo.UpdateFiscal(ctx, sale); err != nil {
		return nil, fmt.Errorf("emit: persistir documento: %w", err)
	}

	model := nfe.ModelForPayment(string(sale.PaymentMethod))
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("company_id", companyID).
		Str("model", model).
		Str("number", sale.DocumentNumber).
		Str("access_key", key).
		Msg("documento fiscal emitido")

	return &dto.EmitResponse{
		SaleID:             sale.ID,
		DocumentNumber:     sale.DocumentNumber,
		Model:              model,
		DocumentType:       nfe.DocumentType(model),
		AccessKey:          key,
		AccessKeyFormatted: nfe.FormatAccessKey(key),
		FiscalStatus:       sale.FiscalStatus,
	}, nil
}

// Preview construye el XML sin firmar ni persistir (visualización de diagnóstico).
// No reserva numeración: una venta sin número se muestra con nNF 1.
func (uc *EmitUseCase) Preview(ctx context.Context, companyID, saleID string) (string, error) {
	sale, err := uc.loadSale(ctx, companyID, saleID)
	if err != nil {
		return "", err
	}
	bc, err := uc.buildContext(ctx, sale)
	if err != nil {
		return "", err
	}
	raw, err := uc.builder.Build(bc)
	if err != nil {
		return "", fmt.Errorf("preview: construir XML: %w", err)
	}
	return raw, nil
}

func (uc *EmitUseCase) loadSale(ctx context.Context, companyID, saleID string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("emit: obtener venta: %w", err)
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return sale, nil
}

// buildContext carga empresa, cliente (opcional) y metadata de productos de la venta.
func (uc *EmitUseCase) buildContext(ctx context.Context, sale *entity.Sale) (*infranfe.BuildContext, error) {
	company, err := uc.companyRepo.GetByID(ctx, sale.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("emit: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, fmt.Errorf("%w: empresa %s", domain.ErrNotFound, sale.CompanyID)
	}

	var client *entity.Client
	if sale.ClientID != "" {
		client, err = uc.clientRepo.GetByID(ctx, sale.ClientID)
		if err != nil {
			return nil, fmt.Errorf("emit: obtener cliente: %w", err)
		}
		if client == nil {
			uc.log.Warn().Str("sale_id", sale.ID).Str("client_id", sale.ClientID).
				Msg("cliente no encontrado, se emite como consumidor final")
		}
	}

	catalog, err := uc.productRepo.GetByIDs(ctx, sale.CompanyID, sale.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("emit: obtener productos: %w", err)
	}

	return &infranfe.BuildContext{
		Sale:    sale,
		Client:  client,
		Company: company,
		Catalog: catalog,
	}, nil
}

// markError deja la venta en fiscal_status=error y registra el paso que falló.
func (uc *EmitUseCase) markError(ctx context.Context, sale *entity.Sale, step string, cause error) {
	sale.FiscalStatus = entity.FiscalStatusError
	sale.UpdatedAt = time.Now()
	if err := uc.saleRepo.UpdateFiscal(ctx, sale); err != nil {
		uc.log.Error().Err(err).Str("sale_id", sale.ID).Msg("no se pudo persistir fiscal_status=error")
	}
	uc.log.Error().Err(cause).Str("sale_id", sale.ID).Str("step", step).Msg("error emitiendo documento fiscal")
}
