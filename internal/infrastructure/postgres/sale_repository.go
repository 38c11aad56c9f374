package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/vendafacil-api/internal/domain"
	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
	"github.com/jhoicas/vendafacil-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// El modelo del documento se deriva de la forma de pago: efectivo = NFC-e (65), resto = NF-e (55).
const saleModelExpr = `(CASE WHEN s.payment_method = 'cash' THEN '65' ELSE '55' END)`

const saleColumns = `
	s.id, s.company_id, COALESCE(s.client_id::text, ''), COALESCE(s.seller_id::text, ''),
	s.date, s.total, s.discount, s.payment_method, COALESCE(s.document_number, ''),
	s.operation, COALESCE(s.reference_id::text, ''), s.status, s.fiscal_status,
	COALESCE(s.xml, ''), COALESCE(s.access_key, ''), s.created_at, s.updated_at`

// Create persiste la venta y sus ítems en una misma transacción.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO sales (id, company_id, client_id, seller_id, date, total, discount, payment_method,
		                   document_number, operation, reference_id, status, fiscal_status, xml, access_key,
		                   created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err = tx.Exec(ctx, query,
		sale.ID, sale.CompanyID, nullIfEmpty(sale.ClientID), nullIfEmpty(sale.SellerID),
		sale.Date, sale.Total, sale.Discount, string(sale.PaymentMethod),
		nullIfEmpty(sale.DocumentNumber), string(sale.Operation), nullIfEmpty(sale.ReferenceID),
		sale.Status, sale.FiscalStatus, nullIfEmpty(sale.XML), nullIfEmpty(sale.AccessKey),
		sale.CreatedAt, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert sale: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range sale.Items {
		it := &sale.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.SaleID = sale.ID
		batch.Queue(`
			INSERT INTO sale_items (id, sale_id, product_id, name, quantity, unit_price, subtotal, discount, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			it.ID, it.SaleID, it.ProductID, it.Name, it.Quantity, it.UnitPrice, it.Subtotal, it.Discount, i+1,
		)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert sale items: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetByID obtiene la venta con sus ítems en el orden de registro.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales s WHERE s.id = $1`
	sale, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, name, quantity, unit_price, subtotal, discount
		FROM sale_items WHERE sale_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Name,
			&it.Quantity, &it.UnitPrice, &it.Subtotal, &it.Discount); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		sale.Items = append(sale.Items, it)
	}
	return sale, rows.Err()
}

// UpdateFiscal actualiza el registro fiscal de la venta (numeración, XML firmado, clave y estado).
func (r *SaleRepo) UpdateFiscal(ctx context.Context, sale *entity.Sale) error {
	query := `
		UPDATE sales
		SET document_number = COALESCE($2, document_number),
		    xml             = $3,
		    access_key      = $4,
		    fiscal_status   = $5,
		    updated_at      = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		sale.ID, nullIfEmpty(sale.DocumentNumber), nullIfEmpty(sale.XML), nullIfEmpty(sale.AccessKey),
		sale.FiscalStatus, sale.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update sale fiscal: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus actualiza el estado comercial y fiscal de la venta.
func (r *SaleRepo) UpdateStatus(ctx context.Context, sale *entity.Sale) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE sales SET status = $2, fiscal_status = $3, updated_at = $4 WHERE id = $1`,
		sale.ID, sale.Status, sale.FiscalStatus, sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista las ventas con numeración de la empresa, más recientes primero. No carga los ítems.
func (r *SaleRepo) List(ctx context.Context, companyID string, f repository.SaleFilter) ([]*entity.Sale, error) {
	where := []string{"s.company_id = $1", "s.document_number IS NOT NULL"}
	args := []any{companyID}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.From != nil {
		where = append(where, "s.date >= "+arg(*f.From))
	}
	if f.To != nil {
		// To es inclusivo: abarca el día completo.
		where = append(where, "s.date < "+arg(f.To.AddDate(0, 0, 1)))
	}
	if f.Model != "" {
		where = append(where, saleModelExpr+" = "+arg(f.Model))
	}
	if f.Search != "" {
		p := arg(f.Search)
		where = append(where, "(s.document_number = "+p+" OR s.access_key LIKE '%' || "+p+" || '%')")
	}
	if f.OnlyWithXML {
		where = append(where, "s.xml IS NOT NULL")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + saleColumns + ` FROM sales s WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY s.date DESC, s.created_at DESC LIMIT ` + arg(limit) + ` OFFSET ` + arg(f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// NextDocumentNumber reserva atómicamente el siguiente nNF de la serie (UPSERT sobre fiscal_sequences).
func (r *SaleRepo) NextDocumentNumber(ctx context.Context, companyID, series string) (int64, error) {
	const query = `
		INSERT INTO fiscal_sequences (company_id, series, last_number)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id, series)
		DO UPDATE SET last_number = fiscal_sequences.last_number + 1
		RETURNING last_number`
	var n int64
	if err := r.q.QueryRow(ctx, query, companyID, series).Scan(&n); err != nil {
		return 0, fmt.Errorf("next document number: %w", err)
	}
	return n, nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var payment, operation string
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.ClientID, &s.SellerID,
		&s.Date, &s.Total, &s.Discount, &payment, &s.DocumentNumber,
		&operation, &s.ReferenceID, &s.Status, &s.FiscalStatus,
		&s.XML, &s.AccessKey, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.PaymentMethod = entity.PaymentMethod(payment)
	s.Operation = entity.OperationKind(operation)
	return &s, nil
}
