package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
	"github.com/jhoicas/vendafacil-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `
	id, legal_name, trade_name, cnpj, state_registration, tax_regime,
	street, number, district, municipality_code, city, state, postal_code,
	phone, email, csc, csc_id, fiscal_environment, created_at, updated_at`

// GetByID obtiene una empresa por ID con su configuración fiscal.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	var c entity.Company
	a := &c.Address
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.LegalName, &c.TradeName, &c.CNPJ, &c.StateRegistration, &c.TaxRegime,
		&a.Street, &a.Number, &a.District, &a.MunicipalityCode, &a.City, &a.State, &a.PostalCode,
		&c.Phone, &c.Email, &c.Fiscal.CSC, &c.Fiscal.CSCID, &c.Fiscal.Environment,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// Update actualiza datos del emisor y su configuración fiscal.
func (r *CompanyRepo) Update(ctx context.Context, c *entity.Company) error {
	query := `
		UPDATE companies
		SET legal_name = $2, trade_name = $3, cnpj = $4, state_registration = $5, tax_regime = $6,
		    street = $7, number = $8, district = $9, municipality_code = $10, city = $11, state = $12, postal_code = $13,
		    phone = $14, email = $15, csc = $16, csc_id = $17, fiscal_environment = $18, updated_at = $19
		WHERE id = $1`
	a := c.Address
	_, err := r.q.Exec(ctx, query,
		c.ID, c.LegalName, c.TradeName, c.CNPJ, c.StateRegistration, c.TaxRegime,
		a.Street, a.Number, a.District, a.MunicipalityCode, a.City, a.State, a.PostalCode,
		c.Phone, c.Email, c.Fiscal.CSC, c.Fiscal.CSCID, c.Fiscal.Environment, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}
