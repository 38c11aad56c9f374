package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
	"github.com/jhoicas/vendafacil-api/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	query := `
		SELECT id, company_id, name, document, state_registration, email, phone,
		       street, number, district, municipality_code, city, state, postal_code,
		       created_at, updated_at
		FROM clients WHERE id = $1`
	var c entity.Client
	a := &c.Address
	err := r.q.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.Document, &c.StateRegistration, &c.Email, &c.Phone,
		&a.Street, &a.Number, &a.District, &a.MunicipalityCode, &a.City, &a.State, &a.PostalCode,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &c, nil
}
