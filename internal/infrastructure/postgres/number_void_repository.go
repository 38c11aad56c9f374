package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/vendafacil-api/internal/domain"
	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
	"github.com/jhoicas/vendafacil-api/internal/domain/repository"
)

var _ repository.NumberVoidRepository = (*NumberVoidRepo)(nil)

// NumberVoidRepo persiste inutilizaciones de numeración.
type NumberVoidRepo struct {
	q Querier
}

// NewNumberVoidRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNumberVoidRepository(q Querier) *NumberVoidRepo {
	return &NumberVoidRepo{q: q}
}

// Create registra la inutilización. Un rango repetido (misma empresa, modelo, serie e inicio) es ErrDuplicate.
func (r *NumberVoidRepo) Create(ctx context.Context, v *entity.NumberVoid) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	query := `
		INSERT INTO number_voids (id, company_id, model, series, start_number, end_number, justification, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.CompanyID, v.Model, v.Series, v.Start, v.End, v.Justification,
		nullIfEmpty(v.CreatedBy), v.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert number void: %w", err)
	}
	return nil
}
