package repository

import (
	"context"

	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para la empresa emisora.
// La implementación vive en infrastructure.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
}
