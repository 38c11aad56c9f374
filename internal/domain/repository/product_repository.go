package repository

import (
	"context"

	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para el catálogo de productos.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetByIDs devuelve los productos encontrados indexados por ID; los IDs inexistentes se omiten.
	GetByIDs(ctx context.Context, companyID string, ids []string) (map[string]*entity.Product, error)
}
