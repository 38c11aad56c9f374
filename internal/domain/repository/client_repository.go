package repository

import (
	"context"

	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para clientes.
type ClientRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Client, error)
}
