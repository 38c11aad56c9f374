package repository

import (
	"context"

	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
)

// EmployeeRepository define el puerto de persistencia para empleados (login).
type EmployeeRepository interface {
	GetByEmail(ctx context.Context, email string) (*entity.Employee, error)
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
}
