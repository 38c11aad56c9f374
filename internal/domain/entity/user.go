package entity

import "time"

// Roles válidos para Employee.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleSeller  = "seller"
	RoleStock   = "stock"
)

// Employee representa un usuario del punto de venta (pertenece a una Company).
type Employee struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash
	Name         string
	Role         string // admin, manager, seller, stock
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
