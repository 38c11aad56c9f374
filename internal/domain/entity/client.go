package entity

import "time"

// StateRegistrationExempt valor centinela de IE para destinatarios exentos.
const StateRegistrationExempt = "Isento"

// Client destinatario identificado de una venta (opcional: sin cliente se emite "consumidor final").
type Client struct {
	ID                string
	CompanyID         string
	Name              string
	Document          string // CPF (11 dígitos) o CNPJ (14 dígitos)
	StateRegistration string // IE o "Isento"
	Email             string
	Phone             string
	Address           Address
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// IsExempt indica si el cliente declara IE exenta.
func (c *Client) IsExempt() bool {
	return c.StateRegistration == StateRegistrationExempt
}
