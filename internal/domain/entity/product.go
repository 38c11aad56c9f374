package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo con su metadata tributaria.
// Los campos fiscales vacíos o en cero toman los valores por defecto al generar la NF-e.
type Product struct {
	ID         string
	CompanyID  string
	SKU        string // cProd
	Name       string
	Barcode    string // GTIN/EAN opcional
	Price      decimal.Decimal
	Unit       string // UN, KG, CX...
	NCM        string // Nomenclatura Común del Mercosur (8 dígitos)
	CEST       string // código de sustitución tributaria (opcional)
	Origin     string // origen de la mercadería (0 = nacional)
	CFOP       string // naturaleza de la operación (4 dígitos)
	CSTCSOSN   string // CSOSN (Simples Nacional) o CST de ICMS (régimen normal)
	ICMSRate   decimal.Decimal
	PISCST     string
	PISRate    decimal.Decimal
	COFINSCST  string
	COFINSRate decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
