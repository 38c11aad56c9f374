// Package nfe implementa la generación del XML NF-e/NFC-e 4.00 a partir de una venta
// y la inserción del bloque de firma (simulado) en el documento.
package nfe

import (
	"math/rand/v2"

	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
)

// BuildContext datos necesarios para construir el XML de una venta.
// Client nil genera un destinatario "consumidor final"; los productos ausentes del
// catálogo toman los valores tributarios por defecto.
type BuildContext struct {
	Sale    *entity.Sale
	Client  *entity.Client
	Company *entity.Company
	Catalog map[string]*entity.Product
}

// product devuelve la metadata del producto del ítem, o nil si no está en el catálogo.
func (c *BuildContext) product(id string) *entity.Product {
	if c.Catalog == nil {
		return nil
	}
	return c.Catalog[id]
}

// Random fuente de enteros aleatorios; *rand.Rand de math/rand/v2 la satisface.
type Random interface {
	IntN(n int) int
}

// globalRandom usa el generador global de math/rand/v2 (seguro para uso concurrente).
type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }
