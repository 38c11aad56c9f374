package entity

import "time"

// Regímenes tributarios (CRT) del emisor.
const (
	TaxRegimeSimples         = "1" // Simples Nacional
	TaxRegimeSimplesExcess   = "2" // Simples Nacional con exceso de sublímite
	TaxRegimeNormal          = "3" // Régimen normal
	FiscalEnvironmentProd    = "production"
	FiscalEnvironmentStaging = "staging"
)

// FiscalSettings parámetros fiscales del emisor para NFC-e.
type FiscalSettings struct {
	CSC         string // Código de Seguridad del Contribuyente (token del QR de NFC-e)
	CSCID       string // identificador del CSC
	Environment string // production | staging
}

// IsProduction indica si los documentos se emiten en ambiente de producción (tpAmb=1).
func (f FiscalSettings) IsProduction() bool {
	return f.Environment == FiscalEnvironmentProd
}

// Company representa la empresa emisora (tenant) con su configuración fiscal.
type Company struct {
	ID                string
	LegalName         string // razón social (xNome)
	TradeName         string // nombre de fantasía (xFant)
	CNPJ              string
	StateRegistration string // inscripción estatal (IE)
	TaxRegime         string // ver constantes TaxRegime*
	Address           Address
	Phone             string
	Email             string
	Fiscal            FiscalSettings
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
