package entity

// Address dirección estructurada compartida por emisor (Company) y destinatario (Client).
type Address struct {
	Street           string // xLgr
	Number           string // nro
	District         string // xBairro
	MunicipalityCode string // cMun, código IBGE de 7 dígitos
	City             string // xMun
	State            string // UF
	PostalCode       string // CEP (se emiten solo los dígitos)
}
