package nfe

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// AccessKeyLength longitud de la clave de acceso (chNFe) incluido el dígito verificador.
const AccessKeyLength = 44

var idPattern = regexp.MustCompile(`Id="NFe(\d+)"`)

// ErrInvalidPayload la base de la clave no tiene 43 dígitos.
var ErrInvalidPayload = errors.New("nfe: la base de la clave de acceso debe tener 43 dígitos")

// AccessKeyParams campos que componen la clave de acceso, en el orden del leiaute.
type AccessKeyParams struct {
	StateCode    string    // cUF (2)
	Issued       time.Time // AAMM (4)
	IssuerCNPJ   string    // CNPJ del emisor (14)
	Model        string    // mod (2)
	Series       string    // serie (3)
	Number       string    // nNF (9)
	EmissionType string    // tpEmis (1)
	NumericCode  string    // cNF (8)
}

// Payload concatena los campos de ancho fijo y devuelve los 43 dígitos previos al dígito verificador.
func (p AccessKeyParams) Payload() string {
	var b strings.Builder
	b.Grow(AccessKeyLength)
	b.WriteString(padLeft(p.StateCode, 2))
	b.WriteString(p.Issued.Format("0601"))
	b.WriteString(padLeft(OnlyDigits(p.IssuerCNPJ), 14))
	b.WriteString(padLeft(p.Model, 2))
	b.WriteString(SeriesCode(p.Series))
	b.WriteString(padLeft(OnlyDigits(p.Number), 9))
	b.WriteString(p.EmissionType)
	b.WriteString(padLeft(p.NumericCode, 8))
	return b.String()
}

// CheckDigit calcula el dígito verificador módulo 11 de la clave de acceso.
// Pesos 2..9 aplicados de derecha a izquierda; resto 0 o 1 produce dígito 0.
func CheckDigit(payload string) (int, error) {
	if len(payload) != AccessKeyLength-1 || OnlyDigits(payload) != payload {
		return 0, fmt.Errorf("%w: recibido %q", ErrInvalidPayload, payload)
	}
	sum, weight := 0, 2
	for i := len(payload) - 1; i >= 0; i-- {
		sum += int(payload[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	r := sum % 11
	if r < 2 {
		return 0, nil
	}
	return 11 - r, nil
}

// ValidAccessKey indica si la clave tiene 44 dígitos y su dígito verificador es correcto.
func ValidAccessKey(key string) bool {
	if len(key) != AccessKeyLength {
		return false
	}
	dv, err := CheckDigit(key[:AccessKeyLength-1])
	if err != nil {
		return false
	}
	return int(key[AccessKeyLength-1]-'0') == dv
}

// ExtractAccessKey devuelve los dígitos del primer atributo Id="NFe..." del XML, o "" si no existe.
func ExtractAccessKey(xml string) string {
	m := idPattern.FindStringSubmatch(xml)
	if m == nil {
		return ""
	}
	return m[1]
}

// FormatAccessKey agrupa la clave en bloques de 4 dígitos separados por espacio.
func FormatAccessKey(key string) string {
	var b strings.Builder
	for i := 0; i < len(key); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		end := i + 4
		if end > len(key) {
			end = len(key)
		}
		b.WriteString(key[i:end])
	}
	return b.String()
}

// SeriesCode devuelve la serie con 3 dígitos, tal como aparece en la clave.
func SeriesCode(series string) string {
	return padLeft(series, 3)
}
