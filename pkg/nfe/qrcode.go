package nfe

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
)

// URLs de consulta pública de NFC-e de São Paulo.
const (
	QRCodeURLProduction = "https://www.nfce.fazenda.sp.gov.br/NFCeConsultaPublica/Paginas/ConsultaQRCode.aspx"
	QRCodeURLStaging    = "https://www.homologacao.nfce.fazenda.sp.gov.br/NFCeConsultaPublica/Paginas/ConsultaQRCode.aspx"
	QRCodeVersion       = "2"
)

// QRCodeParams datos para el QR Code de NFC-e en emisión online (versión 2).
type QRCodeParams struct {
	AccessKey   string
	Environment string // tpAmb: 1 producción, 2 homologación
	CSCID       string // identificador del CSC
	CSC         string // Código de Seguridad del Contribuyente
	BaseURL     string // vacío = URL de consulta de SP según ambiente
}

// ConsumerQRCodeURL arma la URL del QR Code: ?p=chNFe|2|tpAmb|cIdToken|cHashQRCode,
// con el hash SHA-1 (hex mayúsculas) de los parámetros concatenados al CSC.
func ConsumerQRCodeURL(p QRCodeParams) (string, error) {
	if len(p.AccessKey) != AccessKeyLength {
		return "", errors.New("nfe: clave de acceso inválida para QR Code")
	}
	if p.CSC == "" || p.CSCID == "" {
		return "", errors.New("nfe: CSC e identificador del CSC son obligatorios para QR Code")
	}
	idToken := strings.TrimLeft(OnlyDigits(p.CSCID), "0")
	if n, err := strconv.Atoi(idToken); err != nil || n <= 0 {
		return "", errors.New("nfe: identificador del CSC inválido")
	}
	params := strings.Join([]string{p.AccessKey, QRCodeVersion, p.Environment, idToken}, "|")
	sum := sha1.Sum([]byte(params + p.CSC))
	hash := strings.ToUpper(hex.EncodeToString(sum[:]))

	base := p.BaseURL
	if base == "" {
		base = QRCodeURLStaging
		if p.Environment == EnvironmentProduction {
			base = QRCodeURLProduction
		}
	}
	return base + "?p=" + params + "|" + hash, nil
}
