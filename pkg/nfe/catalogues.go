// Package nfe contiene catálogos, clave de acceso y utilidades del leiaute
// NF-e/NFC-e 4.00 (Manual de Orientação do Contribuinte, SEFAZ Brasil).
package nfe

// =============================================================================
// Identificación del leiaute
// =============================================================================

const (
	Namespace     = "http://www.portalfiscal.inf.br/nfe"
	LayoutVersion = "4.00"
	AppVersion    = "VendaFacil_1.0" // verProc
	IDPrefix      = "NFe"            // prefijo del atributo Id de infNFe
)

// =============================================================================
// Campos fijos de ide
// =============================================================================

const (
	StateCodeSP       = "35" // cUF: la operación está fijada en São Paulo
	DefaultSeries     = "1"
	EmissionNormal    = "1" // tpEmis
	PrintDANFE        = "1" // tpImp
	DestInternal      = "1" // idDest: operación interna
	FinalConsumer     = "1" // indFinal
	PresenceInPerson  = "1" // indPres
	ProcessOwnApp     = "0" // procEmi: aplicativo del contribuyente
	DefaultMunicipio  = "3550308"
	CountryBrazilCode = "1058"
	CountryBrazilName = "BRASIL"
)

// Tipo de operación (tpNF).
const (
	OperationInbound  = "0" // entrada (devolución de cliente)
	OperationOutbound = "1" // salida
)

// Finalidad de emisión (finNFe).
const (
	PurposeNormal = "1"
	PurposeReturn = "4"
)

// Naturaleza de la operación (natOp).
const (
	NatureSale   = "VENDA DE MERCADORIA"
	NatureReturn = "DEVOLUCAO DE MERCADORIA"
)

// =============================================================================
// Modelo del documento y ambiente
// =============================================================================

const (
	ModelNFe  = "55" // Nota Fiscal Eletrônica
	ModelNFCe = "65" // Nota Fiscal de Consumidor Eletrônica

	EnvironmentProduction = "1"
	EnvironmentStaging    = "2"
)

// =============================================================================
// Régimen tributario del emisor (CRT)
// =============================================================================

const (
	CRTSimplesNacional = "1"
	CRTSimplesExcess   = "2"
	CRTNormal          = "3"
)

// =============================================================================
// Destinatario
// =============================================================================

const (
	IEDestTaxpayer    = "1" // contribuyente ICMS
	IEDestExempt      = "2" // contribuyente exento de IE
	IEDestNonTaxpayer = "9" // no contribuyente
	FinalConsumerName = "CONSUMIDOR FINAL"
)

// =============================================================================
// Valores por defecto de productos sin metadata tributaria
// =============================================================================

const (
	NoGTIN           = "SEM GTIN"
	DefaultNCM       = "00000000"
	DefaultCFOP      = "5102"
	DefaultUnit      = "UN"
	DefaultOrigin    = "0"
	DefaultCSOSN     = "102"
	DefaultCST       = "00"
	DefaultPISCST    = "01"
	DefaultCOFINSCST = "01"
	ICMSBaseValue    = "3" // modBC: valor de la operación
	IncludeInTotal   = "1" // indTot
)

// =============================================================================
// Transporte, pago e información adicional
// =============================================================================

const (
	FreightNone = "9" // modFrete: sin ocurrencia de transporte

	PaymentCodeCash  = "01"
	PaymentCodeOther = "03"

	PaymentMethodCash = "cash"

	AdditionalInfo = "Venda realizada via VendaFacil. Agradecemos a preferencia!"
)

// ModelForPayment devuelve el modelo del documento según la forma de pago:
// 65 (NFC-e) para dinero en efectivo, 55 (NF-e) para el resto.
func ModelForPayment(method string) string {
	if method == PaymentMethodCash {
		return ModelNFCe
	}
	return ModelNFe
}

// PaymentCode devuelve el código tPag: 01 para efectivo y 03 para cualquier otra forma.
func PaymentCode(method string) string {
	if method == PaymentMethodCash {
		return PaymentCodeCash
	}
	return PaymentCodeOther
}

// DocumentType devuelve la etiqueta de listado ("NFCe" o "NFe") del modelo.
func DocumentType(model string) string {
	if model == ModelNFCe {
		return "NFCe"
	}
	return "NFe"
}
