package nfe

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
	"github.com/jhoicas/vendafacil-api/pkg/nfe"
)

// timestampLayout fecha-hora local de dhEmi; el huso se agrega fijo como -03:00.
const (
	timestampLayout = "2006-01-02T15:04:05"
	fixedOffset     = "-03:00"
)

var hundred = decimal.NewFromInt(100)

// BuilderOption configura el DocumentBuilder.
type BuilderOption func(*DocumentBuilder)

// WithClock reemplaza el reloj usado para dhEmi y el AAMM de la clave.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *DocumentBuilder) { b.now = now }
}

// WithRandom reemplaza la fuente del cNF y del dígito verificador aleatorio.
func WithRandom(r Random) BuilderOption {
	return func(b *DocumentBuilder) { b.rnd = r }
}

// WithStateCode reemplaza el cUF fijo (35, São Paulo).
func WithStateCode(code string) BuilderOption {
	return func(b *DocumentBuilder) {
		if code != "" {
			b.stateCode = code
		}
	}
}

// WithComputedCheckDigit calcula el cDV módulo 11 en lugar del dígito aleatorio.
func WithComputedCheckDigit() BuilderOption {
	return func(b *DocumentBuilder) { b.computeCheckDigit = true }
}

// DocumentBuilder construye el XML nfeProc/NFe/infNFe (sin firma) de una venta.
// No mantiene estado mutable entre llamadas: es seguro para uso concurrente.
type DocumentBuilder struct {
	now               func() time.Time
	rnd               Random
	stateCode         string
	computeCheckDigit bool
}

// NewDocumentBuilder crea el builder con reloj del sistema y dígito verificador aleatorio.
func NewDocumentBuilder(opts ...BuilderOption) *DocumentBuilder {
	b := &DocumentBuilder{
		now:       time.Now,
		rnd:       globalRandom{},
		stateCode: nfe.StateCodeSP,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build genera el XML del documento fiscal. Solo falla si faltan la venta o la empresa;
// cliente y metadata de productos ausentes se resuelven con valores por defecto.
func (b *DocumentBuilder) Build(bc *BuildContext) (string, error) {
	if bc == nil || bc.Sale == nil || bc.Company == nil {
		return "", errors.New("nfe: faltan sale o company en el contexto")
	}
	sale, company := bc.Sale, bc.Company

	issued := b.now()
	numericCode := strconv.Itoa(10000000 + b.rnd.IntN(90000000))
	model := nfe.ModelForPayment(string(sale.PaymentMethod))
	number := sale.DocumentNumber
	if number == "" {
		number = "1"
	}

	payload := nfe.AccessKeyParams{
		StateCode:    b.stateCode,
		Issued:       issued,
		IssuerCNPJ:   company.CNPJ,
		Model:        model,
		Series:       nfe.DefaultSeries,
		Number:       number,
		EmissionType: nfe.EmissionNormal,
		NumericCode:  numericCode,
	}.Payload()
	checkDigit := b.checkDigit(payload)
	accessKey := payload + checkDigit

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	proc := doc.CreateElement("nfeProc")
	proc.CreateAttr("xmlns", nfe.Namespace)
	proc.CreateAttr("versao", nfe.LayoutVersion)
	nfeEl := proc.CreateElement("NFe")
	nfeEl.CreateAttr("xmlns", nfe.Namespace)
	inf := nfeEl.CreateElement("infNFe")
	inf.CreateAttr("Id", nfe.IDPrefix+accessKey)
	inf.CreateAttr("versao", nfe.LayoutVersion)

	b.writeIde(inf, bc, ideFields{
		issued:      issued,
		numericCode: numericCode,
		model:       model,
		number:      number,
		checkDigit:  checkDigit,
	})
	writeEmit(inf, company)
	writeDest(inf, bc.Client)

	totalProducts := decimal.Zero
	for i, item := range sale.Items {
		writeDet(inf, i+1, item, bc.product(item.ProductID), company.TaxRegime)
		totalProducts = totalProducts.Add(item.Subtotal)
	}

	writeTotal(inf, totalProducts, sale)
	addText(inf.CreateElement("transp"), "modFrete", nfe.FreightNone)

	detPag := inf.CreateElement("pag").CreateElement("detPag")
	addText(detPag, "tPag", nfe.PaymentCode(string(sale.PaymentMethod)))
	addText(detPag, "vPag", money(sale.Total))

	addText(inf.CreateElement("infAdic"), "infCpl", nfe.AdditionalInfo)

	doc.Indent(2)
	doc.WriteSettings.CanonicalEndTags = true
	return doc.WriteToString()
}

func (b *DocumentBuilder) checkDigit(payload string) string {
	if b.computeCheckDigit {
		if dv, err := nfe.CheckDigit(payload); err == nil {
			return strconv.Itoa(dv)
		}
	}
	return strconv.Itoa(b.rnd.IntN(10))
}

type ideFields struct {
	issued      time.Time
	numericCode string
	model       string
	number      string
	checkDigit  string
}

// ---- ide: identificación del documento
func (b *DocumentBuilder) writeIde(inf *etree.Element, bc *BuildContext, f ideFields) {
	nature, purpose, direction := nfe.NatureSale, nfe.PurposeNormal, nfe.OperationOutbound
	if bc.Sale.IsReturn() {
		nature, purpose, direction = nfe.NatureReturn, nfe.PurposeReturn, nfe.OperationInbound
	}
	env := nfe.EnvironmentStaging
	if bc.Company.Fiscal.IsProduction() {
		env = nfe.EnvironmentProduction
	}
	municipality := bc.Company.Address.MunicipalityCode
	if municipality == "" {
		municipality = nfe.DefaultMunicipio
	}

	ide := inf.CreateElement("ide")
	addText(ide, "cUF", b.stateCode)
	addText(ide, "cNF", f.numericCode)
	addText(ide, "natOp", nature)
	addText(ide, "mod", f.model)
	addText(ide, "serie", nfe.DefaultSeries)
	addText(ide, "nNF", f.number)
	addText(ide, "dhEmi", f.issued.Format(timestampLayout)+fixedOffset)
	addText(ide, "tpNF", direction)
	addText(ide, "idDest", nfe.DestInternal)
	addText(ide, "cMunFG", municipality)
	addText(ide, "tpImp", nfe.PrintDANFE)
	addText(ide, "tpEmis", nfe.EmissionNormal)
	addText(ide, "cDV", f.checkDigit)
	addText(ide, "tpAmb", env)
	addText(ide, "finNFe", purpose)
	addText(ide, "indFinal", nfe.FinalConsumer)
	addText(ide, "indPres", nfe.PresenceInPerson)
	addText(ide, "procEmi", nfe.ProcessOwnApp)
	addText(ide, "verProc", nfe.AppVersion)
}

// ---- emit: empresa emisora
func writeEmit(inf *etree.Element, c *entity.Company) {
	emit := inf.CreateElement("emit")
	addText(emit, "CNPJ", nfe.OnlyDigits(c.CNPJ))
	addText(emit, "xNome", c.LegalName)
	addText(emit, "xFant", c.TradeName)
	writeAddress(emit.CreateElement("enderEmit"), c.Address)
	addText(emit, "IE", nfe.OnlyDigits(c.StateRegistration))
	addText(emit, "CRT", c.TaxRegime)
}

// ---- dest: destinatario identificado o consumidor final no identificado
func writeDest(inf *etree.Element, client *entity.Client) {
	dest := inf.CreateElement("dest")
	if client == nil {
		addText(dest, "CPF", "")
		addText(dest, "xNome", nfe.FinalConsumerName)
		addText(dest, "indIEDest", nfe.IEDestNonTaxpayer)
		return
	}
	docTag := "CPF"
	if nfe.IsCNPJ(client.Document) {
		docTag = "CNPJ"
	}
	addText(dest, docTag, nfe.OnlyDigits(client.Document))
	addText(dest, "xNome", client.Name)
	writeAddress(dest.CreateElement("enderDest"), client.Address)
	if client.IsExempt() {
		addText(dest, "indIEDest", nfe.IEDestExempt)
		return
	}
	addText(dest, "indIEDest", nfe.IEDestTaxpayer)
	if client.StateRegistration != "" {
		addText(dest, "IE", nfe.OnlyDigits(client.StateRegistration))
	}
}

func writeAddress(el *etree.Element, a entity.Address) {
	addText(el, "xLgr", a.Street)
	addText(el, "nro", a.Number)
	addText(el, "xBairro", a.District)
	addText(el, "cMun", a.MunicipalityCode)
	addText(el, "xMun", a.City)
	addText(el, "UF", a.State)
	addText(el, "CEP", nfe.OnlyDigits(a.PostalCode))
	addText(el, "cPais", nfe.CountryBrazilCode)
	addText(el, "xPais", nfe.CountryBrazilName)
}

// ---- det: un bloque por ítem, nItem en base 1 según el orden de la venta
func writeDet(inf *etree.Element, n int, item entity.SaleItem, p *entity.Product, regime string) {
	t := resolveTax(item, p)

	det := inf.CreateElement("det")
	det.CreateAttr("nItem", strconv.Itoa(n))

	prod := det.CreateElement("prod")
	addText(prod, "cProd", t.code)
	addText(prod, "cEAN", t.gtin)
	addText(prod, "xProd", item.Name)
	addText(prod, "NCM", t.ncm)
	if t.cest != "" {
		addText(prod, "CEST", t.cest)
	}
	addText(prod, "CFOP", t.cfop)
	addText(prod, "uCom", t.unit)
	addText(prod, "qCom", item.Quantity.StringFixed(4))
	addText(prod, "vUnCom", item.UnitPrice.StringFixed(10))
	addText(prod, "vProd", money(item.Subtotal))
	addText(prod, "cEANTrib", t.gtin)
	addText(prod, "uTrib", t.unit)
	addText(prod, "qTrib", item.Quantity.StringFixed(4))
	addText(prod, "vUnTrib", item.UnitPrice.StringFixed(10))
	addText(prod, "indTot", nfe.IncludeInTotal)

	imposto := det.CreateElement("imposto")
	icms := imposto.CreateElement("ICMS")
	if regime == nfe.CRTSimplesNacional {
		sn := icms.CreateElement("ICMSSN102")
		addText(sn, "orig", t.origin)
		addText(sn, "CSOSN", t.situation(nfe.DefaultCSOSN))
	} else {
		std := icms.CreateElement("ICMS00")
		addText(std, "orig", t.origin)
		addText(std, "CST", t.situation(nfe.DefaultCST))
		addText(std, "modBC", nfe.ICMSBaseValue)
		addText(std, "vBC", money(item.Subtotal))
		addText(std, "pICMS", money(t.icmsRate))
		addText(std, "vICMS", money(taxValue(item.Subtotal, t.icmsRate)))
	}

	pis := imposto.CreateElement("PIS").CreateElement("PISAliq")
	addText(pis, "CST", t.pisCST)
	addText(pis, "vBC", money(item.Subtotal))
	addText(pis, "pPIS", money(t.pisRate))
	addText(pis, "vPIS", money(taxValue(item.Subtotal, t.pisRate)))

	cofins := imposto.CreateElement("COFINS").CreateElement("COFINSAliq")
	addText(cofins, "CST", t.cofinsCST)
	addText(cofins, "vBC", money(item.Subtotal))
	addText(cofins, "pCOFINS", money(t.cofinsRate))
	addText(cofins, "vCOFINS", money(taxValue(item.Subtotal, t.cofinsRate)))
}

// ---- total: bases y productos suman los subtotales; el resto de totales va en cero
func writeTotal(inf *etree.Element, products decimal.Decimal, sale *entity.Sale) {
	zero := money(decimal.Zero)
	tot := inf.CreateElement("total").CreateElement("ICMSTot")
	addText(tot, "vBC", money(products))
	for _, tag := range []string{"vICMS", "vICMSDeson", "vFCP", "vBCST", "vST", "vFCPST", "vFCPSTRet"} {
		addText(tot, tag, zero)
	}
	addText(tot, "vProd", money(products))
	addText(tot, "vFrete", zero)
	addText(tot, "vSeg", zero)
	addText(tot, "vDesc", money(sale.Discount))
	for _, tag := range []string{"vII", "vIPI", "vIPIDevol", "vPIS", "vCOFINS", "vOutro"} {
		addText(tot, tag, zero)
	}
	addText(tot, "vNF", money(sale.Total))
}

// lineTax campos tributarios del ítem ya resueltos con sus valores por defecto.
type lineTax struct {
	code, gtin, ncm, cest, cfop, unit, origin string
	cstCSOSN, pisCST, cofinsCST               string
	icmsRate, pisRate, cofinsRate             decimal.Decimal
}

func (t lineTax) situation(def string) string {
	if t.cstCSOSN == "" {
		return def
	}
	return t.cstCSOSN
}

func resolveTax(item entity.SaleItem, p *entity.Product) lineTax {
	t := lineTax{
		code:      item.ProductID,
		gtin:      nfe.NoGTIN,
		ncm:       nfe.DefaultNCM,
		cfop:      nfe.DefaultCFOP,
		unit:      nfe.DefaultUnit,
		origin:    nfe.DefaultOrigin,
		pisCST:    nfe.DefaultPISCST,
		cofinsCST: nfe.DefaultCOFINSCST,
	}
	if p == nil {
		return t
	}
	t.code = orDefault(p.SKU, item.ProductID)
	t.gtin = orDefault(p.Barcode, nfe.NoGTIN)
	t.ncm = orDefault(p.NCM, nfe.DefaultNCM)
	t.cest = p.CEST
	t.cfop = orDefault(p.CFOP, nfe.DefaultCFOP)
	t.unit = orDefault(strings.ToUpper(p.Unit), nfe.DefaultUnit)
	t.origin = orDefault(p.Origin, nfe.DefaultOrigin)
	t.cstCSOSN = p.CSTCSOSN
	t.pisCST = orDefault(p.PISCST, nfe.DefaultPISCST)
	t.cofinsCST = orDefault(p.COFINSCST, nfe.DefaultCOFINSCST)
	t.icmsRate = p.ICMSRate
	t.pisRate = p.PISRate
	t.cofinsRate = p.COFINSRate
	return t
}

// taxValue = base × alícuota / 100.
func taxValue(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Div(hundred)
}

// money formatea un valor monetario con 2 decimales.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func addText(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(value)
	return el
}
