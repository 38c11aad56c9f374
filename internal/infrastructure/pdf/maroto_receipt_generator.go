// Package pdf implementa la representación impresa (DANFE) de los documentos
// fiscales emitidos: NFC-e con QR Code de consulta y NF-e simplificada.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + CNPJ/IE │  DANFE NFC-e / N° + Serie  │
//	│  EMISOR: Dirección / Municipio / UF                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Descripción | Qtde | Un | V.Unit | V.Total  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Qtde itens / Desconto / Valor a pagar / Forma pago │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONSULTA: Clave de acceso en grupos de 4 + QR Code          │
//	│  CONSUMIDOR: CPF/CNPJ o "CONSUMIDOR NÃO IDENTIFICADO"        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vendafacil-api/internal/application/fiscal"
	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
	"github.com/jhoicas/vendafacil-api/pkg/nfe"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 92, Blue: 61}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// paymentLabels descripción impresa de cada forma de pago.
var paymentLabels = map[entity.PaymentMethod]string{
	entity.PaymentCash:        "Dinheiro",
	entity.PaymentCreditCard:  "Cartão de Crédito",
	entity.PaymentDebitCard:   "Cartão de Débito",
	entity.PaymentPix:         "PIX",
	entity.PaymentStoreCredit: "Crediário",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa fiscal.ReceiptPDFGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// GenerateReceiptPDF genera el PDF y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateReceiptPDF(_ context.Context, data *fiscal.ReceiptData) ([]byte, error) {
	if data == nil || data.Sale == nil || data.Company == nil {
		return nil, fmt.Errorf("pdf: datos del documento incompletos")
	}
	docType := nfe.DocumentType(data.Model)

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("DANFE "+docType, true).
		WithAuthor(data.Company.LegalName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data, docType))
	m.AddRows(issuerRow(data.Company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(data.Sale.Items) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(data.Sale))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range consultRows(data) {
		m.AddRows(r)
	}
	m.AddRows(consumerRow(data.Client))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: razón social + CNPJ/IE (izq) y tipo, número y serie (der).
func headerRow(data *fiscal.ReceiptData, docType string) core.Row {
	c := data.Company
	s := data.Sale
	title := "DANFE " + docType
	if s.IsReturn() {
		title += " - DEVOLUÇÃO"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(c.LegalName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("CNPJ: %s   IE: %s", formatCNPJ(c.CNPJ), nonEmpty(c.StateRegistration, "—")), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("N° %s  Série %s", s.DocumentNumber, nfe.SeriesCode(nfe.DefaultSeries)), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emissão: "+s.Date.Format("02/01/2006 15:04:05"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// issuerRow: endereço do emitente.
func issuerRow(c *entity.Company) core.Row {
	a := c.Address
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("%s, %s - %s - %s/%s   |   Tel: %s",
				nonEmpty(a.Street, "—"),
				nonEmpty(a.Number, "S/N"),
				nonEmpty(a.District, "—"),
				nonEmpty(a.City, "—"),
				nonEmpty(a.State, "—"),
				nonEmpty(c.Phone, "—"),
			), props.Text{Size: 8, Top: 2, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de ítems.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Código", 2, align.Left),
		h("Descrição", 4, align.Left),
		h("Qtde", 1, align.Center),
		h("Un", 1, align.Center),
		h("V. Unit.", 2, align.Right),
		h("V. Total", 2, align.Right),
	)
}

// tableItemRows: una fila por ítem de la venta.
func tableItemRows(items []entity.SaleItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for i, it := range items {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				fmt.Sprintf("%03d", i+1),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				it.Name,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				nfe.DefaultUnit,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(it.Subtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(s *entity.Sale) core.Row {
	label := func(v string) core.Component {
		return text.New(v, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(v string) core.Component {
		return text.New(v, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(v string) core.Component {
		return text.New(v, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(4),
		col.New(4).Add(
			label("Qtde. total de itens:"),
			label("Desconto:"),
			label("Valor a pagar:"),
			label("Forma de pagamento:"),
		),
		col.New(4).Add(
			value(fmt.Sprintf("%d", len(s.Items))),
			value(formatMoney(s.Discount)),
			grand(formatMoney(s.Total)),
			value(nonEmpty(paymentLabels[s.PaymentMethod], string(s.PaymentMethod))),
		),
	)
}

// consultRows: clave de acceso + QR Code de consulta (solo NFC-e con CSC).
func consultRows(data *fiscal.ReceiptData) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("Consulte pela Chave de Acesso em www.nfce.fazenda.sp.gov.br/consulta", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Align: align.Center,
			}),
		)),
		row.New(6).Add(col.New(12).Add(
			text.New(nfe.FormatAccessKey(data.AccessKey), props.Text{
				Size: 9, Top: 1, Align: align.Center,
			}),
		)),
		row.New(3),
	}

	if data.QRCodeURL != "" {
		rows = append(rows, row.New(50).Add(
			col.New(4).Add(code.NewQr(data.QRCodeURL, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Consulta via leitor de QR Code", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New(environmentNotice(data.Company), props.Text{
					Style: fontstyle.Bold, Size: 9, Top: 22, Left: 3, Color: colorPrimary,
				}),
			),
		))
		return rows
	}
	rows = append(rows, row.New(10).Add(col.New(12).Add(
		text.New(environmentNotice(data.Company), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Center,
			Color: colorPrimary, Top: 2,
		}),
	)))
	return rows
}

// consumerRow: identificación del destinatario.
func consumerRow(client *entity.Client) core.Row {
	label := "CONSUMIDOR NÃO IDENTIFICADO"
	if client != nil {
		doc := nfe.OnlyDigits(client.Document)
		kind := "CPF"
		if nfe.IsCNPJ(doc) {
			kind = "CNPJ"
			doc = formatCNPJ(doc)
		}
		label = fmt.Sprintf("CONSUMIDOR %s: %s - %s", kind, nonEmpty(doc, "—"), client.Name)
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(label, props.Text{Size: 8, Top: 2, Align: align.Center}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func environmentNotice(c *entity.Company) string {
	if c.Fiscal.IsProduction() {
		return "Documento emitido em ambiente de produção"
	}
	return "EMITIDA EM AMBIENTE DE HOMOLOGAÇÃO - SEM VALOR FISCAL"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney formatea en reales con separador de miles y coma decimal.
// Ej: 1234.5 → "R$ 1.234,50"
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "R$ " + string(buf) + "," + frac
}

// formatCNPJ aplica la máscara 00.000.000/0000-00 si el CNPJ tiene 14 dígitos.
func formatCNPJ(cnpj string) string {
	d := nfe.OnlyDigits(cnpj)
	if len(d) != 14 {
		return cnpj
	}
	return d[:2] + "." + d[2:5] + "." + d[5:8] + "/" + d[8:12] + "-" + d[12:]
}
