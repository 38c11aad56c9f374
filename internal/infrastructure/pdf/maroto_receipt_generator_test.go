package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendafacil-api/internal/application/fiscal"
	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":          "R$ 0,00",
		"9.9":        "R$ 9,90",
		"1234.5":     "R$ 1.234,50",
		"1000000":    "R$ 1.000.000,00",
		"-20.456":    "-R$ 20,46",
		"999999.999": "R$ 1.000.000,00",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestFormatCNPJ(t *testing.T) {
	assert.Equal(t, "11.222.333/0001-81", formatCNPJ("11222333000181"))
	assert.Equal(t, "123", formatCNPJ("123"))
}

func TestGenerateReceiptPDF(t *testing.T) {
	g := NewMarotoReceiptGenerator()
	data := &fiscal.ReceiptData{
		Company: &entity.Company{
			LegalName: "Mercado Bom Preço LTDA",
			CNPJ:      "11222333000181",
			Address:   entity.Address{Street: "Av. Paulista", City: "São Paulo", State: "SP"},
		},
		Client: &entity.Client{Name: "Maria", Document: "11144477735"},
		Sale: &entity.Sale{
			Date:           time.Date(2024, 10, 5, 10, 0, 0, 0, time.UTC),
			DocumentNumber: "123",
			Total:          decimal.RequireFromString("20.00"),
			PaymentMethod:  entity.PaymentCash,
			Items: []entity.SaleItem{{
				Name: "Café", Quantity: decimal.NewFromInt(2),
				UnitPrice: decimal.RequireFromString("10"), Subtotal: decimal.RequireFromString("20"),
			}},
		},
		Model:     "65",
		AccessKey: "35241011222333000181650010000001231123456782",
		QRCodeURL: "https://www.homologacao.nfce.fazenda.sp.gov.br/qrcode?p=x",
	}

	out, err := g.GenerateReceiptPDF(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))

	_, err = g.GenerateReceiptPDF(context.Background(), &fiscal.ReceiptData{})
	require.Error(t, err)
}
