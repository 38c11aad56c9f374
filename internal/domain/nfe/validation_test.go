package nfe_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
	"github.com/jhoicas/vendafacil-api/internal/domain/nfe"
)

func validSale() *entity.Sale {
	return &entity.Sale{
		ID:             "s1",
		Total:          decimal.RequireFromString("20.00"),
		PaymentMethod:  entity.PaymentCash,
		DocumentNumber: "123",
		Items: []entity.SaleItem{{
			ProductID: "p1",
			Name:      "Café",
			Quantity:  decimal.NewFromInt(2),
			UnitPrice: decimal.RequireFromString("10.00"),
			Subtotal:  decimal.RequireFromString("20.00"),
		}},
	}
}

func TestValidateSale_OK(t *testing.T) {
	require.NoError(t, nfe.ValidateSale(validSale(), nil))
	require.NoError(t, nfe.ValidateSale(validSale(), &entity.Client{Document: "111.444.777-35"}))
	require.NoError(t, nfe.ValidateSale(validSale(), &entity.Client{Document: "11.222.333/0001-81"}))
}

func TestValidateSale_Nula(t *testing.T) {
	err := nfe.ValidateSale(nil, nil)
	require.ErrorIs(t, err, nfe.ErrInvalidSale)
}

func TestValidateSale_NumeroDocumento(t *testing.T) {
	for _, num := range []string{"", "12a", "1234567890"} {
		s := validSale()
		s.DocumentNumber = num
		err := nfe.ValidateSale(s, nil)
		assert.ErrorIs(t, err, nfe.ErrInvalidSale, num)
	}
}

func TestValidateSale_AcumulaErrores(t *testing.T) {
	s := validSale()
	s.Total = decimal.NewFromInt(-1)
	s.PaymentMethod = "cheque"
	s.Items[0].Quantity = decimal.Zero

	err := nfe.ValidateSale(s, &entity.Client{Document: "123"})
	require.ErrorIs(t, err, nfe.ErrInvalidSale)
	msg := err.Error()
	assert.Contains(t, msg, "total")
	assert.Contains(t, msg, "forma de pago")
	assert.Contains(t, msg, "cantidad")
	assert.Contains(t, msg, "documento del cliente")
}

func TestValidateSale_SinItems(t *testing.T) {
	s := validSale()
	s.Items = nil
	require.ErrorIs(t, nfe.ValidateSale(s, nil), nfe.ErrInvalidSale)
}

func TestValidateIssuer(t *testing.T) {
	c := &entity.Company{CNPJ: "11.222.333/0001-81", LegalName: "Mercado Bom Preço LTDA", TaxRegime: "1"}
	require.NoError(t, nfe.ValidateIssuer(c))

	c.CNPJ = "11.222.333/0001-00"
	c.TaxRegime = "9"
	err := nfe.ValidateIssuer(c)
	require.ErrorIs(t, err, nfe.ErrInvalidIssuer)
	assert.Contains(t, err.Error(), "CNPJ")
	assert.Contains(t, err.Error(), "CRT")

	require.ErrorIs(t, nfe.ValidateIssuer(nil), nfe.ErrInvalidIssuer)
}
