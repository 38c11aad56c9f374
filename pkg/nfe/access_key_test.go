package nfe_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendafacil-api/pkg/nfe"
)

// ──────────────────────────────────────────────────────────────────────────────
// Vector de prueba calculado manualmente:
//
//	cUF=35 AAMM=2410 CNPJ=11222333000181 mod=65 serie=001 nNF=000000123
//	tpEmis=1 cNF=12345678 -> base 3524101122233300018165001000000123112345678
//	suma ponderada (pesos 2..9 desde la derecha) mod 11 -> cDV = 2
// ──────────────────────────────────────────────────────────────────────────────

const (
	testPayload = "3524101122233300018165001000000123112345678"
	testKey     = testPayload + "2"
)

func testParams() nfe.AccessKeyParams {
	return nfe.AccessKeyParams{
		StateCode:    nfe.StateCodeSP,
		Issued:       time.Date(2024, time.October, 5, 14, 30, 0, 0, time.UTC),
		IssuerCNPJ:   "11.222.333/0001-81",
		Model:        nfe.ModelNFCe,
		Series:       nfe.DefaultSeries,
		Number:       "123",
		EmissionType: nfe.EmissionNormal,
		NumericCode:  "12345678",
	}
}

func TestAccessKeyParams_Payload(t *testing.T) {
	payload := testParams().Payload()
	assert.Equal(t, testPayload, payload)
	assert.Len(t, payload, nfe.AccessKeyLength-1)
}

func TestAccessKeyParams_PayloadRellenaConCeros(t *testing.T) {
	p := testParams()
	p.IssuerCNPJ = "222333000181"
	p.Number = "7"
	payload := p.Payload()

	require.Len(t, payload, nfe.AccessKeyLength-1)
	assert.Equal(t, "00222333000181", payload[6:20])
	assert.Equal(t, "000000007", payload[25:34])
}

func TestCheckDigit_VectorConocido(t *testing.T) {
	dv, err := nfe.CheckDigit(testPayload)
	require.NoError(t, err)
	assert.Equal(t, 2, dv)
}

func TestCheckDigit_BaseInvalida(t *testing.T) {
	_, err := nfe.CheckDigit("123")
	require.ErrorIs(t, err, nfe.ErrInvalidPayload)

	_, err = nfe.CheckDigit("35241011222333000181650010000001231123456X8")
	require.ErrorIs(t, err, nfe.ErrInvalidPayload)
}

func TestValidAccessKey(t *testing.T) {
	assert.True(t, nfe.ValidAccessKey(testKey))
	assert.False(t, nfe.ValidAccessKey(testPayload+"3"))
	assert.False(t, nfe.ValidAccessKey(testPayload))
}

func TestExtractAccessKey(t *testing.T) {
	xml := `<NFe><infNFe Id="NFe` + testKey + `" versao="4.00"></infNFe></NFe>`
	assert.Equal(t, testKey, nfe.ExtractAccessKey(xml))
	assert.Empty(t, nfe.ExtractAccessKey("<NFe><infNFe versao=\"4.00\"/></NFe>"))
}

func TestFormatAccessKey(t *testing.T) {
	got := nfe.FormatAccessKey(testKey)
	assert.Equal(t, "3524 1011 2223 3300 0181 6500 1000 0001 2311 2345 6782", got)
	assert.Equal(t, "1234 56", nfe.FormatAccessKey("123456"))
	assert.Empty(t, nfe.FormatAccessKey(""))
}

func TestModelForPayment(t *testing.T) {
	assert.Equal(t, nfe.ModelNFCe, nfe.ModelForPayment("cash"))
	for _, m := range []string{"credit_card", "debit_card", "pix", "store_credit", ""} {
		assert.Equal(t, nfe.ModelNFe, nfe.ModelForPayment(m), m)
	}
}

func TestPaymentCode(t *testing.T) {
	assert.Equal(t, "01", nfe.PaymentCode("cash"))
	for _, m := range []string{"credit_card", "debit_card", "pix", "store_credit"} {
		assert.Equal(t, "03", nfe.PaymentCode(m), m)
	}
}
