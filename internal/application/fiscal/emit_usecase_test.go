package fiscal_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendafacil-api/internal/application/fiscal"
	"github.com/jhoicas/vendafacil-api/internal/domain"
	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
	domainnfe "github.com/jhoicas/vendafacil-api/internal/domain/nfe"
	infranfe "github.com/jhoicas/vendafacil-api/internal/infrastructure/nfe"
	"github.com/jhoicas/vendafacil-api/pkg/nfe"
)

type emitFixture struct {
	sales   *memSales
	clients memClients
	uc      *fiscal.EmitUseCase
}

func newEmitFixture(builder fiscal.XMLBuilder, sales ...*entity.Sale) *emitFixture {
	f := &emitFixture{
		sales:   newMemSales(sales...),
		clients: memClients{},
	}
	f.uc = fiscal.NewEmitUseCase(
		f.sales,
		memCompanies{testCompanyID: testCompany()},
		f.clients,
		memProducts{"p1": {ID: "p1", SKU: "CAF-500", NCM: "09012100", Unit: "un"}},
		builder,
		infranfe.NewEnvelopeSigner(),
		testLogger(),
	)
	return f
}

func TestEmit_VentaEfectivo(t *testing.T) {
	f := newEmitFixture(infranfe.NewDocumentBuilder(infranfe.WithComputedCheckDigit()), testSale("s1", entity.PaymentCash))

	res, err := f.uc.Emit(context.Background(), testCompanyID, "s1")
	require.NoError(t, err)

	assert.Equal(t, "1", res.DocumentNumber, "numeración secuencial asignada")
	assert.Equal(t, nfe.ModelNFCe, res.Model)
	assert.Equal(t, "NFCe", res.DocumentType)
	assert.Len(t, res.AccessKey, 44)
	assert.True(t, nfe.ValidAccessKey(res.AccessKey))
	assert.Equal(t, nfe.FormatAccessKey(res.AccessKey), res.AccessKeyFormatted)
	assert.Equal(t, entity.FiscalStatusIssued, res.FiscalStatus)

	stored := f.sales.get("s1")
	assert.Equal(t, entity.FiscalStatusIssued, stored.FiscalStatus)
	assert.Equal(t, res.AccessKey, stored.AccessKey)
	assert.Equal(t, "1", stored.DocumentNumber)
	assert.Equal(t, 1, strings.Count(stored.XML, "<Signature "))
	assert.Contains(t, stored.XML, `Id="NFe`+res.AccessKey+`"`)
	assert.Contains(t, stored.XML, "<cProd>CAF-500</cProd>")
	assert.Contains(t, stored.XML, "<uCom>UN</uCom>")
}

func TestEmit_RespetaNumeroInformado(t *testing.T) {
	sale := testSale("s1", entity.PaymentPix)
	sale.DocumentNumber = "4567"
	f := newEmitFixture(infranfe.NewDocumentBuilder(), sale)

	res, err := f.uc.Emit(context.Background(), testCompanyID, "s1")
	require.NoError(t, err)
	assert.Equal(t, "4567", res.DocumentNumber)
	assert.Equal(t, nfe.ModelNFe, res.Model)
	assert.Equal(t, int64(0), f.sales.next, "no se reserva numeración")
}

func TestEmit_ClienteInexistenteEmiteConsumidorFinal(t *testing.T) {
	sale := testSale("s1", entity.PaymentCash)
	sale.ClientID = "no-existe"
	f := newEmitFixture(infranfe.NewDocumentBuilder(), sale)

	_, err := f.uc.Emit(context.Background(), testCompanyID, "s1")
	require.NoError(t, err)
	assert.Contains(t, f.sales.get("s1").XML, "<xNome>CONSUMIDOR FINAL</xNome>")
}

func TestEmit_ClienteIdentificado(t *testing.T) {
	sale := testSale("s1", entity.PaymentCreditCard)
	sale.ClientID = "cli-1"
	f := newEmitFixture(infranfe.NewDocumentBuilder(), sale)
	f.clients["cli-1"] = &entity.Client{ID: "cli-1", Name: "Maria Souza", Document: "111.444.777-35"}

	_, err := f.uc.Emit(context.Background(), testCompanyID, "s1")
	require.NoError(t, err)
	assert.Contains(t, f.sales.get("s1").XML, "<CPF>11144477735</CPF>")
}

func TestEmit_Errores(t *testing.T) {
	ctx := context.Background()

	t.Run("venta inexistente", func(t *testing.T) {
		f := newEmitFixture(infranfe.NewDocumentBuilder())
		_, err := f.uc.Emit(ctx, testCompanyID, "nope")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("otra empresa", func(t *testing.T) {
		f := newEmitFixture(infranfe.NewDocumentBuilder(), testSale("s1", entity.PaymentCash))
		_, err := f.uc.Emit(ctx, "comp-2", "s1")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("cancelada", func(t *testing.T) {
		sale := testSale("s1", entity.PaymentCash)
		sale.Status = entity.SaleStatusCancelled
		f := newEmitFixture(infranfe.NewDocumentBuilder(), sale)
		_, err := f.uc.Emit(ctx, testCompanyID, "s1")
		require.ErrorIs(t, err, domain.ErrSaleCancelled)
	})

	t.Run("ya emitida", func(t *testing.T) {
		f := newEmitFixture(infranfe.NewDocumentBuilder(), testSale("s1", entity.PaymentCash))
		_, err := f.uc.Emit(ctx, testCompanyID, "s1")
		require.NoError(t, err)
		_, err = f.uc.Emit(ctx, testCompanyID, "s1")
		require.ErrorIs(t, err, domain.ErrAlreadyIssued)
	})

	t.Run("documento de cliente inválido", func(t *testing.T) {
		sale := testSale("s1", entity.PaymentCash)
		sale.ClientID = "cli-1"
		f := newEmitFixture(infranfe.NewDocumentBuilder(), sale)
		f.clients["cli-1"] = &entity.Client{ID: "cli-1", Name: "X", Document: "123"}

		_, err := f.uc.Emit(ctx, testCompanyID, "s1")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
		require.ErrorIs(t, err, domainnfe.ErrInvalidSale)
		assert.Equal(t, entity.FiscalStatusPending, f.sales.get("s1").FiscalStatus)
	})
}

func TestEmit_FalloDelBuilderMarcaError(t *testing.T) {
	f := newEmitFixture(failingBuilder{}, testSale("s1", entity.PaymentCash))

	_, err := f.uc.Emit(context.Background(), testCompanyID, "s1")
	require.Error(t, err)

	stored := f.sales.get("s1")
	assert.Equal(t, entity.FiscalStatusError, stored.FiscalStatus)
	assert.Empty(t, stored.XML)
	assert.Equal(t, "1", stored.DocumentNumber, "el número reservado queda registrado")
}

func TestPreview_NoPersiste(t *testing.T) {
	f := newEmitFixture(infranfe.NewDocumentBuilder(), testSale("s1", entity.PaymentCash))

	raw, err := f.uc.Preview(context.Background(), testCompanyID, "s1")
	require.NoError(t, err)
	assert.Contains(t, raw, "<nNF>1</nNF>")
	assert.NotContains(t, raw, "<Signature")
	assert.Equal(t, 0, f.sales.updates)
	assert.Equal(t, int64(0), f.sales.next)
}
