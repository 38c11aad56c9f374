package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/vendafacil-api/internal/application/auth"
	"github.com/jhoicas/vendafacil-api/internal/application/dto"
	"github.com/jhoicas/vendafacil-api/internal/application/fiscal"
	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
	"github.com/jhoicas/vendafacil-api/internal/domain/repository"
	infranfe "github.com/jhoicas/vendafacil-api/internal/infrastructure/nfe"
	apphttp "github.com/jhoicas/vendafacil-api/internal/interfaces/http"
	"github.com/jhoicas/vendafacil-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria mínimos para levantar el router completo
// ──────────────────────────────────────────────────────────────────────────────

type stubSales struct {
	sales map[string]*entity.Sale
	next  int64
}

func (s *stubSales) Create(_ context.Context, sale *entity.Sale) error {
	cp := *sale
	s.sales[sale.ID] = &cp
	return nil
}

func (s *stubSales) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	sale, ok := s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *sale
	return &cp, nil
}

func (s *stubSales) UpdateFiscal(_ context.Context, sale *entity.Sale) error {
	cp := *sale
	s.sales[sale.ID] = &cp
	return nil
}

func (s *stubSales) UpdateStatus(ctx context.Context, sale *entity.Sale) error {
	return s.UpdateFiscal(ctx, sale)
}

func (s *stubSales) List(_ context.Context, companyID string, _ repository.SaleFilter) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range s.sales {
		if sale.CompanyID == companyID {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (s *stubSales) NextDocumentNumber(context.Context, string, string) (int64, error) {
	s.next++
	return s.next, nil
}

type stubCompanies struct{ c *entity.Company }

func (s stubCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	if s.c.ID != id {
		return nil, nil
	}
	return s.c, nil
}

func (s stubCompanies) Update(context.Context, *entity.Company) error { return nil }

type stubClients struct{}

func (stubClients) GetByID(context.Context, string) (*entity.Client, error) { return nil, nil }

type stubProducts struct{}

func (stubProducts) GetByID(context.Context, string) (*entity.Product, error) { return nil, nil }

func (stubProducts) GetByIDs(context.Context, string, []string) (map[string]*entity.Product, error) {
	return map[string]*entity.Product{}, nil
}

type stubVoids struct{}

func (stubVoids) Create(context.Context, *entity.NumberVoid) error { return nil }

type stubEmployees struct{ e *entity.Employee }

func (s stubEmployees) GetByEmail(_ context.Context, email string) (*entity.Employee, error) {
	if s.e.Email != email {
		return nil, nil
	}
	return s.e, nil
}

func (s stubEmployees) GetByID(context.Context, string) (*entity.Employee, error) { return s.e, nil }

type stubPDF struct{}

func (stubPDF) GenerateReceiptPDF(context.Context, *fiscal.ReceiptData) ([]byte, error) {
	return []byte("%PDF-1.3 stub"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// App de prueba
// ──────────────────────────────────────────────────────────────────────────────

func buildRouterApp(t *testing.T) (*fiber.App, *stubSales) {
	t.Helper()
	log := logger.New(logger.Config{Env: "test", Level: "error"})

	company := &entity.Company{
		ID: testCompanyID, LegalName: "Mercado Bom Preço LTDA", CNPJ: "11222333000181",
		TaxRegime: entity.TaxRegimeSimples,
		Address:   entity.Address{MunicipalityCode: "3550308", City: "São Paulo", State: "SP"},
		Fiscal:    entity.FiscalSettings{CSC: "CSCTESTE123", CSCID: "000001", Environment: entity.FiscalEnvironmentStaging},
	}
	sales := &stubSales{sales: map[string]*entity.Sale{
		"s1": {
			ID: "s1", CompanyID: testCompanyID, Total: decimal.RequireFromString("20"),
			PaymentMethod: entity.PaymentCash, Operation: entity.OperationSale,
			Status: entity.SaleStatusCompleted, FiscalStatus: entity.FiscalStatusPending,
			Items: []entity.SaleItem{{
				ID: "i1", ProductID: "p1", Name: "Café", Quantity: decimal.NewFromInt(2),
				UnitPrice: decimal.RequireFromString("10"), Subtotal: decimal.RequireFromString("20"),
			}},
		},
	}}
	hash, err := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.MinCost)
	require.NoError(t, err)
	employees := stubEmployees{e: &entity.Employee{
		ID: testUserID, CompanyID: testCompanyID, Email: "caixa@bompreco.com.br",
		PasswordHash: string(hash), Role: entity.RoleSeller, Status: "active",
	}}

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(employees, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		EmitUC: fiscal.NewEmitUseCase(sales, stubCompanies{company}, stubClients{}, stubProducts{},
			infranfe.NewDocumentBuilder(), infranfe.NewEnvelopeSigner(), log),
		InvoiceUC: fiscal.NewInvoiceUseCase(sales, stubVoids{}, log),
		ReceiptUC: fiscal.NewReceiptUseCase(sales, stubCompanies{company}, stubClients{}, stubPDF{}, "", log),
		JWTSecret: testJWTSecret,
	})
	return app, sales
}

func call(t *testing.T, app *fiber.App, method, path, token, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_LoginEmitirYDescargar(t *testing.T) {
	app, sales := buildRouterApp(t)

	resp := call(t, app, http.MethodPost, "/api/auth/login", "", `{"email":"caixa@bompreco.com.br","password":"segredo123"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	require.NotEmpty(t, login.Token)
	bearer := "Bearer " + login.Token

	resp = call(t, app, http.MethodPost, "/api/sales/s1/nfe", bearer, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var emitted dto.EmitResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&emitted))
	assert.Equal(t, "NFCe", emitted.DocumentType)
	assert.Len(t, emitted.AccessKey, 44)
	assert.Equal(t, entity.FiscalStatusIssued, sales.sales["s1"].FiscalStatus)

	resp = call(t, app, http.MethodPost, "/api/sales/s1/nfe", bearer, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "segunda emisión")

	resp = call(t, app, http.MethodGet, "/api/invoices/s1/xml", bearer, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "NFe_1.xml")
	xml, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(xml), "<Signature ")

	resp = call(t, app, http.MethodGet, "/api/invoices/s1/pdf", bearer, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "NFCe_1.pdf")
}

func TestRouter_Errores(t *testing.T) {
	app, _ := buildRouterApp(t)
	seller := tokenForRole(t, "seller")

	resp := call(t, app, http.MethodPost, "/api/sales/s1/nfe", "", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/sales/nope/nfe", seller, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/invoices/s1/xml", seller, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "sin documento emitido")

	resp = call(t, app, http.MethodGet, "/api/invoices?type=CTe", seller, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodGet, "/api/invoices/export?from=05-10-2024", seller, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/invoices/s1/cancel", seller, `{"justification":"Cliente desistiu da compra"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "seller no cancela")

	resp = call(t, app, http.MethodPost, "/api/auth/login", "", `{"email":"caixa@bompreco.com.br","password":"errada"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_CancelarComoManager(t *testing.T) {
	app, sales := buildRouterApp(t)
	manager := tokenForRole(t, "manager")

	resp := call(t, app, http.MethodPost, "/api/invoices/s1/cancel", manager, `{"justification":"corta"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/invoices/s1/cancel", manager, `{"justification":"Cliente desistiu da compra"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, entity.SaleStatusCancelled, sales.sales["s1"].Status)

	resp = call(t, app, http.MethodPost, "/api/invoices/void-range", manager, `{"start":10,"end":12,"justification":"Falha na impressora fiscal"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
