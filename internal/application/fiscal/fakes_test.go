package fiscal_test

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/vendafacil-api/internal/domain/entity"
	"github.com/jhoicas/vendafacil-api/internal/domain/repository"
	infranfe "github.com/jhoicas/vendafacil-api/internal/infrastructure/nfe"
	"github.com/jhoicas/vendafacil-api/pkg/logger"
	"github.com/jhoicas/vendafacil-api/pkg/nfe"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria. GetByID devuelve copias para simular la base de datos.
// ──────────────────────────────────────────────────────────────────────────────

type memSales struct {
	mu      sync.Mutex
	sales   map[string]*entity.Sale
	order   []string
	next    int64
	updates int
}

func newMemSales(sales ...*entity.Sale) *memSales {
	m := &memSales{sales: map[string]*entity.Sale{}}
	for _, s := range sales {
		m.put(s)
	}
	return m
}

func (m *memSales) put(s *entity.Sale) {
	if _, ok := m.sales[s.ID]; !ok {
		m.order = append(m.order, s.ID)
	}
	cp := *s
	cp.Items = append([]entity.SaleItem(nil), s.Items...)
	m.sales[s.ID] = &cp
}

func (m *memSales) get(id string) *entity.Sale {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sales[id]
}

func (m *memSales) Create(_ context.Context, s *entity.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(s)
	return nil
}

func (m *memSales) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	cp.Items = append([]entity.SaleItem(nil), s.Items...)
	return &cp, nil
}

func (m *memSales) UpdateFiscal(_ context.Context, s *entity.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.sales[s.ID]
	if !ok {
		return errors.New("sale not found")
	}
	m.updates++
	cur.DocumentNumber, cur.XML, cur.AccessKey, cur.FiscalStatus = s.DocumentNumber, s.XML, s.AccessKey, s.FiscalStatus
	return nil
}

func (m *memSales) UpdateStatus(_ context.Context, s *entity.Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.sales[s.ID]
	if !ok {
		return errors.New("sale not found")
	}
	cur.Status, cur.FiscalStatus = s.Status, s.FiscalStatus
	return nil
}

func (m *memSales) List(_ context.Context, companyID string, f repository.SaleFilter) ([]*entity.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.Sale
	for _, id := range m.order {
		s := m.sales[id]
		if s.CompanyID != companyID {
			continue
		}
		if f.Model != "" && nfe.ModelForPayment(string(s.PaymentMethod)) != f.Model {
			continue
		}
		if f.OnlyWithXML && s.XML == "" {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *memSales) NextDocumentNumber(_ context.Context, _, _ string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return m.next, nil
}

type memCompanies map[string]*entity.Company

func (m memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return m[id], nil
}

func (m memCompanies) Update(_ context.Context, c *entity.Company) error {
	m[c.ID] = c
	return nil
}

type memClients map[string]*entity.Client

func (m memClients) GetByID(_ context.Context, id string) (*entity.Client, error) {
	return m[id], nil
}

type memProducts map[string]*entity.Product

func (m memProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return m[id], nil
}

func (m memProducts) GetByIDs(_ context.Context, _ string, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := m[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type memVoids struct {
	created []*entity.NumberVoid
}

func (m *memVoids) Create(_ context.Context, v *entity.NumberVoid) error {
	m.created = append(m.created, v)
	return nil
}

type failingBuilder struct{}

func (failingBuilder) Build(*infranfe.BuildContext) (string, error) {
	return "", errors.New("boom")
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures
// ──────────────────────────────────────────────────────────────────────────────

const testCompanyID = "comp-1"

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "test", Level: "error"})
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testCompany() *entity.Company {
	return &entity.Company{
		ID:                testCompanyID,
		LegalName:         "Mercado Bom Preço LTDA",
		TradeName:         "Bom Preço",
		CNPJ:              "11.222.333/0001-81",
		StateRegistration: "110.042.490.114",
		TaxRegime:         entity.TaxRegimeSimples,
		Address: entity.Address{
			Street: "Av. Paulista", Number: "1000", District: "Bela Vista",
			MunicipalityCode: "3550308", City: "São Paulo", State: "SP", PostalCode: "01310-100",
		},
		Fiscal: entity.FiscalSettings{CSC: "CSCTESTE123", CSCID: "000001", Environment: entity.FiscalEnvironmentStaging},
	}
}

func testSale(id string, method entity.PaymentMethod) *entity.Sale {
	return &entity.Sale{
		ID:            id,
		CompanyID:     testCompanyID,
		Total:         dec("20.00"),
		PaymentMethod: method,
		Operation:     entity.OperationSale,
		Status:        entity.SaleStatusCompleted,
		FiscalStatus:  entity.FiscalStatusPending,
		Items: []entity.SaleItem{{
			ID: id + "-i1", SaleID: id, ProductID: "p1", Name: "Café Torrado 500g",
			Quantity: dec("2"), UnitPrice: dec("10.00"), Subtotal: dec("20.00"),
		}},
	}
}

type countingTx struct {
	sales repository.SaleRepository
	runs  int
}

func (t *countingTx) RunSales(ctx context.Context, fn func(repository.SaleRepository) error) error {
	t.runs++
	return fn(t.sales)
}
