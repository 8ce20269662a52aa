package billing_test

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/exhibition-api/internal/application/billing"
	"github.com/jhoicas/exhibition-api/internal/domain"
	"github.com/jhoicas/exhibition-api/internal/domain/entity"
	"github.com/jhoicas/exhibition-api/internal/domain/repository"
	"github.com/jhoicas/exhibition-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Almacén en memoria con reloj que avanza un minuto por lectura
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	*memory.Store

	// forzar colisiones: ExistsByCustomerID responde true las primeras existsHits veces
	// y Create responde ErrDuplicate las primeras dupCreates veces.
	existsHits  int
	dupCreates  int
	existsCalls int
	createCalls int

	// markErr lo devuelve MarkEmailSent en lugar de persistir.
	markErr error
}

func newMemStore() *memStore {
	clock := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s := memory.NewStore()
	s.Now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return &memStore{Store: s}
}

func (s *memStore) customerRepo() repository.CustomerRepository {
	return &collidingCustomerRepo{CustomerRepo: s.Customers(), s: s}
}

func (s *memStore) billRepo() repository.BillRepository { return s.Bills() }

type collidingCustomerRepo struct {
	*memory.CustomerRepo
	s *memStore
}

func (r *collidingCustomerRepo) ExistsByCustomerID(ctx context.Context, code string) (bool, error) {
	r.s.existsCalls++
	if r.s.existsHits > 0 {
		r.s.existsHits--
		return true, nil
	}
	return r.CustomerRepo.ExistsByCustomerID(ctx, code)
}

func (r *collidingCustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	r.s.createCalls++
	if r.s.dupCreates > 0 {
		r.s.dupCreates--
		return domain.ErrDuplicate
	}
	return r.CustomerRepo.Create(ctx, c)
}

func (r *collidingCustomerRepo) MarkEmailSent(ctx context.Context, id int64) error {
	if r.s.markErr != nil {
		return r.s.markErr
	}
	return r.CustomerRepo.MarkEmailSent(ctx, id)
}

// ──────────────────────────────────────────────────────────────────────────────
// Otros fakes
// ──────────────────────────────────────────────────────────────────────────────

type fakeTx struct {
	s     *memStore
	calls int
}

func (t *fakeTx) RunReadOnly(ctx context.Context, fn func(repository.CustomerRepository, repository.BillRepository) error) error {
	t.calls++
	return t.s.Store.RunReadOnly(ctx, fn)
}

type fakeNotifier struct {
	ok   bool
	sent []string
}

func (n *fakeNotifier) Notify(c *entity.Customer) bool {
	n.sent = append(n.sent, c.CustomerID)
	return n.ok
}

type fakeExporter struct {
	rows []billing.CustomerExportRow
	err  error
}

func (e *fakeExporter) Export(rows []billing.CustomerExportRow) ([]byte, error) {
	e.rows = rows
	if e.err != nil {
		return nil, e.err
	}
	return []byte("xlsx"), nil
}

type fakeStatement struct {
	data billing.StatementData
}

func (g *fakeStatement) GenerateStatement(_ context.Context, data billing.StatementData) ([]byte, error) {
	g.data = data
	return []byte("%PDF"), nil
}

type countingMetrics struct {
	created, bills, sent, failed, exported int
}

func (m *countingMetrics) CustomerCreated() { m.created++ }
func (m *countingMetrics) BillCreated()     { m.bills++ }
func (m *countingMetrics) Exported(n int)   { m.exported += n }
func (m *countingMetrics) WelcomeEmail(ok bool) {
	if ok {
		m.sent++
	} else {
		m.failed++
	}
}

var errBoom = errors.New("boom")

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func strPtr(s string) *string { return &s }
