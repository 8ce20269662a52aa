// Package memory implementa los puertos de persistencia en memoria (tests y demos sin base de datos).
// Replica el comportamiento observable de los repos de postgres: orden más recientes primero,
// (nil, nil) cuando no existe, borrado en cascada y ErrDuplicate sobre customer_id.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/exhibition-api/internal/domain"
	"github.com/jhoicas/exhibition-api/internal/domain/entity"
	"github.com/jhoicas/exhibition-api/internal/domain/repository"
)

// Store datos compartidos por los repos en memoria.
type Store struct {
	mu        sync.Mutex
	customers map[int64]*entity.Customer
	bills     map[int64]*entity.Bill
	customerN int64
	billN     int64

	// Now reloj usado para created_at/updated_at.
	Now func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		customers: map[int64]*entity.Customer{},
		bills:     map[int64]*entity.Bill{},
		Now:       time.Now,
	}
}

// Customers repo de clientes sobre el almacén.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s: s} }

// Bills repo de cargos sobre el almacén.
func (s *Store) Bills() *BillRepo { return &BillRepo{s: s} }

// RunReadOnly ejecuta fn con repos sobre el mismo almacén.
func (s *Store) RunReadOnly(_ context.Context, fn func(repository.CustomerRepository, repository.BillRepository) error) error {
	return fn(s.Customers(), s.Bills())
}

// CustomerCount cantidad de clientes almacenados.
func (s *Store) CustomerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.customers)
}

// BillCount cantidad de cargos almacenados.
func (s *Store) BillCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bills)
}

// ── Clientes ──────────────────────────────────────────────────────────────────

// CustomerRepo implementa repository.CustomerRepository.
type CustomerRepo struct{ s *Store }

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.customers {
		if o.CustomerID == c.CustomerID {
			return domain.ErrDuplicate
		}
	}
	r.s.customerN++
	now := r.s.Now()
	c.ID = r.s.customerN
	c.CreatedAt, c.UpdatedAt = now, now
	cp := *c
	r.s.customers[c.ID] = &cp
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id int64) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *CustomerRepo) GetByCustomerID(_ context.Context, code string) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.customers {
		if c.CustomerID == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *CustomerRepo) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Customer, error) {
	out := make([]*entity.Customer, 0, len(ids))
	for _, id := range ids {
		c, _ := r.GetByID(ctx, id)
		if c != nil {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *CustomerRepo) ExistsByCustomerID(ctx context.Context, code string) (bool, error) {
	c, _ := r.GetByCustomerID(ctx, code)
	return c != nil, nil
}

func (r *CustomerRepo) List(_ context.Context, f repository.CustomerFilter) ([]*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return page(r.matching(f), f.Limit, f.Offset), nil
}

func (r *CustomerRepo) Count(_ context.Context, f repository.CustomerFilter) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.matching(f)), nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.customers[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Name, cur.Email, cur.Phone = c.Name, c.Email, c.Phone
	cur.UpdatedAt = r.s.Now()
	c.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r *CustomerRepo) MarkEmailSent(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.customers[id]
	if !ok {
		return domain.ErrNotFound
	}
	cur.EmailSent = true
	cur.UpdatedAt = r.s.Now()
	return nil
}

func (r *CustomerRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.customers, id)
	for bid, b := range r.s.bills {
		if b.CustomerID == id {
			delete(r.s.bills, bid)
		}
	}
	return nil
}

func (r *CustomerRepo) matching(f repository.CustomerFilter) []*entity.Customer {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	var out []*entity.Customer
	for _, c := range r.s.customers {
		if f.EmailSent != nil && c.EmailSent != *f.EmailSent {
			continue
		}
		if q != "" && !containsAny(q, c.CustomerID, c.Name, c.Email, c.Phone) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out
}

// ── Cargos ────────────────────────────────────────────────────────────────────

// BillRepo implementa repository.BillRepository.
type BillRepo struct{ s *Store }

var _ repository.BillRepository = (*BillRepo)(nil)

func (r *BillRepo) Create(_ context.Context, b *entity.Bill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[b.CustomerID]; !ok {
		return domain.ErrNotFound
	}
	r.s.billN++
	b.ID = r.s.billN
	b.CreatedAt = r.s.Now()
	cp := *b
	r.s.bills[b.ID] = &cp
	return nil
}

func (r *BillRepo) GetByID(_ context.Context, id int64) (*entity.Bill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bills[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *BillRepo) ListByCustomer(_ context.Context, customerID int64) ([]*entity.Bill, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.byCustomer(customerID), nil
}

func (r *BillRepo) List(_ context.Context, f repository.BillFilter) ([]*entity.BillWithCustomer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	q := strings.ToLower(strings.TrimSpace(f.Search))
	var out []*entity.BillWithCustomer
	for _, b := range r.s.bills {
		c := r.s.customers[b.CustomerID]
		desc := ""
		if b.Description != nil {
			desc = *b.Description
		}
		if q != "" && !containsAny(q, c.CustomerID, c.Name, c.Email, desc) {
			continue
		}
		out = append(out, &entity.BillWithCustomer{
			Bill:          *b,
			CustomerCode:  c.CustomerID,
			CustomerName:  c.Name,
			CustomerEmail: c.Email,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return page(out, f.Limit, f.Offset), nil
}

func (r *BillRepo) SumByCustomer(_ context.Context, customerID int64) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	total := decimal.Zero
	for _, b := range r.byCustomer(customerID) {
		total = total.Add(b.Amount)
	}
	return total, nil
}

func (r *BillRepo) CountByCustomer(_ context.Context, customerID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.byCustomer(customerID)), nil
}

func (r *BillRepo) Update(_ context.Context, b *entity.Bill) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.bills[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Amount, cur.Description = b.Amount, b.Description
	return nil
}

func (r *BillRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.bills[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.bills, id)
	return nil
}

func (r *BillRepo) byCustomer(customerID int64) []*entity.Bill {
	out := lo.FilterMap(lo.Values(r.s.bills), func(b *entity.Bill, _ int) (*entity.Bill, bool) {
		if b.CustomerID != customerID {
			return nil, false
		}
		cp := *b
		return &cp, true
	})
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i].CreatedAt, out[i].ID, out[j].CreatedAt, out[j].ID)
	})
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

func newer(ta time.Time, ida int64, tb time.Time, idb int64) bool {
	if !ta.Equal(tb) {
		return ta.After(tb)
	}
	return ida > idb
}

func containsAny(q string, fields ...string) bool {
	return lo.SomeBy(fields, func(f string) bool {
		return strings.Contains(strings.ToLower(f), q)
	})
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
