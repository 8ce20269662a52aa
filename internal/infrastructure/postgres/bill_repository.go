package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/exhibition-api/internal/domain"
	"github.com/jhoicas/exhibition-api/internal/domain/entity"
	"github.com/jhoicas/exhibition-api/internal/domain/repository"
)

var _ repository.BillRepository = (*BillRepo)(nil)

const billColumns = `b.id, b.customer_id, b.amount, b.description, b.created_at, b.created_by`

// BillRepo implementación de BillRepository (usable con pool o tx).
type BillRepo struct {
	q Querier
}

// NewBillRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillRepository(q Querier) *BillRepo {
	return &BillRepo{q: q}
}

// Create persiste un cargo y completa ID y CreatedAt.
// Si el cliente referenciado no existe retorna domain.ErrNotFound.
func (r *BillRepo) Create(ctx context.Context, bill *entity.Bill) error {
	query := `
		INSERT INTO bills (customer_id, amount, description, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, bill.CustomerID, bill.Amount, bill.Description, bill.CreatedBy).
		Scan(&bill.ID, &bill.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert bill: %w", err)
	}
	return nil
}

// GetByID obtiene un cargo por ID.
func (r *BillRepo) GetByID(ctx context.Context, id int64) (*entity.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills b WHERE b.id = $1`
	var b entity.Bill
	err := r.q.QueryRow(ctx, query, id).Scan(&b.ID, &b.CustomerID, &b.Amount, &b.Description, &b.CreatedAt, &b.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bill: %w", err)
	}
	return &b, nil
}

// ListByCustomer lista los cargos del cliente, más recientes primero.
func (r *BillRepo) ListByCustomer(ctx context.Context, customerID int64) ([]*entity.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills b WHERE b.customer_id = $1 ORDER BY b.created_at DESC, b.id DESC`
	rows, err := r.q.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("list bills by customer: %w", err)
	}
	defer rows.Close()
	var list []*entity.Bill
	for rows.Next() {
		var b entity.Bill
		if err := rows.Scan(&b.ID, &b.CustomerID, &b.Amount, &b.Description, &b.CreatedAt, &b.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// List lista todos los cargos con los datos de su cliente, más recientes primero.
func (r *BillRepo) List(ctx context.Context, filter repository.BillFilter) ([]*entity.BillWithCustomer, error) {
	var where string
	var args []any
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, likePattern(s))
		where = `WHERE (c.customer_id ILIKE $1 OR c.name ILIKE $1 OR c.email ILIKE $1 OR b.description ILIKE $1)`
	}
	args = append(args, filter.Limit, filter.Offset)
	query := fmt.Sprintf(`
		SELECT %s, c.customer_id, c.name, c.email
		FROM bills b JOIN customers c ON c.id = b.customer_id
		%s
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $%d OFFSET $%d`, billColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()
	var list []*entity.BillWithCustomer
	for rows.Next() {
		var b entity.BillWithCustomer
		if err := rows.Scan(&b.ID, &b.CustomerID, &b.Amount, &b.Description, &b.CreatedAt, &b.CreatedBy,
			&b.CustomerCode, &b.CustomerName, &b.CustomerEmail); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// SumByCustomer suma los montos del cliente; cero si no tiene cargos.
func (r *BillRepo) SumByCustomer(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM bills WHERE customer_id = $1`, customerID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum bills: %w", err)
	}
	return total, nil
}

// CountByCustomer cuenta los cargos del cliente.
func (r *BillRepo) CountByCustomer(ctx context.Context, customerID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM bills WHERE customer_id = $1`, customerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count bills: %w", err)
	}
	return n, nil
}

// Update actualiza monto y descripción. Cliente, fecha y operador no cambian.
func (r *BillRepo) Update(ctx context.Context, bill *entity.Bill) error {
	tag, err := r.q.Exec(ctx, `UPDATE bills SET amount = $2, description = $3 WHERE id = $1`,
		bill.ID, bill.Amount, bill.Description)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cargo por ID.
func (r *BillRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
