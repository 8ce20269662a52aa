package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/exhibition-api/internal/domain/entity"
)

// BillFilter criterios de listado global de cargos.
type BillFilter struct {
	Search string // busca en customer_id, nombre y email del cliente y en la descripción
	Limit  int
	Offset int
}

// BillRepository define el puerto de persistencia para Bill.
// Todos los listados van del más reciente al más antiguo.
type BillRepository interface {
	Create(ctx context.Context, bill *entity.Bill) error
	GetByID(ctx context.Context, id int64) (*entity.Bill, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*entity.Bill, error)
	List(ctx context.Context, filter BillFilter) ([]*entity.BillWithCustomer, error)
	SumByCustomer(ctx context.Context, customerID int64) (decimal.Decimal, error)
	CountByCustomer(ctx context.Context, customerID int64) (int, error)
	Update(ctx context.Context, bill *entity.Bill) error
	Delete(ctx context.Context, id int64) error
}
