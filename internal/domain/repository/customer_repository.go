package repository

import (
	"context"

	"github.com/jhoicas/exhibition-api/internal/domain/entity"
)

// CustomerFilter criterios de listado de clientes (orden: más recientes primero).
type CustomerFilter struct {
	Search    string // busca en customer_id, name, email y phone
	EmailSent *bool
	Limit     int
	Offset    int
}

// CustomerRepository define el puerto de persistencia para Customer.
// Los Get retornan (nil, nil) cuando el cliente no existe.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id int64) (*entity.Customer, error)
	GetByCustomerID(ctx context.Context, customerID string) (*entity.Customer, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*entity.Customer, error)
	ExistsByCustomerID(ctx context.Context, customerID string) (bool, error)
	List(ctx context.Context, filter CustomerFilter) ([]*entity.Customer, error)
	Count(ctx context.Context, filter CustomerFilter) (int, error)
	Update(ctx context.Context, customer *entity.Customer) error
	MarkEmailSent(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}
