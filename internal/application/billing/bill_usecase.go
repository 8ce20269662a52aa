package billing

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/exhibition-api/internal/application/dto"
	"github.com/jhoicas/exhibition-api/internal/domain"
	"github.com/jhoicas/exhibition-api/internal/domain/entity"
	"github.com/jhoicas/exhibition-api/internal/domain/repository"
)

// maxAmount límite exclusivo que cabe en NUMERIC(10,2).
var maxAmount = decimal.New(1, 8)

// BillUseCase casos de uso de cargos.
type BillUseCase struct {
	repo      repository.BillRepository
	customers repository.CustomerRepository
	agg       *Aggregator
	metrics   Metrics
	log       zerolog.Logger
}

// NewBillUseCase construye el caso de uso. metrics puede ser nil.
func NewBillUseCase(
	repo repository.BillRepository,
	customers repository.CustomerRepository,
	metrics Metrics,
	log zerolog.Logger,
) *BillUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &BillUseCase{
		repo:      repo,
		customers: customers,
		agg:       NewAggregator(repo),
		metrics:   metrics,
		log:       log,
	}
}

// Create registra un cargo para el cliente (ID interno). Cliente inexistente → domain.ErrNotFound.
func (uc *BillUseCase) Create(ctx context.Context, customerID int64, in dto.CreateBillRequest) (*dto.BillResponse, error) {
	in.CreatedBy = trimOptional(in.CreatedBy)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	customer, err := uc.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	bill := &entity.Bill{
		CustomerID:  customer.ID,
		Amount:      *in.Amount,
		Description: trimOptional(in.Description),
		CreatedBy:   in.CreatedBy,
	}
	if err := uc.repo.Create(ctx, bill); err != nil {
		return nil, err
	}
	uc.metrics.BillCreated()
	uc.log.Info().
		Int64("bill_id", bill.ID).
		Str("customer_id", customer.CustomerID).
		Str("amount", bill.Amount.StringFixed(2)).
		Msg("cargo registrado")

	out := toBillResponse(bill)
	out.CustomerID = customer.CustomerID
	out.CustomerName = customer.Name
	out.CustomerEmail = customer.Email
	return out, nil
}

// GetByID obtiene un cargo.
func (uc *BillUseCase) GetByID(ctx context.Context, id int64) (*dto.BillResponse, error) {
	bill, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.withCustomer(ctx, bill)
}

// Update modifica monto y descripción. El cliente y created_by no cambian.
func (uc *BillUseCase) Update(ctx context.Context, id int64, in dto.UpdateBillRequest) (*dto.BillResponse, error) {
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	bill, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	bill.Amount = *in.Amount
	bill.Description = trimOptional(in.Description)
	if err := uc.repo.Update(ctx, bill); err != nil {
		return nil, err
	}
	return uc.withCustomer(ctx, bill)
}

// Delete elimina un cargo.
func (uc *BillUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.log.Info().Int64("bill_id", id).Msg("cargo eliminado")
	return nil
}

// List lista todos los cargos, más recientes primero.
func (uc *BillUseCase) List(ctx context.Context, in dto.BillListRequest) (*dto.BillListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.BillFilter{
		Search: strings.TrimSpace(in.Search),
		Limit:  in.Limit,
		Offset: in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.BillListResponse{
		Items: make([]*dto.BillResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, b := range list {
		out.Items = append(out.Items, toBillWithCustomerResponse(b))
	}
	return out, nil
}

// ListByCustomer cargos del cliente (más recientes primero) con su resumen.
func (uc *BillUseCase) ListByCustomer(ctx context.Context, customerID int64) (*dto.CustomerBillsResponse, error) {
	customer, err := uc.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	bills, err := uc.repo.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	summary, err := uc.agg.Summary(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	out := &dto.CustomerBillsResponse{
		Customer: toCustomerResponse(customer, summary),
		Bills:    make([]*dto.BillResponse, 0, len(bills)),
	}
	for _, b := range bills {
		r := toBillResponse(b)
		r.CustomerID = customer.CustomerID
		out.Bills = append(out.Bills, r)
	}
	return out, nil
}

func (uc *BillUseCase) get(ctx context.Context, id int64) (*entity.Bill, error) {
	bill, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, domain.ErrNotFound
	}
	return bill, nil
}

func (uc *BillUseCase) withCustomer(ctx context.Context, bill *entity.Bill) (*dto.BillResponse, error) {
	out := toBillResponse(bill)
	customer, err := uc.customers.GetByID(ctx, bill.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		out.CustomerID = customer.CustomerID
		out.CustomerName = customer.Name
		out.CustomerEmail = customer.Email
	}
	return out, nil
}

// validateAmount exige monto presente, con a lo sumo 2 decimales y que quepa en NUMERIC(10,2).
func validateAmount(amount *decimal.Decimal) error {
	switch {
	case amount == nil:
		return domain.NewValidationError("amount", "es requerido")
	case amount.Exponent() < -2 && !amount.Equal(amount.Round(2)):
		return domain.NewValidationError("amount", "máximo 2 decimales")
	case amount.Abs().GreaterThanOrEqual(maxAmount):
		return domain.NewValidationError("amount", "máximo 8 dígitos enteros")
	}
	return nil
}

// trimOptional normaliza un texto opcional: vacío tras recortar → nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
