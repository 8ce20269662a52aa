package billing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/exhibition-api/internal/domain/repository"
)

// BillingSummary cantidad y suma de los cargos de un cliente.
type BillingSummary struct {
	Count int
	Total decimal.Decimal
}

// Aggregator calcula los agregados de facturación por cliente.
// Sin caché: cada llamada lee los cargos vigentes.
type Aggregator struct {
	bills repository.BillRepository
}

// NewAggregator construye el agregador sobre el repo de cargos (pool o tx).
func NewAggregator(bills repository.BillRepository) *Aggregator {
	return &Aggregator{bills: bills}
}

// TotalFor suma los montos del cliente; cero si no tiene cargos.
func (a *Aggregator) TotalFor(ctx context.Context, customerID int64) (decimal.Decimal, error) {
	total, err := a.bills.SumByCustomer(ctx, customerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total de cargos: %w", err)
	}
	return total, nil
}

// CountFor cantidad de cargos del cliente; cero si no tiene.
func (a *Aggregator) CountFor(ctx context.Context, customerID int64) (int, error) {
	n, err := a.bills.CountByCustomer(ctx, customerID)
	if err != nil {
		return 0, fmt.Errorf("cantidad de cargos: %w", err)
	}
	return n, nil
}

// Summary cantidad y total en una sola llamada.
func (a *Aggregator) Summary(ctx context.Context, customerID int64) (BillingSummary, error) {
	n, err := a.CountFor(ctx, customerID)
	if err != nil {
		return BillingSummary{}, err
	}
	total, err := a.TotalFor(ctx, customerID)
	if err != nil {
		return BillingSummary{}, err
	}
	return BillingSummary{Count: n, Total: total}, nil
}
