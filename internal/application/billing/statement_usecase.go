package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/exhibition-api/internal/domain"
	"github.com/jhoicas/exhibition-api/internal/domain/repository"
)

// StatementUseCase genera el estado de cuenta en PDF de un cliente: datos, QR del customer_id
// y detalle de cargos.
type StatementUseCase struct {
	tx        TxRunner
	generator StatementGenerator
	title     string
	now       func() time.Time
}

// NewStatementUseCase construye el caso de uso. title es el encabezado del documento (SITE_TITLE).
func NewStatementUseCase(tx TxRunner, generator StatementGenerator, title string) *StatementUseCase {
	return &StatementUseCase{tx: tx, generator: generator, title: title, now: time.Now}
}

// Download retorna (pdfBytes, filename, nil) o domain.ErrNotFound si el cliente no existe.
func (uc *StatementUseCase) Download(ctx context.Context, id int64) ([]byte, string, error) {
	data := StatementData{Title: uc.title, GeneratedAt: uc.now()}

	// ── 1. Cliente, cargos y resumen en una misma instantánea ────────────────
	err := uc.tx.RunReadOnly(ctx, func(customers repository.CustomerRepository, bills repository.BillRepository) error {
		customer, err := customers.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("estado de cuenta: obtener cliente: %w", err)
		}
		if customer == nil {
			return domain.ErrNotFound
		}
		list, err := bills.ListByCustomer(ctx, customer.ID)
		if err != nil {
			return fmt.Errorf("estado de cuenta: obtener cargos: %w", err)
		}
		summary, err := NewAggregator(bills).Summary(ctx, customer.ID)
		if err != nil {
			return err
		}
		data.Customer = customer
		data.Bills = list
		data.Summary = summary
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	// ── 2. Generar PDF ───────────────────────────────────────────────────────
	pdfBytes, err := uc.generator.GenerateStatement(ctx, data)
	if err != nil {
		return nil, "", fmt.Errorf("estado de cuenta: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("statement_%s.pdf", data.Customer.CustomerID), nil
}
