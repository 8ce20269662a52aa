package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/exhibition-api/internal/domain/entity"
	"github.com/jhoicas/exhibition-api/internal/domain/repository"
)

// TxRunner ejecuta una función de solo lectura con repos atados a una misma transacción.
type TxRunner interface {
	RunReadOnly(ctx context.Context, fn func(
		customerRepo repository.CustomerRepository,
		billRepo repository.BillRepository,
	) error) error
}

// WelcomeNotifier envía el correo de bienvenida con el código QR del cliente.
// Retorna true solo si el transporte aceptó el mensaje; nunca retorna error ni hace panic.
type WelcomeNotifier interface {
	Notify(customer *entity.Customer) bool
}

// CustomerExportRow un cliente con sus agregados y cargos (más recientes primero) para la exportación.
type CustomerExportRow struct {
	Customer  *entity.Customer
	BillCount int
	Total     decimal.Decimal
	Bills     []*entity.Bill
}

// SpreadsheetExporter serializa las filas en un libro de cálculo en memoria.
type SpreadsheetExporter interface {
	Export(rows []CustomerExportRow) ([]byte, error)
}

// StatementData datos del estado de cuenta en PDF de un cliente.
type StatementData struct {
	Title       string
	Customer    *entity.Customer
	Bills       []*entity.Bill
	Summary     BillingSummary
	GeneratedAt time.Time
}

// StatementGenerator genera el estado de cuenta en PDF.
type StatementGenerator interface {
	GenerateStatement(ctx context.Context, data StatementData) ([]byte, error)
}

// Metrics contadores de negocio; la implementación real vive en infrastructure/metrics.
type Metrics interface {
	CustomerCreated()
	WelcomeEmail(sent bool)
	BillCreated()
	Exported(customers int)
}

// NopMetrics implementación vacía de Metrics.
type NopMetrics struct{}

func (NopMetrics) CustomerCreated()  {}
func (NopMetrics) WelcomeEmail(bool) {}
func (NopMetrics) BillCreated()      {}
func (NopMetrics) Exported(int)      {}
