package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/exhibition-api/internal/application/dto"
	"github.com/jhoicas/exhibition-api/internal/domain"
	"github.com/jhoicas/exhibition-api/internal/domain/entity"
	"github.com/jhoicas/exhibition-api/internal/domain/repository"
)

const (
	// ExportContentType MIME del libro exportado.
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	// ExportFilename nombre sugerido del adjunto.
	ExportFilename = "customers_export.xlsx"
)

// exportPageSize tamaño de página al recorrer el filtro completo.
const exportPageSize = 500

// ErrExportFailed envuelve los fallos al serializar el libro.
var ErrExportFailed = errors.New("no se pudo generar la exportación")

// ExportUseCase exporta clientes seleccionados con sus agregados y cargos.
type ExportUseCase struct {
	tx       TxRunner
	exporter SpreadsheetExporter
	metrics  Metrics
	log      zerolog.Logger
}

// NewExportUseCase construye el caso de uso. metrics puede ser nil.
func NewExportUseCase(tx TxRunner, exporter SpreadsheetExporter, metrics Metrics, log zerolog.Logger) *ExportUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &ExportUseCase{tx: tx, exporter: exporter, metrics: metrics, log: log}
}

// Export genera el .xlsx. Con IDs se respeta el orden recibido (un ID inexistente → domain.ErrNotFound);
// sin IDs se exportan todos los clientes que cumplan el filtro, más recientes primero.
// Una selección vacía produce un libro solo con encabezados.
func (uc *ExportUseCase) Export(ctx context.Context, in dto.ExportRequest) ([]byte, error) {
	var rows []CustomerExportRow
	err := uc.tx.RunReadOnly(ctx, func(customers repository.CustomerRepository, bills repository.BillRepository) error {
		selected, err := uc.selectCustomers(ctx, customers, in)
		if err != nil {
			return err
		}
		agg := NewAggregator(bills)
		rows = make([]CustomerExportRow, 0, len(selected))
		for _, c := range selected {
			list, err := bills.ListByCustomer(ctx, c.ID)
			if err != nil {
				return fmt.Errorf("exportar: cargos de %s: %w", c.CustomerID, err)
			}
			summary, err := agg.Summary(ctx, c.ID)
			if err != nil {
				return err
			}
			rows = append(rows, CustomerExportRow{
				Customer:  c,
				BillCount: summary.Count,
				Total:     summary.Total,
				Bills:     list,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out, err := uc.exporter.Export(rows)
	if err != nil {
		uc.log.Error().Err(err).Int("customers", len(rows)).Msg("fallo al generar la exportación")
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	uc.metrics.Exported(len(rows))
	uc.log.Info().Int("customers", len(rows)).Int("bytes", len(out)).Msg("exportación generada")
	return out, nil
}

func (uc *ExportUseCase) selectCustomers(
	ctx context.Context,
	customers repository.CustomerRepository,
	in dto.ExportRequest,
) ([]*entity.Customer, error) {
	if len(in.IDs) > 0 {
		found, err := customers.GetByIDs(ctx, in.IDs)
		if err != nil {
			return nil, fmt.Errorf("exportar: obtener clientes: %w", err)
		}
		byID := make(map[int64]*entity.Customer, len(found))
		for _, c := range found {
			byID[c.ID] = c
		}
		ordered := make([]*entity.Customer, 0, len(in.IDs))
		for _, id := range in.IDs {
			c, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("%w: cliente %d", domain.ErrNotFound, id)
			}
			ordered = append(ordered, c)
		}
		return ordered, nil
	}

	filter := repository.CustomerFilter{
		Search:    strings.TrimSpace(in.Search),
		EmailSent: in.EmailSent,
		Limit:     exportPageSize,
	}
	var all []*entity.Customer
	for {
		page, err := customers.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("exportar: listar clientes: %w", err)
		}
		all = append(all, page...)
		if len(page) < exportPageSize {
			return all, nil
		}
		filter.Offset += exportPageSize
	}
}
