package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBillRequest body para POST /api/customers/:id/bills.
// Amount admite número o string JSON ("100.00"); sin restricción de signo.
type CreateBillRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description,omitempty"`
	CreatedBy   *string          `json:"created_by,omitempty" validate:"omitempty,max=255"`
}

// UpdateBillRequest body para PUT /api/bills/:id.
type UpdateBillRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description,omitempty"`
}

// BillListRequest filtros de GET /api/bills.
type BillListRequest struct {
	PageRequest
	Search string `query:"search"`
}

// BillResponse cargo en respuestas. CustomerRef es el ID interno del cliente; CustomerID su código público.
type BillResponse struct {
	ID            int64     `json:"id"`
	CustomerRef   int64     `json:"customer_ref"`
	CustomerID    string    `json:"customer_id,omitempty"`
	CustomerName  string    `json:"customer_name,omitempty"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	Amount        string    `json:"amount"`
	Description   *string   `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     *string   `json:"created_by"`
}

// BillListResponse página de cargos.
type BillListResponse struct {
	Items []*BillResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// CustomerBillsResponse cargos de un cliente con su resumen.
type CustomerBillsResponse struct {
	Customer *CustomerResponse `json:"customer"`
	Bills    []*BillResponse   `json:"bills"`
}
