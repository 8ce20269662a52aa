package dto

import "time"

// CreateCustomerRequest body para POST /api/customers. El customer_id lo asigna el sistema.
type CreateCustomerRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=254"`
	Phone string `json:"phone" validate:"required,max=20"`
}

// UpdateCustomerRequest body para PUT /api/customers/:id. customer_id no es editable.
type UpdateCustomerRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=254"`
	Phone string `json:"phone" validate:"required,max=20"`
}

// CustomerListRequest filtros de GET /api/customers y de la exportación.
type CustomerListRequest struct {
	PageRequest
	Search    string `query:"search"`
	EmailSent *bool  `query:"email_sent"`
}

// CustomerResponse cliente con su resumen de facturación.
type CustomerResponse struct {
	ID          int64     `json:"id"`
	CustomerID  string    `json:"customer_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	EmailSent   bool      `json:"email_sent"`
	BillCount   int       `json:"bill_count"`
	TotalAmount string    `json:"total_amount"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CustomerListResponse página de clientes.
type CustomerListResponse struct {
	Items []*CustomerResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// CreateCustomerResponse resultado de la creación. Warning se llena si el correo no pudo enviarse.
type CreateCustomerResponse struct {
	Customer *CustomerResponse `json:"customer"`
	Message  string            `json:"message"`
	Warning  string            `json:"warning,omitempty"`
}

// WelcomeResponse resultado de POST /api/customers/:id/welcome.
type WelcomeResponse struct {
	Sent      bool   `json:"sent"`
	EmailSent bool   `json:"email_sent"`
	Message   string `json:"message"`
}

// ExportRequest selección de clientes a exportar: IDs explícitos (en ese orden) o el filtro del listado.
type ExportRequest struct {
	IDs       []int64
	Search    string
	EmailSent *bool
}
