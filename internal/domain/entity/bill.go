package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill cargo de facturación asociado a un único cliente.
// Amount no tiene restricción de signo: montos negativos (abonos) se aceptan.
type Bill struct {
	ID          int64
	CustomerID  int64 // FK a customers.id (interno), borrado en cascada
	Amount      decimal.Decimal
	Description *string
	CreatedAt   time.Time
	CreatedBy   *string // operador que registró el cargo
}

// BillWithCustomer cargo con los datos del cliente para listados.
type BillWithCustomer struct {
	Bill
	CustomerCode  string
	CustomerName  string
	CustomerEmail string
}
