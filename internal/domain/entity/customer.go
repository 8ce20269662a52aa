package entity

import "time"

// Customer representa un cliente registrado en la exhibición.
// CustomerID es el identificador público de 8 caracteres; ID es la identidad interna del store.
type Customer struct {
	ID         int64
	CustomerID string
	Name       string
	Email      string
	Phone      string
	EmailSent  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// String formato corto para logs y mensajes al operador.
func (c *Customer) String() string {
	return c.Name + " (" + c.CustomerID + ")"
}
