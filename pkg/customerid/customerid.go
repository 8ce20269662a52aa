package customerid

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// Length longitud fija del identificador público de cliente.
const Length = 8

// MaxAttempts tope de tokens generados por llamada a GenerateUnique.
// Con 36^8 combinaciones una colisión es rarísima; el tope evita un ciclo infinito si el store miente.
const MaxAttempts = 16

// ErrExhausted se retorna cuando ningún token libre apareció dentro de MaxAttempts intentos.
var ErrExhausted = errors.New("customerid: no se encontró un identificador libre")

// charset alfabeto del identificador: A-Z y 0-9.
var charset = append(append([]rune{}, lo.UpperCaseLettersCharset...), lo.NumbersCharset...)

// ExistsFunc consulta si un identificador ya está asignado a algún cliente.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// Generate produce un token aleatorio de 8 caracteres alfanuméricos en mayúscula.
// No garantiza unicidad; para eso usar GenerateUnique.
func Generate() string {
	return lo.RandomString(Length, charset)
}

// Valid indica si s tiene la forma de un identificador de cliente.
func Valid(s string) bool {
	if len(s) != Length {
		return false
	}
	for _, r := range s {
		if !lo.Contains(charset, r) {
			return false
		}
	}
	return true
}

// GenerateUnique genera tokens hasta encontrar uno que exists reporte como libre.
// No escribe nada: el caller persiste el resultado. Los errores del store se propagan.
func GenerateUnique(ctx context.Context, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		id := Generate()
		taken, err := exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("customerid: verificar unicidad: %w", err)
		}
		if !taken {
			return id, nil
		}
	}
	return "", ErrExhausted
}
