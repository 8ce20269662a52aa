package customerid_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/exhibition-api/pkg/customerid"
)

var idPattern = regexp.MustCompile(`^[A-Z0-9]{8}$`)

func TestGenerate_FormaDelIdentificador(t *testing.T) {
	for i := 0; i < 500; i++ {
		id := customerid.Generate()
		require.Len(t, id, customerid.Length)
		assert.Regexp(t, idPattern, id)
		assert.True(t, customerid.Valid(id))
	}
}

func TestValid(t *testing.T) {
	assert.True(t, customerid.Valid("AB12CD34"))
	assert.False(t, customerid.Valid("ab12cd34"), "minúsculas no son válidas")
	assert.False(t, customerid.Valid("AB12CD3"), "longitud 7")
	assert.False(t, customerid.Valid("AB12CD345"), "longitud 9")
	assert.False(t, customerid.Valid("AB12-D34"))
	assert.False(t, customerid.Valid(""))
}

func TestGenerateUnique_SaltaIdentificadoresOcupados(t *testing.T) {
	var seen []string
	exists := func(_ context.Context, id string) (bool, error) {
		seen = append(seen, id)
		// Los dos primeros tokens se reportan como ocupados.
		return len(seen) <= 2, nil
	}

	id, err := customerid.GenerateUnique(context.Background(), exists)
	require.NoError(t, err)
	require.Len(t, seen, 3)
	assert.Equal(t, seen[2], id, "debe retornar el primer token libre")
}

func TestGenerateUnique_AgotaIntentos(t *testing.T) {
	calls := 0
	exists := func(_ context.Context, _ string) (bool, error) {
		calls++
		return true, nil
	}

	_, err := customerid.GenerateUnique(context.Background(), exists)
	assert.ErrorIs(t, err, customerid.ErrExhausted)
	assert.Equal(t, customerid.MaxAttempts, calls)
}

func TestGenerateUnique_PropagaErrorDelStore(t *testing.T) {
	boom := errors.New("conexión perdida")
	exists := func(_ context.Context, _ string) (bool, error) {
		return false, boom
	}

	_, err := customerid.GenerateUnique(context.Background(), exists)
	assert.ErrorIs(t, err, boom)
}
