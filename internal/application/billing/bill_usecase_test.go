package billing_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/exhibition-api/internal/application/billing"
	"github.com/jhoicas/exhibition-api/internal/application/dto"
	"github.com/jhoicas/exhibition-api/internal/domain"
)

// seedCustomer crea un cliente y retorna su ID interno.
func seedCustomer(t *testing.T, s *memStore, name string) int64 {
	t.Helper()
	uc := newCustomerUC(s, &fakeNotifier{ok: true}, nil)
	out, err := uc.Create(context.Background(), dto.CreateCustomerRequest{Name: name, Email: "x@example.com", Phone: "1"})
	require.NoError(t, err)
	return out.Customer.ID
}

func TestAggregator_SinCargosEsCero(t *testing.T) {
	s := newMemStore()
	id := seedCustomer(t, s, "Ada")
	agg := billing.NewAggregator(s.billRepo())

	total, err := agg.TotalFor(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, total.IsZero())
	n, err := agg.CountFor(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestAggregator_SumaYCuenta(t *testing.T) {
	s := newMemStore()
	id := seedCustomer(t, s, "Ada")
	uc := billing.NewBillUseCase(s.billRepo(), s.customerRepo(), nil, zerolog.Nop())
	for _, a := range []string{"100.00", "50.00"} {
		_, err := uc.Create(context.Background(), id, dto.CreateBillRequest{Amount: amount(a)})
		require.NoError(t, err)
	}

	agg := billing.NewAggregator(s.billRepo())
	total, err := agg.TotalFor(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "150.00", total.StringFixed(2))

	_, err = uc.Create(context.Background(), id, dto.CreateBillRequest{Amount: amount("1")})
	require.NoError(t, err)
	n, err := agg.CountFor(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestCreateBill_ResumenDelCliente(t *testing.T) {
	s := newMemStore()
	id := seedCustomer(t, s, "Ada")
	metrics := &countingMetrics{}
	uc := billing.NewBillUseCase(s.billRepo(), s.customerRepo(), metrics, zerolog.Nop())

	first, err := uc.Create(context.Background(), id, dto.CreateBillRequest{
		Amount:      amount("100.00"),
		Description: strPtr("  Stand A  "),
		CreatedBy:   strPtr("maria"),
	})
	require.NoError(t, err)
	assert.Equal(t, "100.00", first.Amount)
	assert.Equal(t, "Stand A", *first.Description)
	assert.Equal(t, "maria", *first.CreatedBy)
	assert.Equal(t, id, first.CustomerRef)

	_, err = uc.Create(context.Background(), id, dto.CreateBillRequest{Amount: amount("200")})
	require.NoError(t, err)

	res, err := uc.ListByCustomer(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Customer.BillCount)
	assert.Equal(t, "300.00", res.Customer.TotalAmount)
	require.Len(t, res.Bills, 2)
	assert.Equal(t, "200.00", res.Bills[0].Amount)
	assert.Nil(t, res.Bills[0].Description)
	assert.Equal(t, 2, metrics.bills)
}

func TestCreateBill_Validaciones(t *testing.T) {
	s := newMemStore()
	id := seedCustomer(t, s, "Ada")
	uc := billing.NewBillUseCase(s.billRepo(), s.customerRepo(), nil, zerolog.Nop())

	cases := map[string]dto.CreateBillRequest{
		"sin monto":         {},
		"tres decimales":    {Amount: amount("1.005")},
		"demasiado grande":  {Amount: amount("100000000")},
		"negativo excesivo": {Amount: amount("-100000000.00")},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), id, in)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, "amount")
		})
	}
	assert.Equal(t, 0, s.BillCount())
}

func TestCreateBill_MontoNegativoYCerosFinales(t *testing.T) {
	s := newMemStore()
	id := seedCustomer(t, s, "Ada")
	uc := billing.NewBillUseCase(s.billRepo(), s.customerRepo(), nil, zerolog.Nop())

	out, err := uc.Create(context.Background(), id, dto.CreateBillRequest{Amount: amount("-25.5")})
	require.NoError(t, err)
	assert.Equal(t, "-25.50", out.Amount)

	out, err = uc.Create(context.Background(), id, dto.CreateBillRequest{Amount: amount("10.000")})
	require.NoError(t, err)
	assert.Equal(t, "10.00", out.Amount)
}

func TestCreateBill_ClienteInexistente(t *testing.T) {
	s := newMemStore()
	uc := billing.NewBillUseCase(s.billRepo(), s.customerRepo(), nil, zerolog.Nop())
	_, err := uc.Create(context.Background(), 42, dto.CreateBillRequest{Amount: amount("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.ListByCustomer(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBill_GetUpdateDeleteList(t *testing.T) {
	s := newMemStore()
	id := seedCustomer(t, s, "Ada")
	uc := billing.NewBillUseCase(s.billRepo(), s.customerRepo(), nil, zerolog.Nop())
	created, err := uc.Create(context.Background(), id, dto.CreateBillRequest{Amount: amount("5"), CreatedBy: strPtr("op")})
	require.NoError(t, err)

	got, err := uc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.CustomerName)

	upd, err := uc.Update(context.Background(), created.ID, dto.UpdateBillRequest{Amount: amount("7.25"), Description: strPtr("ajuste")})
	require.NoError(t, err)
	assert.Equal(t, "7.25", upd.Amount)
	assert.Equal(t, "ajuste", *upd.Description)
	assert.Equal(t, "op", *upd.CreatedBy)

	list, err := uc.List(context.Background(), dto.BillListRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "7.25", list.Items[0].Amount)
	assert.NotEmpty(t, list.Items[0].CustomerID)

	require.NoError(t, uc.Delete(context.Background(), created.ID))
	_, err = uc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Update(context.Background(), created.ID, dto.UpdateBillRequest{Amount: amount("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
