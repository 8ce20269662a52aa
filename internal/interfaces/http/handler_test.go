package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/exhibition-api/internal/application/billing"
	"github.com/jhoicas/exhibition-api/internal/application/dto"
	"github.com/jhoicas/exhibition-api/internal/domain/entity"
	"github.com/jhoicas/exhibition-api/internal/infrastructure/memory"
	"github.com/jhoicas/exhibition-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/exhibition-api/internal/interfaces/http"
	"github.com/jhoicas/exhibition-api/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type stubNotifier struct{ ok bool }

func (n *stubNotifier) Notify(*entity.Customer) bool { return n.ok }

type stubStatement struct{}

func (stubStatement) GenerateStatement(_ context.Context, _ billing.StatementData) ([]byte, error) {
	return []byte("%PDF-1.3"), nil
}

// buildTestApp arma la app Fiber completa sobre el almacén en memoria.
func buildTestApp(t *testing.T, emailOK bool) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	log := zerolog.Nop()
	customers, bills := store.Customers(), store.Bills()

	app := fiber.New()
	app.Use(apphttp.RequestID())
	apphttp.Router(app, apphttp.RouterDeps{
		CustomerUC:  billing.NewCustomerUseCase(customers, bills, &stubNotifier{ok: emailOK}, nil, log),
		BillUC:      billing.NewBillUseCase(bills, customers, nil, log),
		ExportUC:    billing.NewExportUseCase(store, xlsx.NewExporter(), nil, log),
		StatementUC: billing.NewStatementUseCase(store, stubStatement{}, "Exhibition Admin"),
		Site:        config.SiteConfig{Header: "Exhibition Administration", Title: "Exhibition Admin", IndexTitle: "Welcome"},
		Log:         log,
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createAda(t *testing.T, app *fiber.App) dto.CreateCustomerResponse {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/customers", map[string]string{
		"name": "Ada", "email": "ada@example.com", "phone": "555-0100",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	return decode[dto.CreateCustomerResponse](t, resp)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateCustomer_201(t *testing.T) {
	app := buildTestApp(t, true)
	out := createAda(t, app)
	assert.Len(t, out.Customer.CustomerID, 8)
	assert.True(t, out.Customer.EmailSent)
	assert.Empty(t, out.Warning)
}

func TestCreateCustomer_WarningSiFallaElCorreo(t *testing.T) {
	app := buildTestApp(t, false)
	out := createAda(t, app)
	assert.False(t, out.Customer.EmailSent)
	assert.Contains(t, out.Warning, "email could not be sent")
}

func TestCreateCustomer_ValidacionConCampos(t *testing.T) {
	app := buildTestApp(t, true)
	resp := doJSON(t, app, http.MethodPost, "/api/customers", map[string]string{"name": "", "email": "nope"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Contains(t, body.Fields, "name")
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "phone")
}

func TestCreateCustomer_CuerpoInvalido(t *testing.T) {
	app := buildTestApp(t, true)
	req := httptest.NewRequest(http.MethodPost, "/api/customers", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetCustomer_NotFoundEIDInvalido(t *testing.T) {
	app := buildTestApp(t, true)
	resp := doJSON(t, app, http.MethodGet, "/api/customers/999", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)

	resp = doJSON(t, app, http.MethodGet, "/api/customers/abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCustomer_FlujoCompleto(t *testing.T) {
	app := buildTestApp(t, true)
	ada := createAda(t, app)
	id := strconv.FormatInt(ada.Customer.ID, 10)

	resp := doJSON(t, app, http.MethodPost, "/api/customers/"+id+"/bills", map[string]any{"amount": "100.00"}, "X-Operator", "maria")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	bill := decode[dto.BillResponse](t, resp)
	require.NotNil(t, bill.CreatedBy)
	assert.Equal(t, "maria", *bill.CreatedBy)

	resp = doJSON(t, app, http.MethodPost, "/api/customers/"+id+"/bills", map[string]any{"amount": 200})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/customers/"+id, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decode[dto.CustomerResponse](t, resp)
	assert.Equal(t, 2, got.BillCount)
	assert.Equal(t, "300.00", got.TotalAmount)

	resp = doJSON(t, app, http.MethodGet, "/api/customers/code/"+ada.Customer.CustomerID, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/customers/"+id+"/bills", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[dto.CustomerBillsResponse](t, resp)
	require.Len(t, list.Bills, 2)
	assert.Equal(t, "200.00", list.Bills[0].Amount)

	resp = doJSON(t, app, http.MethodPut, "/api/customers/"+id, map[string]string{
		"name": "Ada L.", "email": "ada@example.com", "phone": "555-0100",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, ada.Customer.CustomerID, decode[dto.CustomerResponse](t, resp).CustomerID)

	resp = doJSON(t, app, http.MethodDelete, "/api/customers/"+id, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp = doJSON(t, app, http.MethodGet, "/api/bills", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[dto.BillListResponse](t, resp).Items)
}

func TestCreateBill_MontoInvalido(t *testing.T) {
	app := buildTestApp(t, true)
	id := strconv.FormatInt(createAda(t, app).Customer.ID, 10)

	resp := doJSON(t, app, http.MethodPost, "/api/customers/"+id+"/bills", map[string]any{"amount": "1.999"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[dto.ErrorResponse](t, resp).Fields, "amount")

	resp = doJSON(t, app, http.MethodPost, "/api/customers/999/bills", map[string]any{"amount": "1"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestBills_GetUpdateDelete(t *testing.T) {
	app := buildTestApp(t, true)
	id := strconv.FormatInt(createAda(t, app).Customer.ID, 10)
	resp := doJSON(t, app, http.MethodPost, "/api/customers/"+id+"/bills", map[string]any{"amount": "5", "created_by": "luis"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	billID := strconv.FormatInt(decode[dto.BillResponse](t, resp).ID, 10)

	resp = doJSON(t, app, http.MethodPut, "/api/bills/"+billID, map[string]any{"amount": "-2.50", "description": "abono"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	upd := decode[dto.BillResponse](t, resp)
	assert.Equal(t, "-2.50", upd.Amount)
	assert.Equal(t, "luis", *upd.CreatedBy)

	resp = doJSON(t, app, http.MethodDelete, "/api/bills/"+billID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp = doJSON(t, app, http.MethodGet, "/api/bills/"+billID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCreateBill_OperadorSobreviveAPeticionesPosteriores(t *testing.T) {
	app := buildTestApp(t, true)
	id := strconv.FormatInt(createAda(t, app).Customer.ID, 10)

	resp := doJSON(t, app, http.MethodPost, "/api/customers/"+id+"/bills", map[string]any{"amount": "10"},
		apphttp.HeaderOperator, "alice")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	billID := strconv.FormatInt(decode[dto.BillResponse](t, resp).ID, 10)

	for i := 0; i < 50; i++ {
		resp = doJSON(t, app, http.MethodGet, "/api/customers/"+id+"/bills", nil, apphttp.HeaderOperator, "ZZZZZ")
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp = doJSON(t, app, http.MethodGet, "/api/bills/"+billID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decode[dto.BillResponse](t, resp)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, "alice", *got.CreatedBy)
}

func TestBill_AmountMalFormadoEsErrorDeCampo(t *testing.T) {
	app := buildTestApp(t, true)
	id := strconv.FormatInt(createAda(t, app).Customer.ID, 10)

	resp := doJSON(t, app, http.MethodPost, "/api/customers/"+id+"/bills", map[string]any{"amount": "abc"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, "debe ser un número decimal", body.Fields["amount"])

	resp = doJSON(t, app, http.MethodPost, "/api/customers/"+id+"/bills", map[string]any{"amount": "1"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	billID := strconv.FormatInt(decode[dto.BillResponse](t, resp).ID, 10)

	resp = doJSON(t, app, http.MethodPut, "/api/bills/"+billID, map[string]any{"amount": "12,50"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, decode[dto.ErrorResponse](t, resp).Fields, "amount")

	// JSON roto sigue siendo INVALID_BODY
	req := httptest.NewRequest(http.MethodPost, "/api/customers/"+id+"/bills", bytes.NewReader([]byte(`{"amount":`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, resp).Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Descargas
// ──────────────────────────────────────────────────────────────────────────────

func TestExport_Xlsx(t *testing.T) {
	app := buildTestApp(t, true)
	id := strconv.FormatInt(createAda(t, app).Customer.ID, 10)

	resp := doJSON(t, app, http.MethodGet, "/api/customers/export?ids="+id, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, billing.ExportContentType, resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "customers_export.xlsx")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, []byte("PK"), body[:2])

	resp = doJSON(t, app, http.MethodGet, "/api/customers/export?ids=1,x", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	resp = doJSON(t, app, http.MethodGet, "/api/customers/export?ids=999", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestQRYStatement(t *testing.T) {
	app := buildTestApp(t, true)
	ada := createAda(t, app)
	id := strconv.FormatInt(ada.Customer.ID, 10)

	resp := doJSON(t, app, http.MethodGet, "/api/customers/"+id+"/qr.png", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "qr_"+ada.Customer.CustomerID+".png")

	resp = doJSON(t, app, http.MethodGet, "/api/customers/"+id+"/statement.pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "statement_"+ada.Customer.CustomerID+".pdf")
}

func TestSendWelcome(t *testing.T) {
	app := buildTestApp(t, false)
	id := strconv.FormatInt(createAda(t, app).Customer.ID, 10)
	resp := doJSON(t, app, http.MethodPost, "/api/customers/"+id+"/welcome", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.False(t, decode[dto.WelcomeResponse](t, resp).Sent)
}

// ──────────────────────────────────────────────────────────────────────────────
// Listado, site y middlewares
// ──────────────────────────────────────────────────────────────────────────────

func TestListCustomers_Filtros(t *testing.T) {
	app := buildTestApp(t, true)
	createAda(t, app)

	resp := doJSON(t, app, http.MethodGet, "/api/customers?email_sent=false", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[dto.CustomerListResponse](t, resp).Items)

	resp = doJSON(t, app, http.MethodGet, "/api/customers?search=ada&limit=500", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[dto.CustomerListResponse](t, resp)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 100, list.Page.Limit)

	resp = doJSON(t, app, http.MethodGet, "/api/customers?email_sent=maybe", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSite(t *testing.T) {
	app := buildTestApp(t, true)
	resp := doJSON(t, app, http.MethodGet, "/api/site", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	site := decode[dto.SiteResponse](t, resp)
	assert.Equal(t, "Exhibition Administration", site.Header)
	assert.Equal(t, "Welcome", site.IndexTitle)
}

func TestRequestID_SeRespetaOGenera(t *testing.T) {
	app := buildTestApp(t, true)
	resp := doJSON(t, app, http.MethodGet, "/api/site", nil)
	assert.Len(t, resp.Header.Get(apphttp.HeaderRequestID), 36)

	resp = doJSON(t, app, http.MethodGet, "/api/site", nil, apphttp.HeaderRequestID, "abc-123")
	assert.Equal(t, "abc-123", resp.Header.Get(apphttp.HeaderRequestID))
}

func TestAccessLog_RegistraPeticion(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(apphttp.RequestID(), apphttp.AccessLog(zerolog.New(&buf)))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, buf.String(), `"path":"/ping"`)
	assert.Contains(t, buf.String(), `"status":200`)
	assert.Contains(t, buf.String(), `"request_id"`)
}
