package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-api/internal/application/auth"
	"github.com/jhoicas/warehouse-api/internal/application/dto"
	"github.com/jhoicas/warehouse-api/internal/application/fulfillment"
	"github.com/jhoicas/warehouse-api/internal/application/ledger"
	"github.com/jhoicas/warehouse-api/internal/application/location"
	"github.com/jhoicas/warehouse-api/internal/application/query"
	"github.com/jhoicas/warehouse-api/internal/application/usecase"
	"github.com/jhoicas/warehouse-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/warehouse-api/internal/infrastructure/pdf"
	infraredis "github.com/jhoicas/warehouse-api/internal/infrastructure/redis"
	apphttp "github.com/jhoicas/warehouse-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/warehouse-api/pkg/jwt"
)

// newAPI arma la API completa sobre el store en memoria.
func newAPI(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	l := ledger.New(store)
	engine := fulfillment.NewEngine(store, l, nil)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      auth.NewAuthUseCase(store, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		Registry:    location.NewRegistry(store),
		Ledger:      l,
		ProductUC:   usecase.NewProductUseCase(store, l),
		Engine:      engine,
		PickListUC:  usecase.NewPickListUseCase(engine, infrapdf.NewMarotoPickListGenerator()),
		Projection:  query.NewProjection(store),
		Idempotency: infraredis.NewMemoryIdempotencyStore(time.Hour),
		JWTSecret:   testJWTSecret,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, role string, body any, headers ...string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, out
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

// fixture: módulo IL1 con dos bandejas (cap 10 y 5) y el producto P1 con 4 unidades en el slot 1.
type fixture struct {
	app     *fiber.App
	module  dto.ModuleResponse
	product dto.ProductResponse
}

func newFixture(t *testing.T) fixture {
	app := newAPI(t)
	resp, body := call(t, app, http.MethodPost, "/api/modules", "admin", dto.CreateModuleRequest{
		Label: "IL1", Row: 0, Column: 0, TrayCapacities: []int{10, 5},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	module := decode[dto.ModuleResponse](t, body)
	require.Len(t, module.Trays, 2)

	resp, body = call(t, app, http.MethodPost, "/api/products", "operator", dto.CreateProductRequest{
		SKU: "P1", Name: "Tornillo", Placement: &dto.PlacementRequest{ModuleID: module.ID, Slot: 1, Quantity: 4},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	return fixture{app: app, module: module, product: decode[dto.ProductResponse](t, body)}
}

func TestAPI_AssignOccupiedTray_Returns409TrayOccupied(t *testing.T) {
	f := newFixture(t)
	resp, body := call(t, f.app, http.MethodPost, "/api/products", "operator", dto.CreateProductRequest{SKU: "P2", Name: "Tuerca"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	p2 := decode[dto.ProductResponse](t, body)

	resp, body = call(t, f.app, http.MethodPost, "/api/stock/assign", "operator", dto.AssignStockRequest{
		ProductID: p2.ID, TrayID: f.module.Trays[0].ID, Quantity: 1,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "TRAY_OCCUPIED", decode[dto.ErrorResponse](t, body).Code)

	resp, body = call(t, f.app, http.MethodPost, "/api/stock/assign", "operator", dto.AssignStockRequest{
		ProductID: p2.ID, TrayID: f.module.Trays[1].ID, Quantity: 6,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CAPACITY_EXCEEDED", decode[dto.ErrorResponse](t, body).Code)
}

func TestAPI_ViewerCannotMutateStock(t *testing.T) {
	f := newFixture(t)
	resp, _ := call(t, f.app, http.MethodPost, "/api/stock/remove", "viewer", dto.RemoveStockRequest{
		ProductID: f.product.ID, TrayID: f.module.Trays[0].ID,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = call(t, f.app, http.MethodGet, "/api/locations/schematic", "viewer", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPI_FulfillFlow(t *testing.T) {
	f := newFixture(t)
	resp, body := call(t, f.app, http.MethodPost, "/api/orders", "operator", dto.CreateOrderRequest{
		Customer: "ACME", Lines: []dto.OrderLineRequest{{ProductID: f.product.ID, Quantity: 5}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	order := decode[dto.OrderResponse](t, body)
	assert.Equal(t, "Pending", order.Status)

	fulfillPath := "/api/orders/" + order.ID + "/fulfill"
	resp, body = call(t, f.app, http.MethodPost, fulfillPath, "operator", dto.FulfillLineRequest{ProductID: f.product.ID, Quantity: 5})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, body).Code)

	resp, body = call(t, f.app, http.MethodPost, fulfillPath, "operator", dto.FulfillLineRequest{ProductID: f.product.ID, Quantity: 4})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	out := decode[dto.FulfillLineResponse](t, body)
	assert.Equal(t, "Partial", out.Order.Status)
	require.Len(t, out.Allocations, 1)
	assert.Equal(t, f.module.Trays[0].ID, out.Allocations[0].TrayID)

	resp, body = call(t, f.app, http.MethodPost, "/api/orders/"+order.ID+"/cancel", "operator", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cancelled := decode[dto.OrderResponse](t, body)
	assert.Equal(t, "Cancelled", cancelled.Status)
	assert.NotEmpty(t, cancelled.StatusNote)

	resp, body = call(t, f.app, http.MethodPost, "/api/orders/"+order.ID+"/cancel", "operator", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_CANCELLED", decode[dto.ErrorResponse](t, body).Code)
}

func TestAPI_FulfillIdempotencyKeyReplays(t *testing.T) {
	f := newFixture(t)
	_, body := call(t, f.app, http.MethodPost, "/api/orders", "operator", dto.CreateOrderRequest{
		Lines: []dto.OrderLineRequest{{ProductID: f.product.ID, Quantity: 4}},
	})
	order := decode[dto.OrderResponse](t, body)
	path := "/api/orders/" + order.ID + "/fulfill"
	req := dto.FulfillLineRequest{ProductID: f.product.ID, Quantity: 2}

	resp, first := call(t, f.app, http.MethodPost, path, "operator", req, apphttp.HeaderIdempotencyKey, "abc-1")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(first))

	resp, second := call(t, f.app, http.MethodPost, path, "operator", req, apphttp.HeaderIdempotencyKey, "abc-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("Idempotent-Replayed"))
	assert.JSONEq(t, string(first), string(second))

	// Solo se despachó una vez.
	_, body = call(t, f.app, http.MethodGet, "/api/products/"+f.product.ID, "viewer", nil)
	assert.Equal(t, 2, decode[dto.ProductResponse](t, body).Quantity)
}

func TestAPI_IdempotencyKeyScopedPerUser(t *testing.T) {
	f := newFixture(t)
	_, body := call(t, f.app, http.MethodPost, "/api/orders", "operator", dto.CreateOrderRequest{
		Lines: []dto.OrderLineRequest{{ProductID: f.product.ID, Quantity: 4}},
	})
	order := decode[dto.OrderResponse](t, body)
	path := "/api/orders/" + order.ID + "/fulfill"
	req := dto.FulfillLineRequest{ProductID: f.product.ID, Quantity: 1}

	resp, _ := call(t, f.app, http.MethodPost, path, "operator", req, apphttp.HeaderIdempotencyKey, "shared")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Otro operador con la misma clave no recibe la respuesta del primero.
	other, err := pkgjwt.Generate(testJWTSecret, "00000000-0000-0000-0000-000000000002", "operator", testIssuer, testExpMin)
	require.NoError(t, err)
	resp, body = call(t, f.app, http.MethodPost, path, "operator", req,
		apphttp.HeaderIdempotencyKey, "shared", "Authorization", "Bearer "+other)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Empty(t, resp.Header.Get("Idempotent-Replayed"))

	_, body = call(t, f.app, http.MethodGet, "/api/products/"+f.product.ID, "viewer", nil)
	assert.Equal(t, 2, decode[dto.ProductResponse](t, body).Quantity)
}

func TestAPI_FailedFulfillReleasesIdempotencyKey(t *testing.T) {
	f := newFixture(t)
	_, body := call(t, f.app, http.MethodPost, "/api/orders", "operator", dto.CreateOrderRequest{
		Lines: []dto.OrderLineRequest{{ProductID: f.product.ID, Quantity: 6}},
	})
	order := decode[dto.OrderResponse](t, body)
	path := "/api/orders/" + order.ID + "/fulfill"

	resp, _ := call(t, f.app, http.MethodPost, path, "operator",
		dto.FulfillLineRequest{ProductID: f.product.ID, Quantity: 6}, apphttp.HeaderIdempotencyKey, "k")
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = call(t, f.app, http.MethodPost, path, "operator",
		dto.FulfillLineRequest{ProductID: f.product.ID, Quantity: 3}, apphttp.HeaderIdempotencyKey, "k")
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Empty(t, resp.Header.Get("Idempotent-Replayed"))
}

func TestAPI_NotFoundCodes(t *testing.T) {
	app := newAPI(t)
	resp, body := call(t, app, http.MethodGet, "/api/orders/nope", "viewer", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "ORDER_NOT_FOUND", decode[dto.ErrorResponse](t, body).Code)

	resp, body = call(t, app, http.MethodGet, "/api/modules/nope/trays", "viewer", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "MODULE_NOT_FOUND", decode[dto.ErrorResponse](t, body).Code)
}

func TestAPI_SearchAndDashboard(t *testing.T) {
	f := newFixture(t)

	resp, body := call(t, f.app, http.MethodGet, "/api/search?q=", "viewer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	_, body = call(t, f.app, http.MethodGet, "/api/search?q=tornillo", "viewer", nil)
	results := decode[[]dto.SearchResultDTO](t, body)
	require.Len(t, results, 1)
	assert.Equal(t, "IL1-01", results[0].LocationCode)
	assert.Equal(t, 4, results[0].Quantity)

	_, body = call(t, f.app, http.MethodGet, "/api/dashboard/stats", "viewer", nil)
	stats := decode[dto.DashboardStatsDTO](t, body)
	assert.Equal(t, 1, stats.TotalSKUs)
	assert.Equal(t, 4, stats.ItemsInStock)
	assert.Equal(t, 2, stats.TotalTrays)
	assert.Equal(t, 1, stats.OccupiedTrays)
}

func TestAPI_PickListPDF(t *testing.T) {
	f := newFixture(t)
	_, body := call(t, f.app, http.MethodPost, "/api/orders", "operator", dto.CreateOrderRequest{
		Customer: "ACME", Lines: []dto.OrderLineRequest{{ProductID: f.product.ID, Quantity: 2}},
	})
	order := decode[dto.OrderResponse](t, body)

	resp, pdf := call(t, f.app, http.MethodGet, "/api/orders/"+order.ID+"/picklist", "viewer", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}
