package posserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartmemory "github.com/Apurer/go-gin-pos-server/internal/domains/cart/adapters/memory"
	cartapp "github.com/Apurer/go-gin-pos-server/internal/domains/cart/application"
	menumemory "github.com/Apurer/go-gin-pos-server/internal/domains/menu/adapters/memory"
	menuapp "github.com/Apurer/go-gin-pos-server/internal/domains/menu/application"
	ordersmemory "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/go-gin-pos-server/internal/domains/orders/application"
	paymentsworkflows "github.com/Apurer/go-gin-pos-server/internal/domains/payments/adapters/workflows"
	paymentsapp "github.com/Apurer/go-gin-pos-server/internal/domains/payments/application"
	paymentsdomain "github.com/Apurer/go-gin-pos-server/internal/domains/payments/domain"
	settingsmemory "github.com/Apurer/go-gin-pos-server/internal/domains/settings/adapters/memory"
	settingsapp "github.com/Apurer/go-gin-pos-server/internal/domains/settings/application"
	apierrors "github.com/Apurer/go-gin-pos-server/internal/shared/errors"
	"github.com/Apurer/go-gin-pos-server/internal/shared/nexo"
)

type stubTerminal struct {
	devices []string
	resp    *nexo.Response
}

func (s *stubTerminal) ListDevices(context.Context) ([]string, error) {
	return s.devices, nil
}

func (s *stubTerminal) SendPayment(context.Context, paymentsdomain.DevicePayment) (*nexo.Response, error) {
	return s.resp, nil
}

func (s *stubTerminal) SendAbort(context.Context, string, string) error {
	return nil
}

func (s *stubTerminal) AuthenticateSDK(_ context.Context, _ string) (*paymentsdomain.SDKSession, error) {
	return &paymentsdomain.SDKSession{MerchantAccount: "CoffeeShopPOS", SDKData: "sdk-blob"}, nil
}

type problemBody struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func newTestRouter(t *testing.T, terminal *stubTerminal) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	menuService := menuapp.NewService(menumemory.NewRepository())
	carts := cartmemory.NewStore()
	cartService := cartapp.NewService(carts, menuService)
	settingsService := settingsapp.NewService(settingsmemory.NewStore())
	orderService := ordersapp.NewService(ordersmemory.NewRepository(), carts)
	paymentService := paymentsapp.NewService(paymentsapp.Dependencies{
		Gateway:    terminal,
		Executor:   paymentsworkflows.NewInlinePaymentExecutor(terminal),
		Carts:      cartService,
		Currencies: settingsService,
		Orders:     orderService,
	})

	handlers := ApiHandleFunctions{
		MenuAPI:     NewMenuAPI(menuService),
		CartAPI:     NewCartAPI(cartService),
		PaymentAPI:  NewPaymentAPI(paymentService),
		OrderAPI:    NewOrderAPI(orderService),
		SettingsAPI: NewSettingsAPI(settingsService),
	}
	router := gin.New()
	router.Use(gin.Recovery())
	return NewRouterWithGinEngine(router, handlers)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func addMenuItem(t *testing.T, router http.Handler, name, price string) int64 {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/v1/menu/items", map[string]any{"name": name, "price": price, "vatRate": "12"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	item := decode[map[string]any](t, rec)
	return int64(item["id"].(float64))
}

func approvedTerminalResponse(transactionID string) *nexo.Response {
	return &nexo.Response{SaleToPOIResponse: &nexo.SaleToPOIResponse{PaymentResponse: &nexo.PaymentResponse{
		Response: &nexo.Result{Result: nexo.ResultSuccess},
		POIData:  &nexo.POIData{POITransactionID: &nexo.POITransactionID{TransactionID: transactionID}},
	}}}
}

func TestMenuAPI_AddListAndReorder(t *testing.T) {
	router := newTestRouter(t, &stubTerminal{})
	first := addMenuItem(t, router, "Espresso", "25.00")
	second := addMenuItem(t, router, "Cortado", "32.50")

	rec := doJSON(t, router, http.MethodPost, "/v1/menu/items/"+itoa(second)+"/move-up", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	items := decode[[]map[string]any](t, rec)
	require.Len(t, items, 2)
	assert.Equal(t, float64(second), items[0]["id"])
	assert.Equal(t, float64(first), items[1]["id"])
	assert.Equal(t, "32.50", items[0]["price"])

	rec = doJSON(t, router, http.MethodDelete, "/v1/menu/items/"+itoa(first), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMenuAPI_Problems(t *testing.T) {
	router := newTestRouter(t, &stubTerminal{})

	rec := doJSON(t, router, http.MethodGet, "/v1/menu/items/404", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	problem := decode[problemBody](t, rec)
	assert.Equal(t, apierrors.TypeNotFound, problem.Type)

	rec = doJSON(t, router, http.MethodGet, "/v1/menu/items/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/menu/items", map[string]any{"name": "Tea", "price": "-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartAPI_AddAdjustAndMissingLine(t *testing.T) {
	router := newTestRouter(t, &stubTerminal{})
	id := addMenuItem(t, router, "Latte", "40.00")

	rec := doJSON(t, router, http.MethodPost, "/v1/registers/front/cart/items", map[string]any{"menuItemId": id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = doJSON(t, router, http.MethodPost, "/v1/registers/front/cart/items", map[string]any{"menuItemId": id, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[map[string]any](t, rec)
	assert.Equal(t, float64(3), cart["itemCount"])
	assert.Equal(t, "120.00", cart["total"])

	rec = doJSON(t, router, http.MethodPut, "/v1/registers/front/cart/items/"+itoa(id), map[string]any{"quantity": 0})
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[map[string]any](t, rec)
	assert.Equal(t, float64(0), cart["itemCount"])

	rec = doJSON(t, router, http.MethodDelete, "/v1/registers/front/cart/items/"+itoa(id), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/registers/front/cart/items", map[string]any{"menuItemId": 999})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartAPI_QuantityOverflowIsRejected(t *testing.T) {
	router := newTestRouter(t, &stubTerminal{})
	id := addMenuItem(t, router, "Latte", "40.00")

	rec := doJSON(t, router, http.MethodPost, "/v1/registers/front/cart/items", map[string]any{"menuItemId": id, "quantity": math.MaxInt32})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/v1/registers/front/cart/items", map[string]any{"menuItemId": id, "quantity": 1})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Equal(t, apierrors.TypeUnprocessable, decode[problemBody](t, rec).Type)

	rec = doJSON(t, router, http.MethodGet, "/v1/registers/front/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[map[string]any](t, rec)
	assert.Equal(t, float64(math.MaxInt32), cart["itemCount"])
}

func TestSettingsAPI_MerchantAndCurrency(t *testing.T) {
	router := newTestRouter(t, &stubTerminal{})

	rec := doJSON(t, router, http.MethodGet, "/v1/settings/merchant", nil)
	require.Equal(t, http.StatusPreconditionFailed, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/v1/settings/merchant", map[string]any{"merchantAccount": "CoffeeShopPOS", "apiKey": "AQEyhmfxK4"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cfg := decode[map[string]any](t, rec)
	assert.Equal(t, "CoffeeShopPOS", cfg["merchantAccount"])
	assert.Equal(t, "****fxK4", cfg["apiKey"])

	rec = doJSON(t, router, http.MethodGet, "/v1/settings/currency", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "SEK", decode[map[string]any](t, rec)["code"])

	rec = doJSON(t, router, http.MethodPut, "/v1/settings/currency", map[string]any{"code": "JPY"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/v1/settings/currency", map[string]any{"code": "eur"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "€", decode[map[string]any](t, rec)["symbol"])

	rec = doJSON(t, router, http.MethodGet, "/v1/settings/currencies", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 7)
}

func TestPaymentAPI_DevicePaymentBecomesOrder(t *testing.T) {
	router := newTestRouter(t, &stubTerminal{devices: []string{"V400m-1"}, resp: approvedTerminalResponse("TX-42")})
	id := addMenuItem(t, router, "Flat white", "38.00")
	rec := doJSON(t, router, http.MethodPost, "/v1/registers/front/cart/items", map[string]any{"menuItemId": id, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/v1/registers/front/device-payment/device", map[string]any{"deviceId": "V400m-1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = doJSON(t, router, http.MethodPost, "/v1/registers/front/device-payment/start", nil)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	state := decode[map[string]any](t, rec)
	assert.Equal(t, "76.00", state["amount"])
	assert.Len(t, state["serviceId"], 6)

	require.Eventually(t, func() bool {
		rec := doJSON(t, router, http.MethodGet, "/v1/registers/front/device-payment", nil)
		return rec.Code == http.StatusOK && decode[map[string]any](t, rec)["stage"] == string(paymentsdomain.StagePaymentResult)
	}, 2*time.Second, 10*time.Millisecond)

	rec = doJSON(t, router, http.MethodPost, "/v1/registers/front/device-payment/dismiss", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	dismissed := decode[map[string]any](t, rec)
	order := dismissed["order"].(map[string]any)
	assert.Equal(t, "TX-42", order["transactionId"])
	assert.Equal(t, "76.00", order["totalAmount"])
	assert.Equal(t, "Terminal", order["paymentMethod"])

	rec = doJSON(t, router, http.MethodGet, "/v1/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = doJSON(t, router, http.MethodGet, "/v1/registers/front/cart", nil)
	assert.Equal(t, float64(0), decode[map[string]any](t, rec)["itemCount"])
}

func TestPaymentAPI_StartWithEmptyCartConflicts(t *testing.T) {
	router := newTestRouter(t, &stubTerminal{})
	rec := doJSON(t, router, http.MethodPut, "/v1/registers/front/device-payment/device", map[string]any{"deviceId": "V400m-1"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/registers/front/device-payment/start", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/registers/front/device-payment/dismiss", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPaymentAPI_CheckoutSDK(t *testing.T) {
	router := newTestRouter(t, &stubTerminal{})
	id := addMenuItem(t, router, "Bun", "22.00")
	rec := doJSON(t, router, http.MethodPost, "/v1/registers/kiosk/cart/items", map[string]any{"menuItemId": id})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/registers/kiosk/checkout/sdk", map[string]any{"kind": "refunded"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/v1/registers/kiosk/checkout/sdk", map[string]any{"kind": "cancelled"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[map[string]any](t, rec)["order"])

	blob, err := json.Marshal(approvedTerminalResponse("SDK-1"))
	require.NoError(t, err)
	rec = doJSON(t, router, http.MethodPost, "/v1/registers/kiosk/checkout/sdk", map[string]any{
		"kind":     "success",
		"response": base64.StdEncoding.EncodeToString(blob),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	result := decode[map[string]any](t, rec)
	order := result["order"].(map[string]any)
	assert.Equal(t, "Tap to Pay", order["paymentMethod"])
	assert.Equal(t, "SDK-1", order["transactionId"])

	rec = doJSON(t, router, http.MethodPost, "/v1/sdk/authenticate", map[string]any{"setupToken": "token"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sdk-blob", decode[map[string]any](t, rec)["sdkData"])
}

func TestRouter_UnwiredAPIsAnswerNotImplemented(t *testing.T) {
	router := NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{})
	rec := doJSON(t, router, http.MethodGet, "/v1/orders", nil)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestNewRouter_MiddlewareWrapsEveryRoute(t *testing.T) {
	var seen []string
	router := NewRouter(ApiHandleFunctions{}, func(c *gin.Context) {
		seen = append(seen, c.FullPath())
		c.Next()
	})

	for _, path := range []string{"/v1/menu/items", "/v1/orders", "/v1/settings/currency"} {
		rec := doJSON(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotImplemented, rec.Code)
	}
	assert.Equal(t, []string{"/v1/menu/items", "/v1/orders", "/v1/settings/currency"}, seen)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
