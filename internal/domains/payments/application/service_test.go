package application

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartmemory "github.com/Apurer/go-gin-pos-server/internal/domains/cart/adapters/memory"
	cartapp "github.com/Apurer/go-gin-pos-server/internal/domains/cart/application"
	cartdomain "github.com/Apurer/go-gin-pos-server/internal/domains/cart/domain"
	ordersmemory "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/go-gin-pos-server/internal/domains/orders/application"
	ordersdomain "github.com/Apurer/go-gin-pos-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/domain"
	settingsmemory "github.com/Apurer/go-gin-pos-server/internal/domains/settings/adapters/memory"
	settingsapp "github.com/Apurer/go-gin-pos-server/internal/domains/settings/application"
	"github.com/Apurer/go-gin-pos-server/internal/shared/nexo"
)

const approvedJSON = `{"SaleToPOIResponse":{"PaymentResponse":{"Response":{"Result":"Success"},"POIData":{"POITransactionID":{"TransactionID":"T1"}}}}}`

type fakeGateway struct {
	fakeDirectory
	fakeAborter
	session *domain.SDKSession
	tokens  []string
}

func (g *fakeGateway) SendPayment(context.Context, domain.DevicePayment) (*nexo.Response, error) {
	return nil, nil
}

func (g *fakeGateway) AuthenticateSDK(_ context.Context, setupToken string) (*domain.SDKSession, error) {
	g.tokens = append(g.tokens, setupToken)
	return g.session, nil
}

type harness struct {
	svc      *Service
	carts    *cartmemory.Store
	orders   *ordersmemory.Repository
	executor *fakeExecutor
	gateway  *fakeGateway
}

func newHarness(t *testing.T, executor *fakeExecutor) *harness {
	t.Helper()
	ctx := context.Background()

	carts := cartmemory.NewStore()
	_, err := carts.Update(ctx, "reg-1", func(c *cartdomain.Cart) error {
		if err := c.Add(cartdomain.Line{MenuItemID: 1, Name: "Flat white", UnitPrice: decimal.RequireFromString("10.0"), Quantity: 2}); err != nil {
			return err
		}
		return c.Add(cartdomain.Line{MenuItemID: 2, Name: "Croissant", UnitPrice: decimal.RequireFromString("5.0"), Quantity: 3})
	})
	require.NoError(t, err)

	settings := settingsapp.NewService(settingsmemory.NewStore())
	_, err = settings.SetCurrency(ctx, "EUR")
	require.NoError(t, err)

	orders := ordersmemory.NewRepository()
	gateway := &fakeGateway{session: &domain.SDKSession{SDKData: "opaque"}}
	svc := NewService(Dependencies{
		Gateway:    gateway,
		Executor:   executor,
		Carts:      cartapp.NewService(carts, nil),
		Currencies: settings,
		Orders:     ordersapp.NewService(orders, carts),
	}, WithOrchestratorOptions(WithServiceIDs(sequentialIDs("100001", "100002"))))
	return &harness{svc: svc, carts: carts, orders: orders, executor: executor, gateway: gateway}
}

func (h *harness) cart(t *testing.T) *cartdomain.Cart {
	t.Helper()
	cart, err := h.carts.Get(context.Background(), "reg-1")
	require.NoError(t, err)
	return cart
}

func (h *harness) startPayment(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := h.svc.SelectDevice(ctx, "reg-1", "V400m-1")
	require.NoError(t, err)
	snapshot, err := h.svc.StartPayment(ctx, "reg-1")
	require.NoError(t, err)
	require.Equal(t, domain.StagePaymentInProgress, snapshot.Stage)
}

func (h *harness) awaitResult(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		snapshot, err := h.svc.State(context.Background(), "reg-1")
		return err == nil && snapshot.Stage == domain.StagePaymentResult
	}, waitFor, tick)
}

func TestService_ApprovedDevicePaymentBecomesOrder(t *testing.T) {
	h := newHarness(t, &fakeExecutor{resp: approvedResponse("T1")})
	h.startPayment(t)
	assert.True(t, h.cart(t).PaymentInProgress)

	h.awaitResult(t)
	payments := h.executor.recorded()
	require.Len(t, payments, 1)
	assert.True(t, decimal.RequireFromString("35").Equal(payments[0].Amount))
	assert.Equal(t, "EUR", payments[0].Currency)

	result, err := h.svc.Dismiss(context.Background(), "reg-1")
	require.NoError(t, err)
	require.NotNil(t, result.Order)
	assert.Equal(t, ordersdomain.PaymentMethodTerminal, result.Order.PaymentMethod)
	assert.Equal(t, "EUR", result.Order.Currency)
	assert.Equal(t, "T1", result.Order.TransactionID)
	assert.True(t, decimal.RequireFromString("35").Equal(result.Order.TotalAmount))

	cart := h.cart(t)
	assert.True(t, cart.IsEmpty())
	assert.False(t, cart.PaymentInProgress)
}

func TestService_DeclinedDismissReleasesCart(t *testing.T) {
	h := newHarness(t, &fakeExecutor{resp: declinedResponse()})
	h.startPayment(t)
	h.awaitResult(t)

	result, err := h.svc.Dismiss(context.Background(), "reg-1")
	require.NoError(t, err)
	assert.Nil(t, result.Order)
	assert.Equal(t, domain.OutcomeDeclined, result.Outcome.Kind)

	cart := h.cart(t)
	assert.Equal(t, int32(5), cart.ItemCount())
	assert.False(t, cart.PaymentInProgress)

	orders, err := h.orders.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestService_ApprovalWithoutTransactionIDReleasesCart(t *testing.T) {
	h := newHarness(t, &fakeExecutor{resp: approvedResponse("")})
	h.startPayment(t)
	h.awaitResult(t)

	snapshot, err := h.svc.State(context.Background(), "reg-1")
	require.NoError(t, err)
	require.NotNil(t, snapshot.Result)
	assert.Equal(t, domain.OutcomeFailed, snapshot.Result.Kind)

	result, err := h.svc.Dismiss(context.Background(), "reg-1")
	require.NoError(t, err)
	assert.Nil(t, result.Order)

	cart := h.cart(t)
	assert.Equal(t, int32(5), cart.ItemCount())
	assert.False(t, cart.PaymentInProgress)

	snapshot, err = h.svc.State(context.Background(), "reg-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageSelectDevice, snapshot.Stage)
}

func TestService_CancelDuringPaymentReleasesCart(t *testing.T) {
	executor := &fakeExecutor{release: make(chan struct{}), resp: approvedResponse("T1")}
	h := newHarness(t, executor)
	defer close(executor.release)
	h.startPayment(t)

	snapshot, err := h.svc.Cancel(context.Background(), "reg-1")
	require.NoError(t, err)
	assert.Empty(t, snapshot.ServiceID)
	assert.False(t, h.cart(t).PaymentInProgress)

	_, err = h.svc.Abort(context.Background(), "reg-1")
	require.ErrorIs(t, err, ErrConflict)
	require.ErrorIs(t, err, domain.ErrNoActivePayment)
}

func TestService_StartPaymentWithEmptyCart(t *testing.T) {
	h := newHarness(t, &fakeExecutor{})
	ctx := context.Background()
	_, err := h.carts.Update(ctx, "reg-1", func(c *cartdomain.Cart) error { return c.Empty() })
	require.NoError(t, err)

	_, err = h.svc.SelectDevice(ctx, "reg-1", "V400m-1")
	require.NoError(t, err)
	_, err = h.svc.StartPayment(ctx, "reg-1")
	require.ErrorIs(t, err, cartapp.ErrConflict)

	snapshot, err := h.svc.State(ctx, "reg-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageSelectDevice, snapshot.Stage)
	assert.Empty(t, h.executor.recorded())
}

func TestService_StartPaymentRequiresDevice(t *testing.T) {
	h := newHarness(t, &fakeExecutor{})
	_, err := h.svc.StartPayment(context.Background(), "reg-1")
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.False(t, h.cart(t).PaymentInProgress)

	_, err = h.svc.State(context.Background(), " ")
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_CheckoutSDKApproved(t *testing.T) {
	h := newHarness(t, &fakeExecutor{})
	encoded := base64.StdEncoding.EncodeToString([]byte(approvedJSON))

	result, err := h.svc.CheckoutSDK(context.Background(), "reg-1", domain.SDKResult{
		Kind:            domain.SDKResultSuccess,
		PaymentMethod:   ordersdomain.PaymentMethodCardReader,
		EncodedResponse: encoded,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Order)
	assert.Equal(t, ordersdomain.PaymentMethodCardReader, result.Order.PaymentMethod)
	assert.Equal(t, "T1", result.Outcome.TransactionID)
	assert.True(t, h.cart(t).IsEmpty())
}

func TestService_CheckoutSDKWithoutOrder(t *testing.T) {
	declined := base64.StdEncoding.EncodeToString([]byte(`{"SaleToPOIResponse":{"PaymentResponse":{"Response":{"Result":"Failure"}}}}`))
	cases := map[string]struct {
		result domain.SDKResult
		kind   domain.OutcomeKind
	}{
		"declined":           {result: domain.SDKResult{Kind: domain.SDKResultSuccess, EncodedResponse: declined}, kind: domain.OutcomeDeclined},
		"malformed base64":   {result: domain.SDKResult{Kind: domain.SDKResultSuccess, EncodedResponse: "%%%"}, kind: domain.OutcomeFailed},
		"malformed json":     {result: domain.SDKResult{Kind: domain.SDKResultSuccess, EncodedResponse: base64.StdEncoding.EncodeToString([]byte("{not json"))}, kind: domain.OutcomeFailed},
		"cancelled":          {result: domain.SDKResult{Kind: domain.SDKResultCancelled}, kind: domain.OutcomeFailed},
		"missing permission": {result: domain.SDKResult{Kind: domain.SDKResultMissingPermission, Message: "NFC disabled"}, kind: domain.OutcomeFailed},
		"sdk error":          {result: domain.SDKResult{Kind: domain.SDKResultError}, kind: domain.OutcomeFailed},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t, &fakeExecutor{})
			result, err := h.svc.CheckoutSDK(context.Background(), "reg-1", tc.result)
			require.NoError(t, err)
			assert.Nil(t, result.Order)
			assert.Equal(t, tc.kind, result.Outcome.Kind)
			assert.Equal(t, int32(5), h.cart(t).ItemCount())
		})
	}
}

func TestService_CheckoutSDKRejectsBadInput(t *testing.T) {
	h := newHarness(t, &fakeExecutor{})
	ctx := context.Background()

	_, err := h.svc.CheckoutSDK(ctx, "reg-1", domain.SDKResult{Kind: "refunded"})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = h.svc.CheckoutSDK(ctx, "reg-1", domain.SDKResult{Kind: domain.SDKResultSuccess, PaymentMethod: "Cash", EncodedResponse: "e30="})
	require.ErrorIs(t, err, domain.ErrUnsupportedSDKMethod)

	_, err = h.svc.CheckoutSDK(ctx, "reg-1", domain.SDKResult{Kind: domain.SDKResultSuccess})
	require.ErrorIs(t, err, domain.ErrMissingSDKResultBlob)
}

func TestService_CheckoutSDKBlockedDuringDevicePayment(t *testing.T) {
	executor := &fakeExecutor{release: make(chan struct{})}
	h := newHarness(t, executor)
	defer close(executor.release)
	h.startPayment(t)

	_, err := h.svc.CheckoutSDK(context.Background(), "reg-1", domain.SDKResult{Kind: domain.SDKResultCancelled})
	require.ErrorIs(t, err, ErrConflict)
}

func TestService_AuthenticateSDK(t *testing.T) {
	h := newHarness(t, &fakeExecutor{})

	_, err := h.svc.AuthenticateSDK(context.Background(), "  ")
	require.ErrorIs(t, err, ErrInvalidInput)

	session, err := h.svc.AuthenticateSDK(context.Background(), " setup-token ")
	require.NoError(t, err)
	assert.Equal(t, "opaque", session.SDKData)
	assert.Equal(t, []string{"setup-token"}, h.gateway.tokens)
}
