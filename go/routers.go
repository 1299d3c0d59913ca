package posserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router. Middleware is installed before any route so every route runs it.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.Default()
	router.Use(middleware...)
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine adds routes to an existing gin engine.
// Middleware must already be registered on router; gin does not apply Use to earlier routes.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose API was not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {
	MenuAPI     *MenuAPI
	CartAPI     *CartAPI
	PaymentAPI  *PaymentAPI
	OrderAPI    *OrderAPI
	SettingsAPI *SettingsAPI
}

func getRoutes(h ApiHandleFunctions) []Route {
	var routes []Route
	add := func(enabled bool, name, method, pattern string, fn func() gin.HandlerFunc) {
		route := Route{Name: name, Method: method, Pattern: pattern}
		if enabled {
			route.HandlerFunc = fn()
		}
		routes = append(routes, route)
	}

	menu := h.MenuAPI != nil
	add(menu, "ListMenuItems", http.MethodGet, "/v1/menu/items", func() gin.HandlerFunc { return h.MenuAPI.ListItems })
	add(menu, "AddMenuItem", http.MethodPost, "/v1/menu/items", func() gin.HandlerFunc { return h.MenuAPI.AddItem })
	add(menu, "GetMenuItem", http.MethodGet, "/v1/menu/items/:itemId", func() gin.HandlerFunc { return h.MenuAPI.GetItem })
	add(menu, "UpdateMenuItem", http.MethodPut, "/v1/menu/items/:itemId", func() gin.HandlerFunc { return h.MenuAPI.UpdateItem })
	add(menu, "DeleteMenuItem", http.MethodDelete, "/v1/menu/items/:itemId", func() gin.HandlerFunc { return h.MenuAPI.DeleteItem })
	add(menu, "MoveMenuItemUp", http.MethodPost, "/v1/menu/items/:itemId/move-up", func() gin.HandlerFunc { return h.MenuAPI.MoveUp })
	add(menu, "MoveMenuItemDown", http.MethodPost, "/v1/menu/items/:itemId/move-down", func() gin.HandlerFunc { return h.MenuAPI.MoveDown })

	cart := h.CartAPI != nil
	add(cart, "GetCart", http.MethodGet, "/v1/registers/:registerId/cart", func() gin.HandlerFunc { return h.CartAPI.GetCart })
	add(cart, "ClearCart", http.MethodDelete, "/v1/registers/:registerId/cart", func() gin.HandlerFunc { return h.CartAPI.ClearCart })
	add(cart, "AddCartItem", http.MethodPost, "/v1/registers/:registerId/cart/items", func() gin.HandlerFunc { return h.CartAPI.AddItem })
	add(cart, "SetCartItemQuantity", http.MethodPut, "/v1/registers/:registerId/cart/items/:itemId", func() gin.HandlerFunc { return h.CartAPI.SetQuantity })
	add(cart, "RemoveCartItem", http.MethodDelete, "/v1/registers/:registerId/cart/items/:itemId", func() gin.HandlerFunc { return h.CartAPI.RemoveItem })

	payment := h.PaymentAPI != nil
	add(payment, "GetDevicePayment", http.MethodGet, "/v1/registers/:registerId/device-payment", func() gin.HandlerFunc { return h.PaymentAPI.GetState })
	add(payment, "RefreshDevices", http.MethodPost, "/v1/registers/:registerId/device-payment/devices/refresh", func() gin.HandlerFunc { return h.PaymentAPI.RefreshDevices })
	add(payment, "SelectDevice", http.MethodPut, "/v1/registers/:registerId/device-payment/device", func() gin.HandlerFunc { return h.PaymentAPI.SelectDevice })
	add(payment, "StartDevicePayment", http.MethodPost, "/v1/registers/:registerId/device-payment/start", func() gin.HandlerFunc { return h.PaymentAPI.StartPayment })
	add(payment, "AbortDevicePayment", http.MethodPost, "/v1/registers/:registerId/device-payment/abort", func() gin.HandlerFunc { return h.PaymentAPI.Abort })
	add(payment, "CancelDevicePayment", http.MethodPost, "/v1/registers/:registerId/device-payment/cancel", func() gin.HandlerFunc { return h.PaymentAPI.Cancel })
	add(payment, "DismissDevicePayment", http.MethodPost, "/v1/registers/:registerId/device-payment/dismiss", func() gin.HandlerFunc { return h.PaymentAPI.Dismiss })
	add(payment, "CheckoutSDK", http.MethodPost, "/v1/registers/:registerId/checkout/sdk", func() gin.HandlerFunc { return h.PaymentAPI.CheckoutSDK })
	add(payment, "AuthenticateSDK", http.MethodPost, "/v1/sdk/authenticate", func() gin.HandlerFunc { return h.PaymentAPI.AuthenticateSDK })

	orders := h.OrderAPI != nil
	add(orders, "ListOrders", http.MethodGet, "/v1/orders", func() gin.HandlerFunc { return h.OrderAPI.ListOrders })
	add(orders, "GetOrder", http.MethodGet, "/v1/orders/:orderId", func() gin.HandlerFunc { return h.OrderAPI.GetOrder })

	settings := h.SettingsAPI != nil
	add(settings, "GetMerchantConfig", http.MethodGet, "/v1/settings/merchant", func() gin.HandlerFunc { return h.SettingsAPI.GetMerchantConfig })
	add(settings, "SaveMerchantConfig", http.MethodPut, "/v1/settings/merchant", func() gin.HandlerFunc { return h.SettingsAPI.SaveMerchantConfig })
	add(settings, "GetCurrency", http.MethodGet, "/v1/settings/currency", func() gin.HandlerFunc { return h.SettingsAPI.GetCurrency })
	add(settings, "SetCurrency", http.MethodPut, "/v1/settings/currency", func() gin.HandlerFunc { return h.SettingsAPI.SetCurrency })
	add(settings, "ListCurrencies", http.MethodGet, "/v1/settings/currencies", func() gin.HandlerFunc { return h.SettingsAPI.ListCurrencies })
	add(settings, "GetLogo", http.MethodGet, "/v1/settings/logo", func() gin.HandlerFunc { return h.SettingsAPI.GetLogo })
	add(settings, "SetLogo", http.MethodPut, "/v1/settings/logo", func() gin.HandlerFunc { return h.SettingsAPI.SetLogo })

	return routes
}
