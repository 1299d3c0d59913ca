package posserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ordershttpmapper "github.com/Apurer/go-gin-pos-server/internal/domains/orders/adapters/http/mapper"
	ordersports "github.com/Apurer/go-gin-pos-server/internal/domains/orders/ports"
)

// OrderAPI is the read side of completed sales.
type OrderAPI struct {
	service ordersports.Service
}

func NewOrderAPI(service ordersports.Service) *OrderAPI {
	return &OrderAPI{service: service}
}

// Get /v1/orders
// Lists orders newest first, with their items
func (api *OrderAPI) ListOrders(c *gin.Context) {
	orders, err := api.service.ListOrders(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromDomainOrders(orders))
}

// Get /v1/orders/:orderId
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordershttpmapper.FromDomainOrder(order))
}
