package posserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	carthttpmapper "github.com/Apurer/go-gin-pos-server/internal/domains/cart/adapters/http/mapper"
	cartports "github.com/Apurer/go-gin-pos-server/internal/domains/cart/ports"
)

// CartAPI exposes each register's basket.
type CartAPI struct {
	service cartports.Service
}

func NewCartAPI(service cartports.Service) *CartAPI {
	return &CartAPI{service: service}
}

// Get /v1/registers/:registerId/cart
func (api *CartAPI) GetCart(c *gin.Context) {
	cart, err := api.service.GetCart(c.Request.Context(), c.Param("registerId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromDomainCart(cart))
}

// Delete /v1/registers/:registerId/cart
// Empties the cart; refused while a payment is in progress
func (api *CartAPI) ClearCart(c *gin.Context) {
	cart, err := api.service.Clear(c.Request.Context(), c.Param("registerId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromDomainCart(cart))
}

// Post /v1/registers/:registerId/cart/items
// Adds a menu item, merging with an existing line for the same item
func (api *CartAPI) AddItem(c *gin.Context) {
	var payload carthttpmapper.AddItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	cart, err := api.service.AddItem(c.Request.Context(), c.Param("registerId"), payload.MenuItemID, payload.EffectiveQuantity())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromDomainCart(cart))
}

// Put /v1/registers/:registerId/cart/items/:itemId
// Sets a line's quantity; zero removes the line
func (api *CartAPI) SetQuantity(c *gin.Context) {
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	var payload carthttpmapper.SetQuantityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	cart, err := api.service.SetQuantity(c.Request.Context(), c.Param("registerId"), itemID, payload.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromDomainCart(cart))
}

// Delete /v1/registers/:registerId/cart/items/:itemId
func (api *CartAPI) RemoveItem(c *gin.Context) {
	itemID, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	cart, err := api.service.RemoveItem(c.Request.Context(), c.Param("registerId"), itemID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, carthttpmapper.FromDomainCart(cart))
}
