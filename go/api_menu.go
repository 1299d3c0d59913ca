package posserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	menuhttpmapper "github.com/Apurer/go-gin-pos-server/internal/domains/menu/adapters/http/mapper"
	menuports "github.com/Apurer/go-gin-pos-server/internal/domains/menu/ports"
)

// MenuAPI wires HTTP transport with the menu bounded context.
type MenuAPI struct {
	service menuports.Service
}

func NewMenuAPI(service menuports.Service) *MenuAPI {
	return &MenuAPI{service: service}
}

// Get /v1/menu/items
// Lists menu items in display order
func (api *MenuAPI) ListItems(c *gin.Context) {
	items, err := api.service.ListItems(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, menuhttpmapper.FromProjectionList(items))
}

// Post /v1/menu/items
// Adds a menu item at the end of the menu
func (api *MenuAPI) AddItem(c *gin.Context) {
	var payload menuhttpmapper.MenuItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := menuhttpmapper.ToDomainMenuItem(0, payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	saved, err := api.service.AddItem(c.Request.Context(), item)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, menuhttpmapper.FromProjection(saved))
}

// Get /v1/menu/items/:itemId
func (api *MenuAPI) GetItem(c *gin.Context) {
	id, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	item, err := api.service.GetItem(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, menuhttpmapper.FromProjection(item))
}

// Put /v1/menu/items/:itemId
// Replaces a menu item's fields; its position is kept
func (api *MenuAPI) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	var payload menuhttpmapper.MenuItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := menuhttpmapper.ToDomainMenuItem(id, payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	updated, err := api.service.UpdateItem(c.Request.Context(), item)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, menuhttpmapper.FromProjection(updated))
}

// Delete /v1/menu/items/:itemId
func (api *MenuAPI) DeleteItem(c *gin.Context) {
	id, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	if err := api.service.DeleteItem(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /v1/menu/items/:itemId/move-up
// Swaps the item with its predecessor and returns the reordered menu
func (api *MenuAPI) MoveUp(c *gin.Context) {
	id, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	items, err := api.service.MoveUp(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, menuhttpmapper.FromProjectionList(items))
}

// Post /v1/menu/items/:itemId/move-down
func (api *MenuAPI) MoveDown(c *gin.Context) {
	id, ok := parseIDParam(c, "itemId")
	if !ok {
		return
	}
	items, err := api.service.MoveDown(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, menuhttpmapper.FromProjectionList(items))
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	value := c.Param(name)
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return 0, false
	}
	return id, true
}
