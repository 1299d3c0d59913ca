package posserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	settingshttpmapper "github.com/Apurer/go-gin-pos-server/internal/domains/settings/adapters/http/mapper"
	settingsdomain "github.com/Apurer/go-gin-pos-server/internal/domains/settings/domain"
	settingsports "github.com/Apurer/go-gin-pos-server/internal/domains/settings/ports"
)

// SettingsAPI manages merchant credentials and display preferences.
type SettingsAPI struct {
	service settingsports.Service
}

func NewSettingsAPI(service settingsports.Service) *SettingsAPI {
	return &SettingsAPI{service: service}
}

// Get /v1/settings/merchant
// Returns the merchant configuration with the API key masked
func (api *SettingsAPI) GetMerchantConfig(c *gin.Context) {
	cfg, err := api.service.MerchantConfig(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settingshttpmapper.FromDomainMerchantConfig(cfg))
}

// Put /v1/settings/merchant
func (api *SettingsAPI) SaveMerchantConfig(c *gin.Context) {
	var payload settingshttpmapper.MerchantConfigPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	saved, err := api.service.SaveMerchantConfig(c.Request.Context(), settingshttpmapper.ToDomainMerchantConfig(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settingshttpmapper.FromDomainMerchantConfig(saved))
}

// Get /v1/settings/currency
func (api *SettingsAPI) GetCurrency(c *gin.Context) {
	currency, err := api.service.Currency(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settingshttpmapper.FromDomainCurrency(currency))
}

// Put /v1/settings/currency
func (api *SettingsAPI) SetCurrency(c *gin.Context) {
	var payload settingshttpmapper.CurrencyPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	currency, err := api.service.SetCurrency(c.Request.Context(), payload.Code)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settingshttpmapper.FromDomainCurrency(currency))
}

// Get /v1/settings/currencies
func (api *SettingsAPI) ListCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, settingshttpmapper.FromDomainCurrencies(settingsdomain.Currencies()))
}

// Get /v1/settings/logo
func (api *SettingsAPI) GetLogo(c *gin.Context) {
	path, err := api.service.Logo(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settingshttpmapper.Logo{Path: path})
}

// Put /v1/settings/logo
// An empty path removes the logo
func (api *SettingsAPI) SetLogo(c *gin.Context) {
	var payload settingshttpmapper.Logo
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	path, err := api.service.SetLogo(c.Request.Context(), payload.Path)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settingshttpmapper.Logo{Path: path})
}
