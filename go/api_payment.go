package posserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	paymenthttpmapper "github.com/Apurer/go-gin-pos-server/internal/domains/payments/adapters/http/mapper"
	paymentsports "github.com/Apurer/go-gin-pos-server/internal/domains/payments/ports"
)

// PaymentAPI drives the device payment flow of each register and accepts SDK results.
type PaymentAPI struct {
	service paymentsports.Service
}

func NewPaymentAPI(service paymentsports.Service) *PaymentAPI {
	return &PaymentAPI{service: service}
}

// Get /v1/registers/:registerId/device-payment
// Returns the current stage, discovered devices and any finished result
func (api *PaymentAPI) GetState(c *gin.Context) {
	snapshot, err := api.service.State(c.Request.Context(), c.Param("registerId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymenthttpmapper.FromDomainSnapshot(snapshot))
}

// Post /v1/registers/:registerId/device-payment/devices/refresh
func (api *PaymentAPI) RefreshDevices(c *gin.Context) {
	snapshot, err := api.service.RefreshDevices(c.Request.Context(), c.Param("registerId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, paymenthttpmapper.FromDomainSnapshot(snapshot))
}

// Put /v1/registers/:registerId/device-payment/device
func (api *PaymentAPI) SelectDevice(c *gin.Context) {
	var payload paymenthttpmapper.SelectDevicePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	snapshot, err := api.service.SelectDevice(c.Request.Context(), c.Param("registerId"), payload.DeviceID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymenthttpmapper.FromDomainSnapshot(snapshot))
}

// Post /v1/registers/:registerId/device-payment/start
// Charges the cart total on the selected terminal. The result is polled via GetState.
func (api *PaymentAPI) StartPayment(c *gin.Context) {
	snapshot, err := api.service.StartPayment(c.Request.Context(), c.Param("registerId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, paymenthttpmapper.FromDomainSnapshot(snapshot))
}

// Post /v1/registers/:registerId/device-payment/abort
func (api *PaymentAPI) Abort(c *gin.Context) {
	snapshot, err := api.service.Abort(c.Request.Context(), c.Param("registerId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, paymenthttpmapper.FromDomainSnapshot(snapshot))
}

// Post /v1/registers/:registerId/device-payment/cancel
func (api *PaymentAPI) Cancel(c *gin.Context) {
	snapshot, err := api.service.Cancel(c.Request.Context(), c.Param("registerId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymenthttpmapper.FromDomainSnapshot(snapshot))
}

// Post /v1/registers/:registerId/device-payment/dismiss
// Closes a finished payment, recording the order when it was approved
func (api *PaymentAPI) Dismiss(c *gin.Context) {
	result, err := api.service.Dismiss(c.Request.Context(), c.Param("registerId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymenthttpmapper.FromDismissResult(result))
}

// Post /v1/registers/:registerId/checkout/sdk
func (api *PaymentAPI) CheckoutSDK(c *gin.Context) {
	var payload paymenthttpmapper.SDKResultPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	sdkResult, err := paymenthttpmapper.ToDomainSDKResult(payload)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	result, err := api.service.CheckoutSDK(c.Request.Context(), c.Param("registerId"), sdkResult)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	status := http.StatusOK
	if result.Order != nil {
		status = http.StatusCreated
	}
	c.JSON(status, paymenthttpmapper.FromCheckoutResult(result))
}

// Post /v1/sdk/authenticate
func (api *PaymentAPI) AuthenticateSDK(c *gin.Context) {
	var payload paymenthttpmapper.SDKAuthenticationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	session, err := api.service.AuthenticateSDK(c.Request.Context(), payload.SetupToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, paymenthttpmapper.FromDomainSDKSession(session))
}
