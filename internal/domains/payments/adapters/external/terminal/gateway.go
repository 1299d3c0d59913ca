package terminal

import (
	"context"
	"errors"
	"fmt"

	terminalclient "github.com/Apurer/go-gin-pos-server/internal/clients/http/terminal"
	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/domain"
	"github.com/Apurer/go-gin-pos-server/internal/domains/payments/ports"
	settingsdomain "github.com/Apurer/go-gin-pos-server/internal/domains/settings/domain"
	"github.com/Apurer/go-gin-pos-server/internal/shared/nexo"
)

// Client is the subset of the cloud terminal API the gateway uses.
type Client interface {
	FetchSessionCertificate(ctx context.Context, apiKey string, req terminalclient.CertificateRequest) (*terminalclient.CertificateResponse, error)
	ListConnectedDevices(ctx context.Context, apiKey, merchantAccount string) ([]string, error)
	SyncDeviceRequest(ctx context.Context, apiKey, merchantAccount, deviceID string, body []byte) (*nexo.Response, error)
}

// MerchantSource supplies the saved merchant credentials.
type MerchantSource interface {
	MerchantConfig(ctx context.Context) (*settingsdomain.MerchantConfig, error)
}

// Gateway implements the terminal port on top of the cloud terminal API.
// Credentials are read from settings on every call so a saved change applies immediately.
type Gateway struct {
	client   Client
	merchant MerchantSource
	encoder  *nexo.Encoder
}

func NewGateway(client Client, merchant MerchantSource, encoder *nexo.Encoder) *Gateway {
	return &Gateway{client: client, merchant: merchant, encoder: encoder}
}

func (g *Gateway) ListDevices(ctx context.Context) ([]string, error) {
	cfg, err := g.config(ctx)
	if err != nil {
		return nil, err
	}
	return g.client.ListConnectedDevices(ctx, cfg.APIKey, cfg.MerchantAccount)
}

func (g *Gateway) SendPayment(ctx context.Context, payment domain.DevicePayment) (*nexo.Response, error) {
	cfg, err := g.config(ctx)
	if err != nil {
		return nil, err
	}
	req, err := g.encoder.NewPaymentRequest(nexo.PaymentInput{
		ServiceID: payment.ServiceID,
		POIID:     payment.DeviceID,
		Currency:  payment.Currency,
		Amount:    payment.Amount,
	})
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	body, err := nexo.Encode(req)
	if err != nil {
		return nil, err
	}
	return g.client.SyncDeviceRequest(ctx, cfg.APIKey, cfg.MerchantAccount, payment.DeviceID, body)
}

// SendAbort delivers a merchant abort. The terminal's reply to an abort carries no
// payment data, so an undecodable body is not treated as a failure.
func (g *Gateway) SendAbort(ctx context.Context, serviceID, deviceID string) error {
	cfg, err := g.config(ctx)
	if err != nil {
		return err
	}
	req, err := g.encoder.NewAbortRequest(serviceID, deviceID)
	if err != nil {
		return fmt.Errorf("build abort request: %w", err)
	}
	body, err := nexo.Encode(req)
	if err != nil {
		return err
	}
	_, err = g.client.SyncDeviceRequest(ctx, cfg.APIKey, cfg.MerchantAccount, deviceID, body)
	if errors.Is(err, nexo.ErrMalformedResponse) {
		return nil
	}
	return err
}

func (g *Gateway) AuthenticateSDK(ctx context.Context, setupToken string) (*domain.SDKSession, error) {
	cfg, err := g.config(ctx)
	if err != nil {
		return nil, err
	}
	cert, err := g.client.FetchSessionCertificate(ctx, cfg.APIKey, terminalclient.CertificateRequest{
		MerchantAccount: cfg.MerchantAccount,
		Store:           cfg.Store,
		SetupToken:      setupToken,
	})
	if err != nil {
		return nil, err
	}
	return &domain.SDKSession{
		ID:              cert.ID,
		MerchantAccount: cert.MerchantAccount,
		Store:           cert.Store,
		InstallationID:  cert.InstallationID,
		SDKData:         cert.SDKData,
	}, nil
}

func (g *Gateway) config(ctx context.Context) (*settingsdomain.MerchantConfig, error) {
	if g == nil || g.client == nil || g.merchant == nil || g.encoder == nil {
		return nil, errors.New("terminal gateway not configured")
	}
	return g.merchant.MerchantConfig(ctx)
}

var _ ports.TerminalGateway = (*Gateway)(nil)
