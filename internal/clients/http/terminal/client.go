package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Apurer/go-gin-pos-server/internal/shared/nexo"
)

const (
	DefaultSoftPOSBaseURL   = "https://softposconfig-test.adyen.com/softposconfig/v3/"
	DefaultDeviceAPIBaseURL = "https://device-api-test.adyen.com/v1/"
	// DefaultTimeout leaves room for the shopper to tap and enter a PIN.
	DefaultTimeout = 150 * time.Second

	apiKeyHeader = "x-API-key"
	maxErrorBody = 4 << 10
)

// StatusError reports a non-2xx reply from the terminal APIs.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("terminal API %s returned %d: %s", e.Operation, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("terminal API %s returned %d", e.Operation, e.StatusCode)
}

// CertificateRequest exchanges an SDK setup token for a session certificate.
type CertificateRequest struct {
	MerchantAccount string `json:"merchantAccount"`
	Store           string `json:"store,omitempty"`
	SetupToken      string `json:"setupToken"`
}

// CertificateResponse carries the opaque sdkData blob consumed by the payment SDK.
type CertificateResponse struct {
	ID              string `json:"id"`
	MerchantAccount string `json:"merchantAccount"`
	Store           string `json:"store,omitempty"`
	InstallationID  string `json:"installationId"`
	SDKData         string `json:"sdkData"`
}

type connectedDevicesResponse struct {
	UniqueDeviceIDs []string `json:"uniqueDeviceIds"`
}

// Client performs the three terminal API calls. The API key is supplied per call.
type Client struct {
	softposBaseURL string
	deviceBaseURL  string
	httpClient     *http.Client
	timeout        time.Duration
}

type Option func(*Client)

func WithSoftPOSBaseURL(baseURL string) Option {
	return func(c *Client) {
		if v := strings.TrimSpace(baseURL); v != "" {
			c.softposBaseURL = v
		}
	}
}

func WithDeviceAPIBaseURL(baseURL string) Option {
	return func(c *Client) {
		if v := strings.TrimSpace(baseURL); v != "" {
			c.deviceBaseURL = v
		}
	}
}

// WithHTTPClient replaces the instrumented default client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewClient instantiates the terminal client with sane defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		softposBaseURL: DefaultSoftPOSBaseURL,
		deviceBaseURL:  DefaultDeviceAPIBaseURL,
		timeout:        DefaultTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.httpClient == nil {
		c.httpClient = newHTTPClient(c.timeout)
	}
	return c
}

func newHTTPClient(timeout time.Duration) *http.Client {
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.DialContext = (&net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}).DialContext
	base.ResponseHeaderTimeout = timeout
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(base),
	}
}

// FetchSessionCertificate calls POST auth/certificate on the SoftPOS config API.
func (c *Client) FetchSessionCertificate(ctx context.Context, apiKey string, req CertificateRequest) (*CertificateResponse, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("terminal client not configured")
	}
	req.Store = strings.TrimSpace(req.Store)
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode certificate request: %w", err)
	}
	var out CertificateResponse
	if err := c.do(ctx, "auth/certificate", http.MethodPost, joinURL(c.softposBaseURL, "auth/certificate"), apiKey, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListConnectedDevices returns the device ids currently connected for the merchant account.
// Duplicates are passed through as received.
func (c *Client) ListConnectedDevices(ctx context.Context, apiKey, merchantAccount string) ([]string, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("terminal client not configured")
	}
	ma, err := pathParam("merchantAccount", merchantAccount)
	if err != nil {
		return nil, err
	}
	var out connectedDevicesResponse
	endpoint := joinURL(c.deviceBaseURL, "merchants/"+ma+"/connectedDevices")
	if err := c.do(ctx, "connectedDevices", http.MethodGet, endpoint, apiKey, nil, &out); err != nil {
		return nil, err
	}
	if out.UniqueDeviceIDs == nil {
		return []string{}, nil
	}
	return out.UniqueDeviceIDs, nil
}

// SyncDeviceRequest posts a Nexo message and blocks until the terminal answers or the call times out.
// An empty reply body yields an empty response.
func (c *Client) SyncDeviceRequest(ctx context.Context, apiKey, merchantAccount, deviceID string, body []byte) (*nexo.Response, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("terminal client not configured")
	}
	ma, err := pathParam("merchantAccount", merchantAccount)
	if err != nil {
		return nil, err
	}
	device, err := pathParam("deviceId", deviceID)
	if err != nil {
		return nil, err
	}
	endpoint := joinURL(c.deviceBaseURL, "merchants/"+ma+"/devices/"+device+"/sync")
	var raw json.RawMessage
	if err := c.do(ctx, "sync", http.MethodPost, endpoint, apiKey, body, &raw); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return &nexo.Response{}, nil
	}
	return nexo.DecodeResponse(raw)
}

func (c *Client) do(ctx context.Context, operation, method, endpoint, apiKey string, body []byte, out any) error {
	if strings.TrimSpace(apiKey) == "" {
		return errors.New("terminal API key is required")
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	req.Header.Set(apiKeyHeader, apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call terminal API %s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Operation: operation, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read terminal API %s response: %w", operation, err)
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = payload
		return nil
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return fmt.Errorf("terminal API %s returned an empty response", operation)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode terminal API %s response: %w", operation, err)
	}
	return nil
}

func pathParam(name, value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%s is required", name)
	}
	styled, err := runtime.StyleParamWithLocation("simple", false, name, runtime.ParamLocationPath, value)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", name, err)
	}
	return styled, nil
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
