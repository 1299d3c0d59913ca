package terminal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-pos-server/internal/shared/nexo"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(
		WithSoftPOSBaseURL(server.URL+"/softposconfig/v3/"),
		WithDeviceAPIBaseURL(server.URL+"/v1"),
		WithHTTPClient(server.Client()),
	)
}

func TestFetchSessionCertificate_PostsSetupToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/softposconfig/v3/auth/certificate", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-API-key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]any{"merchantAccount": "MA", "setupToken": "token-1"}, body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","merchantAccount":"MA","installationId":"inst","sdkData":"opaque"}`)
	})

	cert, err := client.FetchSessionCertificate(context.Background(), "secret", CertificateRequest{
		MerchantAccount: "MA",
		Store:           "  ",
		SetupToken:      "token-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "opaque", cert.SDKData)
	assert.Equal(t, "inst", cert.InstallationID)
}

func TestFetchSessionCertificate_IncludesStoreWhenSet(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ST1", body["store"])
		_, _ = io.WriteString(w, `{"id":"c1","sdkData":"opaque"}`)
	})

	_, err := client.FetchSessionCertificate(context.Background(), "secret", CertificateRequest{
		MerchantAccount: "MA",
		Store:           "ST1",
		SetupToken:      "token-1",
	})
	require.NoError(t, err)
}

func TestListConnectedDevices_ReturnsIDsAsReceived(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/merchants/Demo Merchant/connectedDevices", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-API-key"))
		_, _ = io.WriteString(w, `{"uniqueDeviceIds":["S1F2-1","S1F2-1","V400m-2"]}`)
	})

	devices, err := client.ListConnectedDevices(context.Background(), "secret", "Demo Merchant")
	require.NoError(t, err)
	assert.Equal(t, []string{"S1F2-1", "S1F2-1", "V400m-2"}, devices)
}

func TestListConnectedDevices_EmptyList(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	devices, err := client.ListConnectedDevices(context.Background(), "secret", "MA")
	require.NoError(t, err)
	assert.Empty(t, devices)
	assert.NotNil(t, devices)
}

func TestSyncDeviceRequest_DecodesEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/merchants/MA/devices/S1F2-1/sync", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"ping":true}`, string(body))
		_, _ = io.WriteString(w, `{"SaleToPOIResponse":{"PaymentResponse":{"Response":{"Result":"Success"},"POIData":{"POITransactionID":{"TransactionID":"T9"}}}}}`)
	})

	resp, err := client.SyncDeviceRequest(context.Background(), "secret", "MA", "S1F2-1", []byte(`{"ping":true}`))
	require.NoError(t, err)
	assert.True(t, resp.Approved())
	assert.Equal(t, "T9", resp.TransactionID())
}

func TestSyncDeviceRequest_EmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	resp, err := client.SyncDeviceRequest(context.Background(), "secret", "MA", "S1F2-1", []byte(`{}`))
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.False(t, resp.Approved())
}

func TestSyncDeviceRequest_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `ok`)
	})

	_, err := client.SyncDeviceRequest(context.Background(), "secret", "MA", "S1F2-1", []byte(`{}`))
	require.ErrorIs(t, err, nexo.ErrMalformedResponse)
}

func TestClient_Non2xxIsStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":401,"message":"invalid key"}`, http.StatusUnauthorized)
	})

	_, err := client.ListConnectedDevices(context.Background(), "bad", "MA")
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "connectedDevices", statusErr.Operation)
	assert.Contains(t, statusErr.Body, "invalid key")
}

func TestClient_TimeoutSurfacesAsError(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	client := NewClient(WithDeviceAPIBaseURL(server.URL), WithTimeout(50*time.Millisecond))
	_, err := client.SyncDeviceRequest(context.Background(), "secret", "MA", "dev", []byte(`{}`))
	require.Error(t, err)
}

func TestClient_RequiresAPIKeyAndParams(t *testing.T) {
	client := NewClient()
	_, err := client.ListConnectedDevices(context.Background(), "", "MA")
	require.Error(t, err)
	_, err = client.SyncDeviceRequest(context.Background(), "key", "MA", " ", nil)
	require.Error(t, err)
}
