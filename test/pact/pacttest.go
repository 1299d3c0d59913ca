//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "pos-api"
	ConsumerName = "pos-tablet"

	// DeviceAPIProviderName is the cloud terminal API as seen by the POS API.
	DeviceAPIProviderName = "terminal-device-api"

	StateMenuBaseline       = "menu baseline"
	StateMenuItemExists     = "menu item with id 1 exists"
	StateMenuItemMissing    = "no menu item with id 404"
	StateMerchantMissing    = "no merchant configured"
	StateDevicesConnected   = "two terminals are connected"
	StateMerchantUnknownKey = "api key is rejected"
)

const (
	ExistingMenuItemID int64 = 1
	MissingMenuItemID  int64 = 404

	RegisterID      = "front"
	MerchantAccount = "CoffeeShopPOS"
	APIKey          = "pact-api-key"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the tablet consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleMenuItemPayload provides stable test data for menu interactions.
func ExampleMenuItemPayload() map[string]any {
	return map[string]any{
		"name":            "Flat white",
		"description":     "Double ristretto, steamed milk",
		"price":           "38.00",
		"vatRate":         "12.00",
		"quantityInStock": 40,
	}
}

// ExampleDeviceIDs are the terminals reported by the device API.
func ExampleDeviceIDs() []string {
	return []string{"V400m-324688179", "S1F2-000158213300585"}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
