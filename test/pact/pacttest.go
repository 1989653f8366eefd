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
	ProviderName = "catering-api"
	ConsumerName = "catering-storefront"

	StateMenuSeeded   = "the menu has one available dish"
	StateDishMissing  = "no dish with id missing-dish"
	StateSettingsBase = "default restaurant settings"
)

const (
	CategoryID   = "cat-pact"
	CategorySlug = "plats-pact"
	DishID       = "dish-pact"
	MissingDish  = "missing-dish"
	DishName     = "Couscous Pact"
	DishPrice    = 10.0
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

// PactFile returns the canonical pact file path for the storefront consumer.
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

// ExampleOrderRequest is the checkout body the storefront sends.
func ExampleOrderRequest() map[string]any {
	return map[string]any{
		"items": []map[string]any{{"dishId": DishID, "quantity": 2, "price": DishPrice}},
		"total": 2 * DishPrice,
		"customer": map[string]any{
			"firstName": "Pact",
			"lastName":  "Client",
			"email":     "pact.client@example.tn",
			"phone":     "+21620000000",
		},
		"address":      "12 rue de Carthage, Tunis",
		"deliveryDate": "2025-06-12",
		"deliveryTime": "12:30",
	}
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
