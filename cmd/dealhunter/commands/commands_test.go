package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DealHunter/internal/domain"
	"DealHunter/internal/usecase"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T, shopURL string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	statePath := filepath.Join(dir, "last_prices.json")
	cfg := fmt.Sprintf(`
logging:
  level: error
state:
  backend: json
  path: %s
alerts:
  sinks: [console]
items:
  - id: laptop
    name: Laptop
    url: %s/laptop
    targetPrice: 48000
    priceSelector: .price
    stockKeyword: 품절
`, statePath, shopURL)
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))
	return path, statePath
}

func TestRunCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><span class="price">45,000원</span></body></html>`))
	}))
	defer srv.Close()

	cfgPath, statePath := writeConfig(t, srv.URL)

	out, err := execute(t, "--config", cfgPath, "run")
	require.NoError(t, err)
	assert.Contains(t, out, "TARGET_HIT: Laptop 45000 <= 48000")
	assert.Contains(t, out, "in_stock")

	_, err = os.Stat(statePath)
	require.NoError(t, err)

	out, err = execute(t, "--config", cfgPath, "state")
	require.NoError(t, err)
	assert.Contains(t, out, "laptop")
	assert.Contains(t, out, "45000")
}

func TestRunCommand_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items:\n  - name: no id\n"), 0o600))

	_, err := execute(t, "--config", path, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	out, err := execute(t, "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = execute(t, "init", path)
	require.Error(t, err)
}

func TestItemsCommand(t *testing.T) {
	cfgPath, _ := writeConfig(t, "https://shop.example")

	out, err := execute(t, "--config", cfgPath, "items")
	require.NoError(t, err)
	assert.Contains(t, out, "laptop")
	assert.Contains(t, out, "48000")
	assert.Contains(t, out, "https://shop.example/laptop")
}

func TestRenderReport(t *testing.T) {
	price := 45000.0
	prior := 50000.0
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	report := usecase.RunReport{
		RunID:      "run-1",
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Alerts:     1,
		Results: []usecase.ItemResult{
			{
				Item:       domain.TrackedItem{ID: "laptop", Name: "Laptop"},
				Reading:    domain.Reading{Status: domain.StatusInStock, Price: &price},
				Prior:      &prior,
				Conditions: []domain.Condition{domain.ConditionPriceDrop},
			},
			{
				Item:    domain.TrackedItem{ID: "phone"},
				Reading: domain.Failed(domain.StatusFetchError, "status 503"),
			},
		},
	}

	var buf bytes.Buffer
	renderReport(&buf, report)
	out := buf.String()

	assert.Contains(t, out, "run run-1")
	assert.Contains(t, out, "PRICE_DROP")
	assert.Contains(t, out, "fetch_error")
	assert.Contains(t, out, "status 503")
	assert.Contains(t, strings.ToLower(out), "1.5s")
}

func TestRenderState(t *testing.T) {
	var buf bytes.Buffer
	renderState(&buf, domain.PriceState{"b": 2, "a": 1.5}, []domain.TrackedItem{{ID: "a"}})
	out := buf.String()

	assert.Less(t, bytes.Index(buf.Bytes(), []byte(" a ")), bytes.Index(buf.Bytes(), []byte(" b ")))
	assert.Contains(t, out, "1.5")
	assert.Contains(t, out, "true")
	assert.Contains(t, out, "false")
}
