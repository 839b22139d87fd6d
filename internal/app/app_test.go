package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DealHunter/internal/config"
	"DealHunter/internal/domain"
	"DealHunter/internal/infrastructure/alert"
	"DealHunter/internal/infrastructure/storage"
	"DealHunter/internal/logging"
	"DealHunter/internal/retrieval"
)

func ptr(v float64) *float64 { return &v }

func testConfig(t *testing.T, shopURL string) config.Config {
	t.Helper()
	dir := t.TempDir()

	return config.Config{
		Retrieval: config.RetrievalConfig{Default: "http"},
		State:     config.StateConfig{Backend: config.BackendJSON, Path: filepath.Join(dir, "last_prices.json")},
		Alerts: config.AlertsConfig{
			Sinks:         []string{config.SinkConsole, config.SinkCommitMessage},
			CommitMessage: config.FileSinkConfig{Path: filepath.Join(dir, "alert.log")},
		},
		Items: []config.ItemConfig{
			{
				ID:            "laptop",
				Name:          "Laptop",
				URL:           shopURL + "/laptop",
				TargetPrice:   ptr(48000),
				PriceSelector: ".price",
				StockKeyword:  "품절",
			},
			{
				ID:            "phone",
				URL:           shopURL + "/phone",
				PriceSelector: ".price",
				StockKeyword:  "품절",
			},
		},
	}
}

func shopServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/laptop":
			_, _ = w.Write([]byte(`<html><body><span class="price">45,000원</span></body></html>`))
		case "/phone":
			_, _ = w.Write([]byte(`<html><body><p>품절</p></body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestApplication_RunEndToEnd(t *testing.T) {
	srv := shopServer()
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	require.NoError(t, storage.NewJSONStore(cfg.State.Path).Replace(context.Background(), domain.PriceState{"laptop": 50000}))

	var out bytes.Buffer
	application, err := New(context.Background(), cfg, logging.Discard(), &out)
	require.NoError(t, err)
	defer func() { require.NoError(t, application.Close()) }()

	report, err := application.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Alerts)
	assert.Equal(t, 1, report.Count(domain.StatusInStock))
	assert.Equal(t, 1, report.Count(domain.StatusOutOfStock))
	assert.Contains(t, out.String(), "PRICE_DROP: Laptop 50000 -> 45000")
	assert.Contains(t, out.String(), "TARGET_HIT: Laptop 45000 <= 48000")

	commit, err := os.ReadFile(cfg.Alerts.CommitMessage.Path)
	require.NoError(t, err)
	assert.Equal(t, "PRICE_DROP: Laptop 50000 -> 45000\nTARGET_HIT: Laptop 45000 <= 48000\n", string(commit))

	state, err := application.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PriceState{"laptop": 45000}, state)
}

func TestApplication_UnknownRetrieverIsFetchError(t *testing.T) {
	srv := shopServer()
	defer srv.Close()

	cfg := testConfig(t, srv.URL)
	cfg.Items = cfg.Items[:1]
	cfg.Items[0].Retriever = "carrier-pigeon"

	application, err := New(context.Background(), cfg, logging.Discard(), &bytes.Buffer{})
	require.NoError(t, err)
	defer application.Close()

	report, err := application.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, domain.StatusFetchError, report.Results[0].Reading.Status)
	assert.Contains(t, report.Results[0].Reading.Detail, retrieval.ErrUnknownRetriever.Error())
}

func TestNewStateStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, closer, err := NewStateStore(ctx, config.StateConfig{Backend: config.BackendJSON, Path: filepath.Join(dir, "p.json")})
	require.NoError(t, err)
	assert.Nil(t, closer)
	assert.IsType(t, &storage.JSONStore{}, store)

	store, closer, err = NewStateStore(ctx, config.StateConfig{Backend: config.BackendSQLite, Path: filepath.Join(dir, "p.db")})
	require.NoError(t, err)
	require.NotNil(t, closer)
	assert.IsType(t, &storage.SQLStore{}, store)
	require.NoError(t, closer.Close())

	_, _, err = NewStateStore(ctx, config.StateConfig{Backend: "redis"})
	require.Error(t, err)
}

func TestNewSink(t *testing.T) {
	sink, err := NewSink(config.AlertsConfig{}, nil)
	require.NoError(t, err)
	assert.Nil(t, sink)

	sink, err = NewSink(config.AlertsConfig{Sinks: []string{config.SinkConsole}}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.IsType(t, &alert.ConsoleSink{}, sink)

	sink, err = NewSink(config.AlertsConfig{Sinks: []string{
		config.SinkConsole,
		config.SinkLogFile,
		config.SinkTelegram,
		config.SinkWebhook,
		config.SinkEmail,
	}}, &bytes.Buffer{})
	require.NoError(t, err)
	multi, ok := sink.(alert.MultiSink)
	require.True(t, ok)
	assert.Len(t, multi, 5)

	_, err = NewSink(config.AlertsConfig{Sinks: []string{"pager"}}, nil)
	require.Error(t, err)
}

func TestNewRegistry(t *testing.T) {
	registry, browser := NewRegistry(config.RetrievalConfig{})
	require.NotNil(t, browser)
	assert.Equal(t, []string{"browser", "http"}, registry.Names())
	require.NoError(t, browser.Close())
}
