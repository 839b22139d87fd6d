package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DealHunter/internal/domain"
)

func sampleRecord() domain.AlertRecord {
	prior := 60000.0
	return domain.AlertRecord{
		RunID:        "run-1",
		Item:         domain.TrackedItem{ID: "laptop", Name: "Laptop", URL: "https://shop.example/laptop"},
		Condition:    domain.ConditionPriceDrop,
		CurrentPrice: 50000,
		PriorPrice:   &prior,
		RaisedAt:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNotifier_PublishPostsForm(t *testing.T) {
	var gotPath, gotChat, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.NoError(t, r.ParseForm())
		gotChat = r.PostForm.Get("chat_id")
		gotText = r.PostForm.Get("text")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewNotifier("TOKEN", "42", srv.URL+"/")
	require.NoError(t, n.Publish(context.Background(), sampleRecord()))

	assert.Equal(t, "/botTOKEN/sendMessage", gotPath)
	assert.Equal(t, "42", gotChat)
	assert.Equal(t, "PRICE_DROP: Laptop 60000 -> 50000\nhttps://shop.example/laptop", gotText)
}

func TestNotifier_PublishReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	n := NewNotifier("TOKEN", "42", srv.URL)
	err := n.Publish(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestNotifier_Misconfigured(t *testing.T) {
	n := NewNotifier("", "", "")
	require.Error(t, n.Publish(context.Background(), sampleRecord()))
	assert.Equal(t, DefaultAPIURL, n.apiURL)
}
