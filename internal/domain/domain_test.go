package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceStateCloneIsIndependent(t *testing.T) {
	original := PriceState{"item001": 50000}

	clone := original.Clone()
	clone["item001"] = 45000
	clone["item002"] = 1000

	assert.Equal(t, 50000.0, original["item001"])
	assert.NotContains(t, original, "item002")
}

func TestPriceStateCloneNil(t *testing.T) {
	var state PriceState

	clone := state.Clone()

	require.NotNil(t, clone)
	assert.Empty(t, clone)
}

func TestPriceStatePrior(t *testing.T) {
	state := PriceState{"known": 0}

	prior := state.Prior("known")
	require.NotNil(t, prior, "zero is a recorded price")
	assert.Equal(t, 0.0, *prior)

	assert.Nil(t, state.Prior("missing"))
}

func TestReadingHasPrice(t *testing.T) {
	assert.True(t, InStock(10).HasPrice())
	assert.False(t, Failed(StatusOutOfStock, "keyword %q", "품절").HasPrice())
	assert.False(t, Reading{Status: StatusInStock}.HasPrice())
}

func TestFetchErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&FetchError{URL: "http://shop.test", Err: cause})

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")

	withStatus := &FetchError{URL: "http://shop.test", StatusCode: 503}
	assert.Equal(t, "fetch http://shop.test: status 503", withStatus.Error())
}

func TestTrackedItemDisplayName(t *testing.T) {
	assert.Equal(t, "Keyboard", TrackedItem{ID: "kb", Name: "Keyboard"}.DisplayName())
	assert.Equal(t, "kb", TrackedItem{ID: "kb"}.DisplayName())
}
