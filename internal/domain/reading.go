package domain

import "fmt"

// Status classifies the outcome of processing one item in one run.
type Status string

const (
	StatusInStock      Status = "in_stock"
	StatusOutOfStock   Status = "out_of_stock"
	StatusPriceMissing Status = "price_missing"
	StatusParseError   Status = "parse_error"
	StatusFetchError   Status = "fetch_error"
	StatusUnknown      Status = "unknown"
)

// Reading is the normalized result of extracting one page.
type Reading struct {
	Status Status
	// Price is set only when Status is StatusInStock.
	Price  *float64
	Detail string
}

// InStock builds a reading carrying a parsed price.
func InStock(price float64) Reading {
	return Reading{Status: StatusInStock, Price: &price}
}

// Failed builds a price-less reading with a human-readable reason.
func Failed(status Status, format string, args ...any) Reading {
	return Reading{Status: status, Detail: fmt.Sprintf(format, args...)}
}

// HasPrice reports whether the reading can feed the decision engine.
func (r Reading) HasPrice() bool {
	return r.Status == StatusInStock && r.Price != nil
}
