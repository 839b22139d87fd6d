// Package extract turns retrieved page markup into a normalized stock/price
// reading. It never performs I/O; retrieval failures are reported upstream.
package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"DealHunter/internal/domain"
)

// Extract reads stock status and price from markup.
//
// A non-empty stockKeyword found anywhere in the document text short-circuits
// to out_of_stock before the price selector is consulted.
func Extract(markup, stockKeyword, priceSelector string) (reading domain.Reading) {
	defer func() {
		if r := recover(); r != nil {
			reading = domain.Failed(domain.StatusParseError, "unexpected failure: %v", r)
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return domain.Failed(domain.StatusParseError, "parse document: %v", err)
	}

	if stockKeyword != "" && strings.Contains(doc.Text(), stockKeyword) {
		return domain.Failed(domain.StatusOutOfStock, "stock keyword %q present", stockKeyword)
	}

	selector := strings.TrimSpace(priceSelector)
	if selector == "" {
		return domain.Failed(domain.StatusPriceMissing, "no price selector configured")
	}
	if _, err := cascadia.ParseGroup(selector); err != nil {
		return domain.Failed(domain.StatusParseError, "invalid price selector %q: %v", selector, err)
	}

	match := doc.Find(selector).First()
	if match.Length() == 0 {
		return domain.Failed(domain.StatusPriceMissing, "selector %q matched nothing", selector)
	}

	return readingFromText(match.Text())
}

func readingFromText(text string) domain.Reading {
	digits := NormalizePrice(text)
	if digits == "" {
		return domain.Failed(domain.StatusPriceMissing, "no digits in %q", strings.TrimSpace(text))
	}

	price, err := ParsePrice(digits)
	if err != nil {
		return domain.Failed(domain.StatusParseError, "%v", err)
	}
	return domain.InStock(price)
}

// NormalizePrice keeps decimal digits and decimal points in their original
// order. Thousands separators are dropped, so "50,000원" becomes "50000".
func NormalizePrice(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParsePrice parses a normalized price. Inputs with more than one decimal
// point are rejected rather than guessed at.
func ParsePrice(digits string) (float64, error) {
	price, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, fmt.Errorf("price %q is not a number: %w", digits, err)
	}
	return price, nil
}
