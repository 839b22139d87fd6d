package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"

	"DealHunter/internal/domain"
	"DealHunter/internal/ports"
)

// HTTPName is the registry name of the plain HTTP retriever.
const HTTPName = "http"

// HTTPOptions configures HTTPRetriever.
type HTTPOptions struct {
	UserAgent string
	Timeout   time.Duration
	Headers   map[string]string
}

// HTTPRetriever downloads raw page markup without executing scripts.
type HTTPRetriever struct {
	client *resty.Client
}

var _ ports.Retriever = (*HTTPRetriever)(nil)

// NewHTTPRetriever wires a resty client; timeout defaults to 10 seconds.
func NewHTTPRetriever(opts HTTPOptions) *HTTPRetriever {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New()
	client.SetTimeout(timeout)
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	client.SetHeaders(opts.Headers)

	return &HTTPRetriever{client: client}
}

// Name identifies the strategy inside the registry.
func (h *HTTPRetriever) Name() string {
	return HTTPName
}

// Fetch returns the UTF-8 decoded body of a successful GET request.
func (h *HTTPRetriever) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", &domain.FetchError{URL: url, Err: fmt.Errorf("request page: %w", err)}
	}

	if !resp.IsSuccess() {
		return "", &domain.FetchError{URL: url, StatusCode: resp.StatusCode()}
	}

	return decodeBody(resp.Body(), resp.Header().Get("Content-Type")), nil
}

// decodeBody converts the body to UTF-8 using the Content-Type charset, a
// <meta> declaration, or content sniffing, in that order. Undecodable bodies
// are returned as-is.
func decodeBody(body []byte, contentType string) string {
	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return string(body)
	}
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
