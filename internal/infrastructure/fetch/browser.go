package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"DealHunter/internal/domain"
	"DealHunter/internal/ports"
)

// BrowserName is the registry name of the headless-browser retriever.
const BrowserName = "browser"

// BrowserOptions configures BrowserRetriever.
type BrowserOptions struct {
	ExecPath  string
	UserAgent string
	// WaitSelector, when set, is awaited before the DOM is captured.
	WaitSelector string
	Timeout      time.Duration
	Headful      bool
}

// BrowserRetriever renders pages in Chrome so script-built prices are present.
// The browser starts on first use and is shared by all fetches until Close.
type BrowserRetriever struct {
	opts       BrowserOptions
	browserCtx context.Context
	cancel     context.CancelFunc
}

var _ ports.Retriever = (*BrowserRetriever)(nil)

// NewBrowserRetriever stores options; timeout defaults to 30 seconds.
func NewBrowserRetriever(opts BrowserOptions) *BrowserRetriever {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &BrowserRetriever{opts: opts}
}

// Name identifies the strategy inside the registry.
func (b *BrowserRetriever) Name() string {
	return BrowserName
}

// Fetch navigates a fresh tab to url and returns the rendered document.
func (b *BrowserRetriever) Fetch(ctx context.Context, url string) (string, error) {
	if b.browserCtx == nil {
		b.start()
	}

	tabCtx, cancelTab := chromedp.NewContext(b.browserCtx)
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, b.opts.Timeout)
	defer cancelTimeout()

	var markup string
	if err := chromedp.Run(tabCtx, b.actions(url, &markup)...); err != nil {
		return "", &domain.FetchError{URL: url, Err: fmt.Errorf("render page: %w", err)}
	}
	return markup, nil
}

// Close shuts the browser down; it is safe to call when it never started.
func (b *BrowserRetriever) Close() error {
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
		b.browserCtx = nil
	}
	return nil
}

func (b *BrowserRetriever) start() {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), b.allocatorOptions()...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	b.browserCtx = browserCtx
	b.cancel = func() {
		cancelBrowser()
		cancelAlloc()
	}
}

func (b *BrowserRetriever) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if b.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.opts.ExecPath))
	}
	if b.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(b.opts.UserAgent))
	}
	if b.opts.Headful {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	return opts
}

func (b *BrowserRetriever) actions(url string, markup *string) []chromedp.Action {
	actions := []chromedp.Action{chromedp.Navigate(url)}
	if b.opts.WaitSelector != "" {
		actions = append(actions, chromedp.WaitReady(b.opts.WaitSelector, chromedp.ByQuery))
	}
	return append(actions, chromedp.OuterHTML("html", markup, chromedp.ByQuery))
}
