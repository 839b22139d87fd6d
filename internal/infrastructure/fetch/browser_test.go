package fetch

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBrowserRetrieverDefaults(t *testing.T) {
	b := NewBrowserRetriever(BrowserOptions{})

	assert.Equal(t, BrowserName, b.Name())
	assert.Equal(t, 30*time.Second, b.opts.Timeout)
}

func TestBrowserRetrieverOptions(t *testing.T) {
	plain := NewBrowserRetriever(BrowserOptions{})
	tuned := NewBrowserRetriever(BrowserOptions{ExecPath: "/usr/bin/chromium", UserAgent: "UA", Headful: true})

	assert.Len(t, tuned.allocatorOptions(), len(plain.allocatorOptions())+3)
}

func TestBrowserRetrieverActions(t *testing.T) {
	var markup string

	assert.Len(t, NewBrowserRetriever(BrowserOptions{}).actions("http://shop.test", &markup), 2)
	assert.Len(t, NewBrowserRetriever(BrowserOptions{WaitSelector: ".price"}).actions("http://shop.test", &markup), 3)
}

func TestBrowserRetrieverCloseWithoutStart(t *testing.T) {
	b := NewBrowserRetriever(BrowserOptions{})

	assert.NoError(t, b.Close())
	assert.NoError(t, b.Close())
}
