package navigation

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/pkg/browser"
)

// Browser opens locations of the web application in the user's default
// browser.
type Browser struct {
	appURL *url.URL
	log    hclog.Logger

	// open is browser.OpenURL outside of tests.
	open func(string) error
}

var _ Navigator = (*Browser)(nil)

// NewBrowser creates a Browser rooted at appURL, e.g. "https://planbook.example.com".
func NewBrowser(appURL string, log hclog.Logger) (*Browser, error) {
	u, err := url.Parse(appURL)
	if err != nil {
		return nil, fmt.Errorf("invalid app url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("app url must use http or https scheme, got: %s", u.Scheme)
	}
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Browser{
		appURL: u,
		log:    log,
		open:   browser.OpenURL,
	}, nil
}

// URL resolves a location against the application URL.
func (b *Browser) URL(to Location) string {
	u := *b.appURL
	u.Path = strings.TrimRight(u.Path, "/") + to.Path
	u.RawQuery = ""
	if len(to.Query) > 0 {
		u.RawQuery = to.Query.Encode()
	}
	return u.String()
}

func (b *Browser) NavigateTo(ctx context.Context, to Location) error {
	target := b.URL(to)
	b.log.Info("opening browser", "url", target)
	if err := b.open(target); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
