// Package basket talks to the Basket mailing-list API. Subscription failures
// are the caller's problem to log and swallow: the newsletter endpoint never
// reveals whether an email was accepted.
package basket

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Subscription struct {
	Email     string
	List      string
	Format    string
	Country   string
	SourceURL string
}

// Client is what the newsletter service depends on.
type Client interface {
	Subscribe(ctx context.Context, sub Subscription) error
}

type httpClient struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) Client {
	return &httpClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *httpClient) Subscribe(ctx context.Context, sub Subscription) error {
	form := url.Values{
		"email":       {sub.Email},
		"newsletters": {sub.List},
		"format":      {sub.Format},
	}
	if sub.Country != "" {
		form.Set("country", sub.Country)
	}
	if sub.SourceURL != "" {
		form.Set("source_url", sub.SourceURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/news/subscribe/", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("basket request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("basket returned status %d", resp.StatusCode)
	}
	return nil
}
