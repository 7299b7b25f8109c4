// Package scraper reads the daily Product Hunt leaderboard from its public
// mirror and falls back to sample data when the mirror cannot be reached.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"

	"github.com/bryanwahyu/ph-daily/internal/config"
	"github.com/bryanwahyu/ph-daily/internal/domain/products"
)

const maxBodyBytes = 8 << 20

// errPageNotFound is returned without retrying when the day has no page.
var errPageNotFound = errors.New("daily page not found")

// Client implements products.Source.
type Client struct {
	HTTP          *http.Client
	BaseURL       string
	ProbeURL      string
	UserAgent     string
	MaxProducts   int
	MaxRetries    int
	RetryInterval time.Duration // first backoff step, doubled per attempt
	ProbeTimeout  time.Duration
	Log           *log.Logger
}

func New(cfg config.Analyzer, logger *log.Logger) *Client {
	return &Client{
		HTTP:          &http.Client{Timeout: cfg.RequestTimeout},
		BaseURL:       cfg.BaseURL,
		ProbeURL:      cfg.ProbeURL,
		UserAgent:     cfg.UserAgent,
		MaxProducts:   cfg.MaxProducts,
		MaxRetries:    cfg.MaxRetries,
		RetryInterval: time.Second,
		ProbeTimeout:  10 * time.Second,
		Log:           logger,
	}
}

// Fetch returns the leaderboard for the day before date. Network problems
// and empty pages are not errors: the sample leaderboard is returned with
// Source set to fallback. Only a cancelled context is reported as an error.
func (c *Client) Fetch(ctx context.Context, date time.Time) (products.Listing, error) {
	pageURL := products.DailyURL(c.BaseURL, date)
	fallback := products.Listing{URL: pageURL, Source: products.SourceFallback, Products: products.Fallback()}

	if !c.Probe(ctx) {
		if err := ctx.Err(); err != nil {
			return products.Listing{}, err
		}
		c.Log.WithField("probe", c.ProbeURL).Warn("network unavailable, using sample data")
		return fallback, nil
	}

	c.Log.WithField("url", pageURL).Info("fetching daily leaderboard")
	body, err := c.fetchWithRetry(ctx, pageURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return products.Listing{}, ctxErr
		}
		c.Log.WithError(err).Warn("could not fetch leaderboard, using sample data")
		return fallback, nil
	}

	base, _ := url.Parse(pageURL)
	if base != nil {
		base = &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/"}
	}
	items, strategy, err := Parse(bytes.NewReader(body), base, c.MaxProducts)
	if err != nil || len(items) == 0 {
		c.Log.WithError(err).Warn("no products extracted, using sample data")
		return fallback, nil
	}
	c.Log.WithField("strategy", strategy).WithField("count", len(items)).Info("extracted products")
	return products.Listing{URL: pageURL, Source: products.SourceLive, Products: items}, nil
}

// Probe reports whether the mirror answers with 200.
func (c *Client) Probe(ctx context.Context) bool {
	if c.ProbeURL == "" {
		return true
	}
	timeout := c.ProbeTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.get(ctx, c.ProbeURL)
	if err != nil {
		c.Log.WithError(err).Debug("connectivity probe failed")
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	return resp.StatusCode == http.StatusOK
}

func (c *Client) fetchWithRetry(ctx context.Context, pageURL string) ([]byte, error) {
	retries := c.MaxRetries
	if retries <= 0 {
		retries = 1
	}
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.RetryInterval
	eb.Multiplier = 2
	eb.RandomizationFactor = 0
	eb.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(retries-1)), ctx)

	attempt := 0
	var body []byte
	op := func() error {
		attempt++
		resp, err := c.get(ctx, pageURL)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			// the page for this day does not exist; retrying will not help
			return backoff.Permanent(fmt.Errorf("%w: %s", errPageNotFound, pageURL))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("HTTP %d", resp.StatusCode)
		}
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return err
		}
		body = b
		return nil
	}
	notify := func(err error, wait time.Duration) {
		c.Log.WithError(err).WithField("attempt", fmt.Sprintf("%d/%d", attempt, retries)).
			WithField("retry_in", wait).Warn("fetch attempt failed")
	}
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		if errors.Is(err, errPageNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("all %d attempts failed for %s: %w", attempt, pageURL, err)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	ua := c.UserAgent
	if ua == "" {
		ua = config.DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,zh-CN;q=0.8")
	return c.HTTP.Do(req)
}
