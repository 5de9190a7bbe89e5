package fetch

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/efreitasn/ccasswatch/internal/domain"
)

// CCASSClient reads shareholding snapshots and the stock list from the
// HKEXnews CCASS search pages.
type CCASSClient struct {
	searchURL    string
	stockListURL string
	httpClient   *http.Client
	logger       *slog.Logger
	now          func() time.Time

	maxRetries   int
	retryBackoff time.Duration
}

// Option configures a CCASSClient.
type Option func(*CCASSClient)

// NewCCASSClient creates a client for the given search and stock list pages.
func NewCCASSClient(searchURL, stockListURL string, opts ...Option) *CCASSClient {
	c := &CCASSClient{
		searchURL:    searchURL,
		stockListURL: stockListURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		now:          time.Now,
		maxRetries:   2,
		retryBackoff: time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *CCASSClient) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) Option {
	return func(c *CCASSClient) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CCASSClient) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *CCASSClient) {
		c.httpClient = hc
	}
}

// WithClock sets the clock used for the form's "today" field.
func WithClock(now func() time.Time) Option {
	return func(c *CCASSClient) {
		c.now = now
	}
}

// Fetch runs a shareholding search for stockCode on date and returns at
// most count participant rows, largest holding first.
func (c *CCASSClient) Fetch(ctx context.Context, stockCode string, date domain.Date, count int) ([]domain.RawRow, error) {
	page, err := c.doWithRetry(ctx, http.MethodGet, c.searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("load search form: %w", err)
	}
	form, err := formState(bytes.NewReader(page))
	if err != nil {
		return nil, err
	}

	form.Set("__EVENTTARGET", "btnSearch")
	form.Set("__EVENTARGUMENT", "")
	form.Set("today", domain.DateOf(c.now()).String())
	form.Set("sortBy", "shareholding")
	form.Set("sortDirection", "desc")
	form.Set("txtShareholdingDate", date.Slash())
	form.Set("txtStockCode", stockCode)
	form.Set("txtParticipantID", "")
	form.Set("txtParticipantName", "")
	form.Set("txtSelPartID", "")

	result, err := c.doWithRetry(ctx, http.MethodPost, c.searchURL, form)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	rows, err := parseHoldings(bytes.NewReader(result), count)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("registry search",
		"stock_code", stockCode,
		"date", date.String(),
		"rows", len(rows),
	)
	return rows, nil
}

// StockList returns the registry's list of stocks with holdings on date.
func (c *CCASSClient) StockList(ctx context.Context, date domain.Date) ([]domain.Stock, error) {
	u, err := url.Parse(c.stockListURL)
	if err != nil {
		return nil, fmt.Errorf("stock list url: %w", err)
	}
	q := u.Query()
	q.Set("sortby", "stockcode")
	q.Set("shareholdingdate", date.String())
	u.RawQuery = q.Encode()

	page, err := c.doWithRetry(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("load stock list: %w", err)
	}
	return parseStockList(bytes.NewReader(page))
}
