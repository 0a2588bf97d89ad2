// Package sheets downloads public Google Sheets as CSV. Sheets shared
// "anyone with the link" expose three unauthenticated CSV endpoints;
// which one works depends on how the sheet was shared or published, so
// the fetcher walks all three before giving up.
package sheets

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// DefaultSheetID is the demo sheet used when nothing is configured.
	DefaultSheetID   = "1_box_uFrWDKRLhpRO3Gt789T1XajdzIa3sNqb_Ws4kQ"
	DefaultSheetName = "Sheet1"

	defaultBaseURL   = "https://docs.google.com"
	defaultUserAgent = "LeadFlow-CRM/1.0"
	defaultTimeout   = 15 * time.Second

	maxBodySize = 20 << 20 // 20 MB
)

// Strategy identifies one of the CSV access endpoints.
type Strategy string

const (
	StrategyGviz   Strategy = "gviz"
	StrategyExport Strategy = "export"
	StrategyPub    Strategy = "pub"
)

// Strategies is the fixed probe order.
var Strategies = []Strategy{StrategyGviz, StrategyExport, StrategyPub}

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
	// RPS limits request rate against the endpoint. Zero means 1 rps.
	RPS float64
}

// Client fetches sheet CSV over the public endpoints.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient builds a fetch client with sane defaults.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	rps := opts.RPS
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		userAgent:  opts.UserAgent,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// URLFor builds the CSV URL for one strategy.
func (c *Client) URLFor(s Strategy, sheetID, sheetName string) string {
	switch s {
	case StrategyExport:
		return c.baseURL + "/spreadsheets/d/" + url.PathEscape(sheetID) + "/export?format=csv&gid=0"
	case StrategyPub:
		return c.baseURL + "/spreadsheets/d/" + url.PathEscape(sheetID) + "/pub?output=csv"
	default:
		return c.baseURL + "/spreadsheets/d/" + url.PathEscape(sheetID) + "/gviz/tq?tqx=out:csv&sheet=" + url.QueryEscape(sheetName)
	}
}

// Fetch tries each access strategy in order and returns the first CSV
// body. A login or "request access" HTML page means the sheet is not
// shared publicly and counts as a miss for that strategy.
func (c *Client) Fetch(ctx context.Context, sheetID, sheetName string) ([]byte, error) {
	var failures []string
	for _, s := range Strategies {
		body, err := c.fetchOne(ctx, s, sheetID, sheetName)
		if err != nil {
			if ctx.Err() != nil {
				return nil, eris.Wrap(ctx.Err(), "sheets: fetch canceled")
			}
			zap.L().Debug("sheets: strategy failed",
				zap.String("strategy", string(s)),
				zap.String("sheet_id", sheetID),
				zap.Error(err))
			failures = append(failures, string(s)+": "+err.Error())
			continue
		}
		zap.L().Info("sheets: fetched CSV",
			zap.String("strategy", string(s)),
			zap.Int("bytes", len(body)))
		return body, nil
	}
	return nil, eris.Errorf(
		"sheets: all access strategies failed (%s); share the sheet as 'anyone with the link can view'",
		strings.Join(failures, "; "))
}

// Probe reports, per strategy, whether the endpoint currently serves
// CSV for the sheet. Used by the access-check command.
func (c *Client) Probe(ctx context.Context, sheetID, sheetName string) map[Strategy]error {
	results := make(map[Strategy]error, len(Strategies))
	for _, s := range Strategies {
		_, err := c.fetchOne(ctx, s, sheetID, sheetName)
		results[s] = err
	}
	return results
}

func (c *Client) fetchOne(ctx context.Context, s Strategy, sheetID, sheetName string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "sheets: rate limit wait")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URLFor(s, sheetID, sheetName), nil)
	if err != nil {
		return nil, eris.Wrap(err, "sheets: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/csv,*/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "sheets: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, eris.Errorf("sheets: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, eris.Wrap(err, "sheets: read body")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, eris.New("sheets: empty response body")
	}
	if looksLikeHTML(body) {
		return nil, eris.New("sheets: got HTML instead of CSV, sheet is not shared publicly")
	}
	return body, nil
}

func looksLikeHTML(body []byte) bool {
	head := strings.ToLower(strings.TrimSpace(string(body[:min(len(body), 512)])))
	return strings.HasPrefix(head, "<!doctype html") ||
		strings.HasPrefix(head, "<html") ||
		strings.Contains(head, "<html")
}
