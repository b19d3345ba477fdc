// Package inspire provides a rate-limited client for the INSPIRE HEP REST
// API, implementing the resolve.Lookup capability.
//
// Unlike ADS, INSPIRE has dedicated DOI and arXiv endpoints, so no
// alternate query phrasings are needed.
package inspire

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/overcite/overcite/internal/match"
	"github.com/overcite/overcite/internal/resolve"
)

const (
	// BaseURL is the INSPIRE REST API root.
	BaseURL = "https://inspirehep.net/api"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is 2 requests per second; INSPIRE asks clients to stay
	// under 15 requests per 5-second window.
	RateLimit = 2.0

	// ResponseFields trims record payloads to what the resolver reads.
	ResponseFields = "control_number,titles,earliest_date,arxiv_eprints,dois"
)

// Common errors returned by the INSPIRE client.
var (
	ErrRateLimited     = errors.New("INSPIRE rate limit exceeded")
	ErrNetworkError    = errors.New("network error communicating with INSPIRE")
	ErrInvalidResponse = errors.New("invalid response from INSPIRE")
)

// APIError represents an error from the INSPIRE API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("INSPIRE API error (status %d): %s", e.StatusCode, e.Message)
}

// Client is a rate-limited HTTP client for the INSPIRE API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// NewClient creates a new INSPIRE API client. No authentication is
// required for read access.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// metadata is the slice of an INSPIRE literature record the resolver reads.
type metadata struct {
	ControlNumber int `json:"control_number"`
	Titles        []struct {
		Title string `json:"title"`
	} `json:"titles,omitempty"`
	EarliestDate string `json:"earliest_date,omitempty"`
}

type record struct {
	Metadata metadata `json:"metadata"`
}

type searchResponse struct {
	Hits struct {
		Total int      `json:"total"`
		Hits  []record `json:"hits"`
	} `json:"hits"`
}

// get performs one rate-limited GET. A 404 returns (nil, nil, true) so
// callers can treat it as an ordinary miss.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, fmt.Errorf("rate limiter: %w", err)
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 {
		return nil, true, nil
	}
	if resp.StatusCode == 429 {
		return nil, false, fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, false, &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return body, false, nil
}

// toDocument maps an INSPIRE record to the resolver's view. The control
// number (recid) is the canonical record identifier.
func toDocument(m metadata, raw []byte) resolve.Document {
	doc := resolve.Document{
		ID:  strconv.Itoa(m.ControlNumber),
		Raw: raw,
	}
	if len(m.Titles) > 0 {
		doc.Title = m.Titles[0].Title
	}
	if len(m.EarliestDate) >= 4 {
		if y, err := strconv.Atoi(m.EarliestDate[:4]); err == nil {
			doc.Year = y
		}
	}
	return doc
}

// fetchRecord fetches one record endpoint and maps it, treating 404 as a miss.
func (c *Client) fetchRecord(ctx context.Context, path string) (*resolve.Document, error) {
	params := url.Values{}
	params.Set("fields", ResponseFields)

	body, notFound, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	if notFound {
		return nil, nil
	}

	var rec record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if rec.Metadata.ControlNumber == 0 {
		return nil, nil
	}
	doc := toDocument(rec.Metadata, body)
	return &doc, nil
}

// LookupByID looks up a literature record by its recid.
func (c *Client) LookupByID(ctx context.Context, id string) (*resolve.Document, error) {
	return c.fetchRecord(ctx, "/literature/"+url.PathEscape(id))
}

// LookupByDOI looks up a record through the dedicated DOI endpoint.
func (c *Client) LookupByDOI(ctx context.Context, doi string) (*resolve.Document, error) {
	return c.fetchRecord(ctx, "/doi/"+url.PathEscape(doi))
}

// LookupByArxiv looks up a record through the dedicated arXiv endpoint.
func (c *Client) LookupByArxiv(ctx context.Context, arxivID string) (*resolve.Document, error) {
	return c.fetchRecord(ctx, "/arxiv/"+url.PathEscape(arxivID))
}

// Search runs a literature search rendered in INSPIRE query syntax.
func (c *Client) Search(ctx context.Context, q match.Query, limit int) (*resolve.SearchResult, error) {
	if limit <= 0 {
		limit = 5
	}
	return c.SearchRaw(ctx, renderQuery(q), limit)
}

// SearchRaw runs a search with a caller-supplied INSPIRE query string.
func (c *Client) SearchRaw(ctx context.Context, q string, limit int) (*resolve.SearchResult, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("size", strconv.Itoa(limit))
	params.Set("fields", ResponseFields)

	body, notFound, err := c.get(ctx, "/literature", params)
	if err != nil {
		return nil, err
	}
	if notFound {
		return &resolve.SearchResult{}, nil
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	docs := make([]resolve.Document, len(parsed.Hits.Hits))
	for i, h := range parsed.Hits.Hits {
		raw, _ := json.Marshal(h.Metadata)
		docs[i] = toDocument(h.Metadata, raw)
	}
	return &resolve.SearchResult{
		Documents: docs,
		NumFound:  parsed.Hits.Total,
	}, nil
}

// renderQuery renders the provider-independent query in INSPIRE syntax.
func renderQuery(q match.Query) string {
	var parts []string
	if len(q.TitleTerms) > 0 {
		parts = append(parts, "t "+strings.Join(q.TitleTerms, " "))
	}
	if q.Author != "" {
		parts = append(parts, "a "+q.Author)
	}
	if q.Year != "" {
		parts = append(parts, "d "+q.Year)
	}
	return strings.Join(parts, " and ")
}
