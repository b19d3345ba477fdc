// Package ads provides a rate-limited client for the NASA ADS search API,
// implementing the resolve.Lookup capability.
package ads

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/overcite/overcite/internal/match"
	"github.com/overcite/overcite/internal/resolve"
)

const (
	// BaseURL is the ADS search API endpoint.
	BaseURL = "https://api.adsabs.harvard.edu/v1/search/query"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// RateLimit is 5 requests per second, comfortably under the ADS
	// per-day quota burst allowance.
	RateLimit = 5.0

	// ResponseFields are the fields requested for every query.
	ResponseFields = "bibcode,title,year,doi,author,pub"
)

// Client is a rate-limited HTTP client for the ADS API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	token      string
	baseURL    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithToken sets the API token for authenticated requests.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

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

// NewClient creates a new ADS API client. The token defaults to the
// ADS_API_TOKEN environment variable.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	if token := os.Getenv("ADS_API_TOKEN"); token != "" {
		c.token = token
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// adsDoc is one document in an ADS search response. Title comes back as a
// one-element list; year as a string.
type adsDoc struct {
	Bibcode string   `json:"bibcode"`
	Title   []string `json:"title,omitempty"`
	Year    string   `json:"year,omitempty"`
	DOI     []string `json:"doi,omitempty"`
	Author  []string `json:"author,omitempty"`
	Pub     string   `json:"pub,omitempty"`
}

type adsResponse struct {
	Response struct {
		NumFound int      `json:"numFound"`
		Docs     []adsDoc `json:"docs"`
	} `json:"response"`
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode == 401 || resp.StatusCode == 403 {
		return fmt.Errorf("%w: status %d", ErrAuthError, resp.StatusCode)
	}
	if resp.StatusCode == 429 {
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}
	return nil
}

// query executes one rate-limited search request.
func (c *Client) query(ctx context.Context, q string, rows int) (*adsResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("fl", ResponseFields)
	params.Set("rows", strconv.Itoa(rows))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return nil, err
	}

	var parsed adsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return &parsed, nil
}

// toDocument maps an ADS doc to the resolver's view of it. The bibcode is
// the canonical record identifier.
func toDocument(d adsDoc) resolve.Document {
	doc := resolve.Document{ID: d.Bibcode}
	if len(d.Title) > 0 {
		doc.Title = d.Title[0]
	}
	if y, err := strconv.Atoi(d.Year); err == nil {
		doc.Year = y
	}
	if raw, err := json.Marshal(d); err == nil {
		doc.Raw = raw
	}
	return doc
}

// LookupByID looks up a record by bibcode or other ADS identifier. A nil
// document means no unique record matched.
func (c *Client) LookupByID(ctx context.Context, id string) (*resolve.Document, error) {
	resp, err := c.query(ctx, fmt.Sprintf(`identifier:"%s"`, id), 2)
	if err != nil {
		return nil, err
	}
	if resp.Response.NumFound != 1 || len(resp.Response.Docs) == 0 {
		return nil, nil
	}
	doc := toDocument(resp.Response.Docs[0])
	return &doc, nil
}

// LookupByDOI looks up a record by DOI. The quoted form is tried first;
// some DOIs with reserved characters only match unquoted, so a miss gets
// one unquoted retry.
func (c *Client) LookupByDOI(ctx context.Context, doi string) (*resolve.Document, error) {
	for _, q := range []string{
		fmt.Sprintf(`doi:"%s"`, doi),
		"doi:" + doi,
	} {
		resp, err := c.query(ctx, q, 2)
		if err != nil {
			return nil, err
		}
		if resp.Response.NumFound == 1 && len(resp.Response.Docs) > 0 {
			doc := toDocument(resp.Response.Docs[0])
			return &doc, nil
		}
	}
	return nil, nil
}

// arxivQueryForms are the phrasings ADS accepts for arXiv identifiers.
// Older records only match some of them, so each is tried in turn.
func arxivQueryForms(arxivID string) []string {
	return []string{
		fmt.Sprintf(`identifier:"arXiv:%s"`, arxivID),
		fmt.Sprintf(`identifier:"%s"`, arxivID),
		fmt.Sprintf(`arxiv:"%s"`, arxivID),
	}
}

// LookupByArxiv looks up a record by arXiv identifier. The first phrasing
// with any hit wins; ties are not disambiguated further.
func (c *Client) LookupByArxiv(ctx context.Context, arxivID string) (*resolve.Document, error) {
	for _, q := range arxivQueryForms(arxivID) {
		resp, err := c.query(ctx, q, 1)
		if err != nil {
			return nil, err
		}
		if len(resp.Response.Docs) > 0 {
			doc := toDocument(resp.Response.Docs[0])
			return &doc, nil
		}
	}
	return nil, nil
}

// Search runs a metadata search rendered in ADS query syntax.
func (c *Client) Search(ctx context.Context, q match.Query, limit int) (*resolve.SearchResult, error) {
	if limit <= 0 {
		limit = 5
	}
	return c.SearchRaw(ctx, renderQuery(q), limit)
}

// SearchRaw runs a search with a caller-supplied ADS query string.
func (c *Client) SearchRaw(ctx context.Context, q string, limit int) (*resolve.SearchResult, error) {
	resp, err := c.query(ctx, q, limit)
	if err != nil {
		return nil, err
	}

	docs := make([]resolve.Document, len(resp.Response.Docs))
	for i, d := range resp.Response.Docs {
		docs[i] = toDocument(d)
	}
	return &resolve.SearchResult{
		Documents: docs,
		NumFound:  resp.Response.NumFound,
	}, nil
}

// renderQuery renders the provider-independent query in ADS syntax.
func renderQuery(q match.Query) string {
	var parts []string
	if len(q.TitleTerms) > 0 {
		parts = append(parts, "title:("+strings.Join(q.TitleTerms, " ")+")")
	}
	if q.Author != "" {
		parts = append(parts, fmt.Sprintf(`author:"%s"`, q.Author))
	}
	if q.Year != "" {
		parts = append(parts, "year:"+q.Year)
	}
	return strings.Join(parts, " ")
}
