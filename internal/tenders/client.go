package tenders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Client handles HTTP requests to the eTenders portal with rate limiting
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter chan struct{}
	userAgent   string
}

// NewClient creates a new tender search client with rate limiting
func NewClient(baseURL string, requestsPerSecond int) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}

	// Create rate limiter channel
	rateLimiter := make(chan struct{}, requestsPerSecond)

	// Fill the rate limiter initially
	for i := 0; i < requestsPerSecond; i++ {
		rateLimiter <- struct{}{}
	}

	// Start refilling the rate limiter
	go func() {
		ticker := time.NewTicker(time.Second / time.Duration(requestsPerSecond))
		defer ticker.Stop()

		for range ticker.C {
			select {
			case rateLimiter <- struct{}{}:
			default:
			}
		}
	}()

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		},
		rateLimiter: rateLimiter,
		userAgent:   "Mozilla/5.0 (compatible; TenderInsight/1.0)",
	}
}

// Search queries the OCDS release API and filters results by keyword
func (c *Client) Search(ctx context.Context, query Query) ([]Tender, error) {
	// Wait for rate limiter
	select {
	case <-c.rateLimiter:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	params := url.Values{}
	if !query.DateFrom.IsZero() {
		params.Set("dateFrom", query.DateFrom.Format("2006-01-02"))
	}
	if !query.DateTo.IsZero() {
		params.Set("dateTo", query.DateTo.Format("2006-01-02"))
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}
	params.Set("PageSize", fmt.Sprintf("%d", limit))

	endpoint := c.baseURL + "/api/OCDSReleases?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload ocdsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return filterReleases(payload.Releases, query), nil
}

// FetchTenderPage performs a rate-limited GET and returns a parsed document,
// for tender detail pages that are only published as HTML.
func (c *Client) FetchTenderPage(ctx context.Context, pageURL string) (*goquery.Document, error) {
	select {
	case <-c.rateLimiter:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}

// Close cleans up the client resources
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func filterReleases(releases []ocdsRelease, query Query) []Tender {
	var results []Tender
	for _, release := range releases {
		tender := Tender{
			OCID:        release.OCID,
			TenderID:    release.Tender.ID,
			Title:       release.Tender.Title,
			Description: release.Tender.Description,
			Buyer:       release.Buyer.Name,
			Category:    release.Tender.MainProcurementCategory,
			ValueAmount: release.Tender.Value.Amount,
			Currency:    release.Tender.Value.Currency,
			ClosingDate: release.Tender.TenderPeriod.EndDate,
		}
		if tender.Buyer == "" {
			tender.Buyer = release.Tender.ProcuringEntity.Name
		}

		if matchesKeywords(tender, query.Keywords) {
			results = append(results, tender)
		}
		if query.Limit > 0 && len(results) >= query.Limit {
			break
		}
	}
	return results
}

func matchesKeywords(tender Tender, keywords []string) bool {
	if len(keywords) == 0 {
		return true
	}

	haystack := strings.ToLower(tender.Title + " " + tender.Description)
	for _, keyword := range keywords {
		if strings.Contains(haystack, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
