package scraper

import (
	"compress/gzip"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	fetchTimeout   = 30 * time.Second
	retryDelay     = 1 * time.Second
	maxRedirects   = 10
	defaultRetries = 2
)

// ErrTimeout marks a fetch aborted by the per-attempt deadline.
var ErrTimeout = errors.New("fetch timed out")

// HTTPError is returned for non-2xx/3xx responses. It is not retried.
type HTTPError struct {
	Status int
	URL    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d fetching %s", e.Status, e.URL)
}

// Client is an HTTP client for scraping
type Client struct {
	httpClient *http.Client
	userAgent  string
	retries    int
}

// NewClient creates a new scraper client
func NewClient(userAgent string) *Client {
	return &Client{
		retries: defaultRetries,
		httpClient: &http.Client{
			Timeout: fetchTimeout,
			// Redirects are followed manually so a 3xx without a
			// Location header surfaces as an HTTPError.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: false,
				},
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// SetRetries overrides the retry count used by Fetch.
func (c *Client) SetRetries(n int) {
	if n >= 0 {
		c.retries = n
	}
}

// Fetch fetches a URL and returns the page content
func (c *Client) Fetch(url string) (string, error) {
	return c.FetchWithRetry(url, c.retries)
}

// FetchWithRetry fetches a URL with retry logic. Network and timeout
// errors are retried up to maxRetries times with a fixed delay; an
// HTTPError is returned immediately.
func (c *Client) FetchWithRetry(url string, maxRetries int) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		content, err := c.fetchOnce(url, 0)
		if err == nil {
			return content, nil
		}

		var httpErr *HTTPError
		if errors.As(err, &httpErr) {
			return "", err
		}

		lastErr = err
	}

	return "", lastErr
}

// fetchOnce performs a single attempt, following 3xx redirects
// recursively. Redirects do not consume the retry budget.
func (c *Client) fetchOnce(rawURL string, redirects int) (string, error) {
	req, err := http.NewRequest("GET", rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		location := resp.Header.Get("Location")
		if location == "" {
			return "", &HTTPError{Status: resp.StatusCode, URL: rawURL}
		}
		if redirects >= maxRedirects {
			return "", fmt.Errorf("too many redirects fetching %s", rawURL)
		}
		next, err := resolveRedirect(rawURL, location)
		if err != nil {
			return "", fmt.Errorf("invalid redirect location %q: %w", location, err)
		}
		return c.fetchOnce(next, redirects+1)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &HTTPError{Status: resp.StatusCode, URL: rawURL}
	}

	var reader io.Reader = resp.Body

	// Handle gzip decompression
	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("failed to create gzip reader: %w", err)
		}
		reader = gzipReader
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	return string(content), nil
}

func resolveRedirect(base, location string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(ref).String(), nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
