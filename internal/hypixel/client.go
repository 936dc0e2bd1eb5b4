package hypixel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	// DefaultBaseURL is the base URL for the public API.
	DefaultBaseURL = "https://api.hypixel.net"

	// AuctionsPath is the paginated active auctions endpoint.
	AuctionsPath = "/skyblock/auctions"

	defaultUserAgent = "skyblock-auctions/1.0"
)

// StatusError is returned when the API answers with a non-2xx status or
// with success set to false. StatusCode is zero when the page came from a
// source that has no HTTP status.
type StatusError struct {
	Page       int
	StatusCode int
	Cause      string
}

func (e *StatusError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("page %d: unsuccessful response: %s", e.Page, e.Cause)
	case e.Cause != "":
		return fmt.Sprintf("page %d: status %d: %s", e.Page, e.StatusCode, e.Cause)
	default:
		return fmt.Sprintf("page %d: unexpected status: %d", e.Page, e.StatusCode)
	}
}

// Client is an HTTP client for the auctions API.
type Client struct {
	rc *resty.Client
}

// NewClient creates a new API client. The http.Client's timeout bounds every
// request. Requests are never retried.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	rc := resty.NewWithClient(httpClient).
		SetBaseURL(DefaultBaseURL).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", defaultUserAgent)
	return &Client{rc: rc}
}

// WithBaseURL sets a custom base URL for the client.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.rc.SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	return c
}

// WithUserAgent overrides the User-Agent header.
func (c *Client) WithUserAgent(ua string) *Client {
	if ua != "" {
		c.rc.SetHeader("User-Agent", ua)
	}
	return c
}

// FetchPage fetches one zero-based page of active auctions.
func (c *Client) FetchPage(ctx context.Context, page int) (*AuctionPage, error) {
	resp, err := c.rc.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		Get(AuctionsPath)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching page %d", page)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, &StatusError{Page: page, StatusCode: resp.StatusCode(), Cause: causeOf(resp.Body())}
	}

	var p AuctionPage
	if err := json.Unmarshal(resp.Body(), &p); err != nil {
		return nil, errors.Wrapf(err, "decoding page %d", page)
	}
	if !p.Success {
		return nil, &StatusError{Page: page, StatusCode: resp.StatusCode(), Cause: p.Cause}
	}

	return &p, nil
}

// causeOf extracts the "cause" field of an error document, if there is one.
func causeOf(body []byte) string {
	var doc struct {
		Cause string `json:"cause"`
	}
	if json.Unmarshal(body, &doc) != nil {
		return ""
	}
	return doc.Cause
}
