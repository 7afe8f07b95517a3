// Package customcat talks to the CustomCat merch API. The provider's API
// surface is inconsistently documented, so the client probes an ordered list
// of candidate endpoints and stops at the first one that answers.
package customcat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const probeTimeout = 5 * time.Second

// Endpoint is one candidate URL for the "list products" operation. The probe
// order is the slice order; extra params are merged into the query string.
type Endpoint struct {
	Name        string
	URL         string
	ExtraParams map[string]string
}

// DefaultEndpoints covers the URL shapes CustomCat has answered on at one
// time or another. Order matters: newest first.
var DefaultEndpoints = []Endpoint{
	{Name: "beta-list-products", URL: "https://customcat-beta.mylocker.net/api/v1/list_products"},
	{Name: "beta-products", URL: "https://customcat-beta.mylocker.net/api/v1/products"},
	{Name: "api-catalog", URL: "https://api.customcat.com/v1/catalog", ExtraParams: map[string]string{"format": "json"}},
}

// Color is one entry of a record's product_colors list.
type Color struct {
	ColorName        string `json:"color_name"`
	ProductImage     string `json:"product_image"`
	ProductBackImage string `json:"product_back_image"`
}

// Record is a single product as CustomCat returns it. Field names differ
// between endpoint generations, so several aliases are mapped and the raw
// payload is retained for the metadata column.
type Record struct {
	ID               json.Number `json:"id"`
	CatalogID        json.Number `json:"catalog_id"`
	Name             string      `json:"name"`
	ProductName      string      `json:"product_name"`
	Description      string      `json:"description"`
	Category         string      `json:"category"`
	CategoryName     string      `json:"category_name"`
	RetailPrice      json.Number `json:"retail_price"`
	Price            json.Number `json:"price"`
	ProductImage     string      `json:"product_image"`
	ProductBackImage string      `json:"product_back_image"`
	ProductColors    []Color     `json:"product_colors"`

	Raw json.RawMessage `json:"-"`
}

// ExternalID returns the identifier used to match rows across syncs.
func (r Record) ExternalID() string {
	if r.ID.String() != "" {
		return r.ID.String()
	}
	return r.CatalogID.String()
}

func (r Record) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ProductName
}

func (r Record) CategoryLabel() string {
	if r.Category != "" {
		return r.Category
	}
	return r.CategoryName
}

func (r Record) RetailPriceString() string {
	if r.RetailPrice.String() != "" {
		return r.RetailPrice.String()
	}
	return r.Price.String()
}

// FetchResult carries the products plus which endpoint produced them.
type FetchResult struct {
	Endpoint string
	Products []Record
}

// ProbeError reports one failure message per attempted endpoint, keyed by
// endpoint name, after the whole candidate list has been exhausted.
type ProbeError struct {
	Attempts map[string]string
}

func (e *ProbeError) Error() string {
	names := make([]string, 0, len(e.Attempts))
	for name := range e.Attempts {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Attempts[name])
	}
	return "all CustomCat endpoints failed: " + strings.Join(parts, "; ")
}

type Client struct {
	http      *http.Client
	endpoints []Endpoint
}

func NewClient(endpoints []Endpoint) *Client {
	if len(endpoints) == 0 {
		endpoints = DefaultEndpoints
	}
	return &Client{
		http:      &http.Client{Timeout: probeTimeout},
		endpoints: endpoints,
	}
}

// FetchProducts tries each candidate endpoint in order and returns the first
// successful parse. One endpoint's failure never aborts the probe of the
// next; after exhaustion the per-endpoint messages come back as *ProbeError.
func (c *Client) FetchProducts(ctx context.Context, apiKey string) (*FetchResult, error) {
	attempts := map[string]string{}

	for _, ep := range c.endpoints {
		reqURL, err := buildURL(ep, apiKey)
		if err != nil {
			attempts[ep.Name] = "bad endpoint url: " + err.Error()
			continue
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			attempts[ep.Name] = err.Error()
			continue
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			attempts[ep.Name] = err.Error()
			continue
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
		resp.Body.Close()
		if err != nil {
			attempts[ep.Name] = err.Error()
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			attempts[ep.Name] = errorMessage(body, resp.StatusCode)
			continue
		}

		records, err := decodeProducts(body)
		if err != nil {
			attempts[ep.Name] = err.Error()
			continue
		}
		return &FetchResult{Endpoint: ep.Name, Products: records}, nil
	}

	return nil, &ProbeError{Attempts: attempts}
}

func buildURL(ep Endpoint, apiKey string) (string, error) {
	u, err := url.Parse(ep.URL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("api_key", apiKey)
	for k, v := range ep.ExtraParams {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// errorMessage prefers a structured error body over a bare status code.
func errorMessage(body []byte, status int) string {
	var e struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return fmt.Sprintf("endpoint returned status %d", status)
}

// decodeProducts normalizes the observed response shapes (a bare array,
// {"products": [...]}, {"data": [...]}) into one record slice. An entry
// that fails to decode is kept as a raw-only record instead of failing
// the endpoint; the import counts those as skipped.
func decodeProducts(body []byte) ([]Record, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		var wrapped struct {
			Products []json.RawMessage `json:"products"`
			Data     []json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return nil, fmt.Errorf("unrecognized response shape: %w", err)
		}
		switch {
		case wrapped.Products != nil:
			raws = wrapped.Products
		case wrapped.Data != nil:
			raws = wrapped.Data
		default:
			return nil, fmt.Errorf("response carries no product list")
		}
	}

	records := make([]Record, 0, len(raws))
	for _, raw := range raws {
		var r Record
		if err := json.Unmarshal(raw, &r); err != nil {
			records = append(records, Record{Raw: raw})
			continue
		}
		r.Raw = raw
		records = append(records, r)
	}
	return records, nil
}
