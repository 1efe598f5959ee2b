// Package bizi fetches station data from the Zaragoza bike-share API
package bizi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/randytsao24/bizi/internal/models"
)

// DefaultBaseURL is the city's open data endpoint for bike stations
const DefaultBaseURL = "https://www.zaragoza.es/sede/servicio/urbanismo-infraestructuras/estacion-bicicleta"

const defaultRows = "1000"

// maxResponseBytes caps how much of a response body is read. A full
// 1000-row listing is well under 1 MiB.
const maxResponseBytes = 16 << 20

// Client issues GET requests against the stations endpoint
type Client struct {
	baseURL  string
	client   *http.Client
	maxBytes int64
}

// NewClient creates a new stations client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxResponseBytes,
	}
}

// FetchAll returns every station in the city
func (c *Client) FetchAll(ctx context.Context) ([]models.Station, error) {
	params := baseParams()
	params.Set("rows", defaultRows)
	return c.get(ctx, params)
}

// Search returns stations matching a free-text query
func (c *Client) Search(ctx context.Context, query string) ([]models.Station, error) {
	params := baseParams()
	params.Set("q", query)
	return c.get(ctx, params)
}

func baseParams() url.Values {
	params := url.Values{}
	params.Set("rf", "html")
	params.Set("srsname", "wgs84")
	return params
}

func (c *Client) get(ctx context.Context, params url.Values) ([]models.Station, error) {
	apiURL := c.baseURL + ".json?" + params.Encode()
	slog.Debug("requesting stations", "url", apiURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("building request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("fetching stations: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("reading response: %w", err)}
	}
	if int64(len(body)) > c.maxBytes {
		return nil, &TransportError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("response body exceeds %d bytes", c.maxBytes),
		}
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr models.APIErrorResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Mensaje != "" {
			return nil, &APIError{Status: apiErr.Status, Message: apiErr.Mensaje}
		}
		return nil, &TransportError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("stations API returned status %d", resp.StatusCode),
		}
	}

	var result models.StationsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if result.Result == nil {
		return nil, &DecodeError{Err: errors.New("missing result field")}
	}

	slog.Debug("stations fetched", "count", len(*result.Result), "total", result.TotalCount)
	return *result.Result, nil
}
