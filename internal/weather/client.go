package weather

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
)

// Client talks to the OpenWeatherMap HTTP API. All calls go through the
// retry policy; JSON decoding happens after a successful response and is
// never retried.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	retry      RetryPolicy
}

// NewClient creates an OpenWeatherMap client.
func NewClient(httpClient *http.Client, apiKey string, retry RetryPolicy) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    "https://api.openweathermap.org",
		apiKey:     apiKey,
		retry:      retry,
	}
}

// endpoint builds a full request URL for a path and query values, adding the
// API key.
func (c *Client) endpoint(path string, values url.Values) string {
	values.Set("appid", c.apiKey)
	return c.baseURL + path + "?" + values.Encode()
}

// getJSON fetches u and decodes the body into out. Transport errors and
// retryable statuses go through the retry policy; a malformed body is a
// data-shape problem and fails immediately.
func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	var body []byte

	err := c.retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return &httpStatusError{Status: resp.StatusCode}
		}

		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return err
	}

	return json.Unmarshal(body, out)
}
