package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Observation is the subset of a provider response the pipeline cares about.
type Observation struct {
	TempMax float64
	RainMM  float64
}

// Client fetches current conditions from an OpenWeatherMap-compatible API.
type Client struct {
	baseURL string
	apiKey  string
	units   string
	http    *http.Client
}

func NewClient(baseURL, apiKey, units string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		units:   units,
		http:    &http.Client{Timeout: timeout},
	}
}

type providerResponse struct {
	Main struct {
		TempMax float64 `json:"temp_max"`
	} `json:"main"`
	Rain struct {
		OneHour float64 `json:"1h"`
	} `json:"rain"`
}

// Fetch retrieves current conditions for a city. Any failure (network, status,
// decode) is returned to the caller, who treats it as a fallback trigger.
func (c *Client) Fetch(ctx context.Context, city string) (*Observation, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("weather api key not configured")
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", c.units)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch weather for %s: %w", city, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather provider returned %d for %s", resp.StatusCode, city)
	}

	var body providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode weather response: %w", err)
	}

	return &Observation{
		TempMax: body.Main.TempMax,
		RainMM:  body.Rain.OneHour,
	}, nil
}
