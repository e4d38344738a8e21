package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound indicates the provider does not know the requested city or place.
	ErrNotFound = errors.New("location not found")
	// ErrProviderUnavailable indicates the upstream provider could not be reached
	// or kept failing after retries.
	ErrProviderUnavailable = errors.New("weather provider unavailable")
)

// Config holds the provider endpoints and credentials.
type Config struct {
	BaseURL string // e.g. https://api.openweathermap.org/data/2.5
	GeoURL  string // e.g. https://api.openweathermap.org/geo/1.0/reverse
	APIKey  string
	Units   string // metric by default
	Timeout time.Duration
}

// Client queries the OpenWeatherMap HTTP API.
type Client struct {
	cfg    Config
	http   *http.Client
	cache  *Cache
	logger *logrus.Logger
}

// NewClient builds a provider client. cache may be nil to disable caching.
func NewClient(cfg Config, cache *Cache, logger *logrus.Logger) *Client {
	if cfg.Units == "" {
		cfg.Units = "metric"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		cache:  cache,
		logger: logger,
	}
}

func (c *Client) CurrentByCity(ctx context.Context, city string) (*Conditions, error) {
	params := url.Values{}
	params.Set("q", city)
	var out Conditions
	if err := c.getJSON(ctx, c.cfg.BaseURL+"/weather", params, "current:city:"+city, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CurrentByCoords(ctx context.Context, lat, lon float64) (*Conditions, error) {
	params := coordParams(lat, lon)
	var out Conditions
	if err := c.getJSON(ctx, c.cfg.BaseURL+"/weather", params, "current:"+coordKey(lat, lon), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForecastByCity(ctx context.Context, city string) (*Forecast, error) {
	params := url.Values{}
	params.Set("q", city)
	var out Forecast
	if err := c.getJSON(ctx, c.cfg.BaseURL+"/forecast", params, "forecast:city:"+city, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ForecastByCoords(ctx context.Context, lat, lon float64) (*Forecast, error) {
	params := coordParams(lat, lon)
	var out Forecast
	if err := c.getJSON(ctx, c.cfg.BaseURL+"/forecast", params, "forecast:"+coordKey(lat, lon), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) LocationName(ctx context.Context, lat, lon float64) (*Place, error) {
	params := coordParams(lat, lon)
	params.Set("limit", "1")
	var out []Place
	if err := c.getJSON(ctx, c.cfg.GeoURL, params, "geo:"+coordKey(lat, lon), &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

// getJSON fetches a provider URL with caching and bounded retries on
// transient failures, decoding the body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, cacheKey string, out any) error {
	if c.cache != nil {
		if payload, ok := c.cache.Get(ctx, cacheKey); ok {
			if err := json.Unmarshal(payload, out); err == nil {
				return nil
			}
			// stale or corrupt entry falls through to the provider
		}
	}

	params.Set("appid", c.cfg.APIKey)
	params.Set("units", c.cfg.Units)
	requestURL := endpoint + "?" + params.Encode()

	var body []byte
	backoff := retry.WithMaxRetries(2, retry.NewExponential(200*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			body, err = io.ReadAll(resp.Body)
			return err
		case resp.StatusCode == http.StatusNotFound:
			return ErrNotFound
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			return retry.RetryableError(fmt.Errorf("provider status %d", resp.StatusCode))
		default:
			return fmt.Errorf("provider status %d", resp.StatusCode)
		}
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if c.logger != nil {
			c.logger.Warnf("weather provider request failed: %v", err)
		}
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode provider response: %w", err)
	}

	if c.cache != nil {
		c.cache.Set(ctx, cacheKey, body)
	}
	return nil
}

func coordParams(lat, lon float64) url.Values {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return params
}

func coordKey(lat, lon float64) string {
	// two decimals is ~1km, close enough to share cache entries
	return fmt.Sprintf("%.2f:%.2f", lat, lon)
}
