package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		BaseURL: server.URL,
		GeoURL:  server.URL + "/geo",
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}, nil, nil)
}

func TestCurrentByCity(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/weather", r.URL.Path)
		assert.Equal(t, "Tokyo", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"name":"Tokyo","main":{"temp":21.5,"humidity":60},"weather":[{"main":"Clouds","description":"scattered clouds"}],"sys":{"country":"JP"}}`))
	}))

	conditions, err := client.CurrentByCity(context.Background(), "Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", conditions.Name)
	assert.Equal(t, 21.5, conditions.Main.Temp)
	require.Len(t, conditions.Weather, 1)
	assert.Equal(t, "Clouds", conditions.Weather[0].Main)
}

func TestForecastByCoords(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/forecast", r.URL.Path)
		assert.Equal(t, "35.68", r.URL.Query().Get("lat"))
		assert.Equal(t, "139.69", r.URL.Query().Get("lon"))
		w.Write([]byte(`{"list":[{"dt":1756500000,"main":{"temp":18},"dt_txt":"2026-08-30 12:00:00"}],"city":{"name":"Tokyo","country":"JP"}}`))
	}))

	forecast, err := client.ForecastByCoords(context.Background(), 35.68, 139.69)
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", forecast.City.Name)
	require.Len(t, forecast.List, 1)
	assert.Equal(t, float64(18), forecast.List[0].Main.Temp)
}

func TestLocationName(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/geo", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Write([]byte(`[{"name":"Shibuya","lat":35.66,"lon":139.7,"country":"JP"}]`))
	}))

	place, err := client.LocationName(context.Background(), 35.66, 139.7)
	require.NoError(t, err)
	assert.Equal(t, "Shibuya", place.Name)
	assert.Equal(t, "JP", place.Country)
}

func TestLocationName_Empty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))

	_, err := client.LocationName(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRetryOnTransientFailure(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"name":"Tokyo"}`))
	}))

	conditions, err := client.CurrentByCity(context.Background(), "Tokyo")
	require.NoError(t, err)
	assert.Equal(t, "Tokyo", conditions.Name)
	assert.Equal(t, int32(2), calls.Load())
}

func TestProviderKeepsFailing(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.CurrentByCity(context.Background(), "Tokyo")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, int32(3), calls.Load())
}

func TestUnknownCity(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := client.CurrentByCity(context.Background(), "Nowhereville")
	assert.ErrorIs(t, err, ErrNotFound)
}
