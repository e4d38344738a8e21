package weather

import "context"

// Conditions is the current-weather payload returned by the provider.
type Conditions struct {
	Coord struct {
		Lon float64 `json:"lon"`
		Lat float64 `json:"lat"`
	} `json:"coord"`
	Weather []Summary `json:"weather"`
	Main    Readings  `json:"main"`
	Wind    struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Visibility int   `json:"visibility"`
	DT         int64 `json:"dt"`
	Sys        struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int    `json:"timezone"`
	ID       int64  `json:"id"`
	Name     string `json:"name"`
}

// Summary describes one weather condition bucket (e.g. "Rain").
type Summary struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Readings holds the numeric measurements of a sample.
type Readings struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
}

// Forecast is the provider's 5-day/3-hour forecast payload.
type Forecast struct {
	List []ForecastEntry `json:"list"`
	City struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Country string `json:"country"`
		Coord   struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
	} `json:"city"`
}

// ForecastEntry is a single 3-hour forecast sample.
type ForecastEntry struct {
	DT      int64     `json:"dt"`
	Main    Readings  `json:"main"`
	Weather []Summary `json:"weather"`
	Wind    struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	DTText string `json:"dt_txt"`
}

// Place is a reverse-geocoding result.
type Place struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}

// Service looks up weather data from the upstream provider.
type Service interface {
	CurrentByCity(ctx context.Context, city string) (*Conditions, error)
	CurrentByCoords(ctx context.Context, lat, lon float64) (*Conditions, error)
	ForecastByCity(ctx context.Context, city string) (*Forecast, error)
	ForecastByCoords(ctx context.Context, lat, lon float64) (*Forecast, error)
	LocationName(ctx context.Context, lat, lon float64) (*Place, error)
}
