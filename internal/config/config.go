package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret     string
		Issuer        string
		TokenTTLHours int
	}
	Weather struct {
		APIKey         string
		BaseURL        string
		GeoURL         string
		Units          string
		TimeoutSeconds int
	}
	Redis struct {
		Addr            string
		Password        string
		DB              int
		CacheTTLMinutes int
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv()

	v := viper.New()
	v.SetEnvPrefix("WEATHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("database.path", "data/weather.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.issuer", "weather-backend")
	v.SetDefault("auth.tokenttlhours", 72)
	v.SetDefault("weather.apikey", "")
	v.SetDefault("weather.baseurl", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("weather.geourl", "https://api.openweathermap.org/geo/1.0/reverse")
	v.SetDefault("weather.units", "metric")
	v.SetDefault("weather.timeoutseconds", 10)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cachettlminutes", 10)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv() {
	file, err := os.Open(".env")
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		partsIndex := strings.Index(line, "=")
		if partsIndex <= 0 {
			continue
		}

		key := strings.TrimSpace(line[:partsIndex])
		value := strings.TrimSpace(line[partsIndex+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
