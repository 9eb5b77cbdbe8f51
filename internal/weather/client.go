// Package weather fetches current conditions and the 3-hour forecast from
// OpenWeatherMap.
package weather

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"grovepi-hub/internal/config"
	"grovepi-hub/pkg/types"
)

const baseURL = "http://api.openweathermap.org/data/2.5/"

// ErrNoAPIKey is returned when no OpenWeatherMap key is configured.
// Weather is an optional overlay, so this is not a startup error.
var ErrNoAPIKey = errors.New("openweathermap api key not configured")

// Client queries the OpenWeatherMap REST API using the key, city and
// country from the settings store.
type Client struct {
	settings *config.Store
	http     *http.Client
}

// NewClient creates a weather client with a 10 second request timeout.
func NewClient(settings *config.Store) *Client {
	return &Client{
		settings: settings,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// request performs one GET against an API endpoint and decodes into out.
func (c *Client) request(endpoint string, out any) error {
	apiKey := c.settings.GetString(config.KeyWeatherAPIKey, "")
	if apiKey == "" {
		return ErrNoAPIKey
	}

	city := c.settings.GetString(config.KeyWeatherCity, "Frisco")
	country := c.settings.GetString(config.KeyWeatherCountryCode, "US")

	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s,%s", city, country))
	params.Set("appid", apiKey)
	params.Set("units", "metric")

	fullURL := baseURL + endpoint + "?" + params.Encode()
	resp, err := c.http.Get(fullURL)
	if err != nil {
		return fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode weather response: %w", err)
	}
	return nil
}

// openweather wire formats, trimmed to the fields the app displays.
type currentResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type forecastResponse struct {
	List []struct {
		DtTxt   string `json:"dt_txt"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	} `json:"list"`
}

// Current fetches the current weather for the configured location.
func (c *Client) Current() (*types.WeatherReport, error) {
	var raw currentResponse
	if err := c.request("weather", &raw); err != nil {
		return nil, err
	}
	if len(raw.Weather) == 0 {
		return nil, errors.New("weather response missing conditions")
	}

	return &types.WeatherReport{
		CityName:    raw.Name,
		Description: raw.Weather[0].Description,
		Icon:        raw.Weather[0].Icon,
		Temperature: raw.Main.Temp,
		FeelsLike:   raw.Main.FeelsLike,
		Humidity:    raw.Main.Humidity,
		Pressure:    raw.Main.Pressure,
		WindSpeed:   raw.Wind.Speed,
	}, nil
}

// Forecast fetches the 5-day / 3-hour forecast for the configured location.
func (c *Client) Forecast() ([]types.ForecastEntry, error) {
	var raw forecastResponse
	if err := c.request("forecast", &raw); err != nil {
		return nil, err
	}

	entries := make([]types.ForecastEntry, 0, len(raw.List))
	for _, item := range raw.List {
		entry := types.ForecastEntry{
			DateTime:    item.DtTxt,
			Temperature: item.Main.Temp,
			FeelsLike:   item.Main.FeelsLike,
			Humidity:    item.Main.Humidity,
			WindSpeed:   item.Wind.Speed,
		}
		if len(item.Weather) > 0 {
			entry.Description = item.Weather[0].Description
			entry.Icon = item.Weather[0].Icon
		}
		entries = append(entries, entry)
	}

	log.Printf("Fetched %d forecast entries", len(entries))
	return entries, nil
}
