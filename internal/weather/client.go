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
	"strings"
	"time"

	"weather_session/internal/models"
)

// Lookup failures. Callers branch with errors.Is.
var (
	ErrEmptyQuery  = errors.New("empty city name")
	ErrNotFound    = errors.New("city not found")
	ErrTransport   = errors.New("weather service request failed")
	ErrMissingData = errors.New("forecast has no current conditions")
)

// Client talks to the Open-Meteo geocoding and forecast APIs.
type Client struct {
	GeocodingURL string
	ForecastURL  string
	UserAgent    string
	HTTPClient   *http.Client
}

// NewClient creates a client. A zero timeout leaves requests unbounded.
func NewClient(geocodingURL, forecastURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		GeocodingURL: geocodingURL,
		ForecastURL:  forecastURL,
		UserAgent:    userAgent,
		HTTPClient:   &http.Client{Timeout: timeout},
	}
}

func (c *Client) get(ctx context.Context, base string, params url.Values) ([]byte, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", ErrTransport, base, err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %s", ErrTransport, u.Host, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	return body, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// geocodeResponse is the /v1/search payload. Open-Meteo omits results
// entirely when nothing matches.
type geocodeResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Country   string  `json:"country"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

// Resolve looks up a single candidate for city.
func (c *Client) Resolve(ctx context.Context, city string) (models.Location, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return models.Location{}, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("name", city)
	params.Set("count", "1")

	data, err := c.get(ctx, c.GeocodingURL, params)
	if err != nil {
		return models.Location{}, err
	}

	var resp geocodeResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return models.Location{}, fmt.Errorf("%w: decode geocoding response: %v", ErrTransport, err)
	}
	if len(resp.Results) == 0 {
		return models.Location{}, fmt.Errorf("%q: %w", city, ErrNotFound)
	}

	r := resp.Results[0]
	return models.Location{
		Name:      r.Name,
		Country:   r.Country,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}, nil
}

// forecastResponse is the /v1/forecast payload with current_weather=true.
type forecastResponse struct {
	Timezone       string `json:"timezone"`
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
		Windspeed   float64 `json:"windspeed"`
		Weathercode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// FetchCurrent retrieves current conditions at the given coordinates with
// automatic time-zone resolution.
func (c *Client) FetchCurrent(ctx context.Context, latitude, longitude float64) (models.Forecast, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
	params.Set("current_weather", "true")
	params.Set("timezone", "auto")

	data, err := c.get(ctx, c.ForecastURL, params)
	if err != nil {
		return models.Forecast{}, err
	}

	var resp forecastResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return models.Forecast{}, fmt.Errorf("%w: decode forecast response: %v", ErrTransport, err)
	}
	if resp.CurrentWeather == nil {
		return models.Forecast{}, ErrMissingData
	}

	cw := resp.CurrentWeather
	return models.Forecast{
		TemperatureC: cw.Temperature,
		WindSpeedKmh: cw.Windspeed,
		Temperature:  Round(cw.Temperature),
		WindSpeed:    Round(cw.Windspeed),
		WeatherCode:  cw.Weathercode,
		Condition:    Describe(cw.Weathercode),
		TimeZone:     resp.Timezone,
	}, nil
}
