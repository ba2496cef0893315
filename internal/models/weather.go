package models

// Location is a resolved geocoding candidate.
type Location struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Forecast holds current conditions for a location.
type Forecast struct {
	TemperatureC float64 `json:"temperature_c"`  // as reported upstream
	WindSpeedKmh float64 `json:"wind_speed_kmh"` // as reported upstream
	Temperature  int     `json:"temperature"`    // rounded °C
	WindSpeed    int     `json:"wind_speed"`     // rounded km/h
	WeatherCode  int     `json:"weather_code"`   // WMO code
	Condition    string  `json:"condition"`      // human-readable code text
	TimeZone     string  `json:"time_zone"`      // IANA name, empty when absent
}

// Report is what a successful search displays.
type Report struct {
	SearchID    string   `json:"search_id"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Temperature int      `json:"temperature_c"`
	WindSpeed   int      `json:"wind_kmh"`
	Condition   string   `json:"condition"`
	WeatherCode int      `json:"weather_code"`
	TimeZone    string   `json:"time_zone"`
	LocalTime   string   `json:"local_time"`
	TopCities   []string `json:"top_cities,omitempty"`
}
