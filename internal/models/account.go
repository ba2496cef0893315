package models

// Account is a persisted identity record.
type Account struct {
	Username  string         `json:"username"`
	Pin       string         `json:"-"` // compared in the clear, never rendered
	CityStats map[string]int `json:"city_stats"`
	CityOrder []string       `json:"-"` // CityStats keys in first-recorded order
	LastCity  string         `json:"last_city,omitempty"`
}

// HasLastCity reports whether a previous lookup left a city to restore.
func (a Account) HasLastCity() bool {
	return a.LastCity != ""
}
