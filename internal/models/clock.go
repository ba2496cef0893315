package models

import "time"

// ClockReading is one formatted clock tick.
type ClockReading struct {
	Time     string    `json:"time"`      // HH:MM:SS
	TimeZone string    `json:"time_zone"` // zone the time was rendered in
	At       time.Time `json:"at"`
}
