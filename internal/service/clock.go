package service

import (
	"context"
	"strings"
	"sync"
	"time"

	// IANA zone data for hosts without a system zoneinfo database.
	_ "time/tzdata"

	"weather_session/internal/models"
)

// ClockFormat renders 24h two-digit hour, minute and second.
const ClockFormat = "15:04:05"

// ClockService keeps the process-wide display zone and renders ticks in it.
// The zone starts as the host local zone and is replaced by each successful
// search.
type ClockService struct {
	mu       sync.RWMutex
	loc      *time.Location
	fallback *time.Location
	last     models.ClockReading
	now      func() time.Time
}

// NewClockService returns a clock in the host zone. fallbackZone is applied
// when a search reports an empty or unknown zone; it defaults to UTC.
func NewClockService(fallbackZone string) *ClockService {
	fallback, err := time.LoadLocation(fallbackZone)
	if err != nil || fallbackZone == "" {
		fallback = time.UTC
	}
	return &ClockService{
		loc:      time.Local,
		fallback: fallback,
		now:      time.Now,
	}
}

// Tick renders the current instant in the current zone and remembers it as
// the displayed reading.
func (c *ClockService) Tick() models.ClockReading {
	c.mu.Lock()
	defer c.mu.Unlock()
	at := c.now().In(c.loc)
	c.last = models.ClockReading{
		Time:     at.Format(ClockFormat),
		TimeZone: c.loc.String(),
		At:       at,
	}
	return c.last
}

// Display returns the last rendered reading, ticking once if none exists.
func (c *ClockService) Display() models.ClockReading {
	c.mu.RLock()
	last := c.last
	c.mu.RUnlock()
	if last.Time == "" {
		return c.Tick()
	}
	return last
}

// SetTimeZone switches the display zone and returns the zone name in use.
func (c *ClockService) SetTimeZone(name string) string {
	name = strings.TrimSpace(name)
	loc := c.fallback
	if name != "" {
		if l, err := time.LoadLocation(name); err == nil {
			loc = l
		}
	}
	c.mu.Lock()
	c.loc = loc
	c.mu.Unlock()
	return loc.String()
}

func (c *ClockService) Zone() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loc.String()
}

// Run ticks immediately and then every period until ctx is canceled.
func (c *ClockService) Run(ctx context.Context, every time.Duration) {
	c.Tick()
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.Tick()
		}
	}
}
