package service

import (
	"context"
	"sync"
	"testing"
	"time"
)

func fixedClock(t *testing.T, fallback string, at time.Time) *ClockService {
	t.Helper()
	c := NewClockService(fallback)
	c.now = func() time.Time { return at }
	return c
}

func TestClockService_TickFormatsInZone(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 5, 9, 0, time.UTC)
	c := fixedClock(t, "UTC", at)

	if got := c.SetTimeZone("Asia/Tokyo"); got != "Asia/Tokyo" {
		t.Fatalf("SetTimeZone returned %q", got)
	}
	r := c.Tick()
	if r.Time != "21:05:09" {
		t.Fatalf("expected 21:05:09 in Tokyo, got %s", r.Time)
	}
	if r.TimeZone != "Asia/Tokyo" {
		t.Fatalf("expected zone Asia/Tokyo, got %s", r.TimeZone)
	}

	c.SetTimeZone("Europe/London")
	if r := c.Tick(); r.Time != "13:05:09" {
		t.Fatalf("expected 13:05:09 in London (BST), got %s", r.Time)
	}
}

func TestClockService_TwoDigitFields(t *testing.T) {
	at := time.Date(2024, 1, 1, 3, 4, 5, 0, time.UTC)
	c := fixedClock(t, "UTC", at)
	c.SetTimeZone("UTC")
	if r := c.Tick(); r.Time != "03:04:05" {
		t.Fatalf("expected zero padded time, got %s", r.Time)
	}
}

func TestClockService_SetTimeZoneFallback(t *testing.T) {
	cases := []struct {
		name     string
		fallback string
		zone     string
		want     string
	}{
		{"empty zone", "UTC", "", "UTC"},
		{"unknown zone", "UTC", "Mars/Olympus", "UTC"},
		{"custom fallback", "Europe/Berlin", "", "Europe/Berlin"},
		{"bad fallback defaults to UTC", "Nowhere/Land", "", "UTC"},
		{"valid zone", "UTC", "America/New_York", "America/New_York"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewClockService(tc.fallback)
			if got := c.SetTimeZone(tc.zone); got != tc.want {
				t.Fatalf("SetTimeZone(%q) = %q, want %q", tc.zone, got, tc.want)
			}
			if c.Zone() != tc.want {
				t.Fatalf("Zone() = %q, want %q", c.Zone(), tc.want)
			}
		})
	}
}

func TestClockService_DefaultsToLocal(t *testing.T) {
	c := NewClockService("UTC")
	if c.Zone() != time.Local.String() {
		t.Fatalf("expected host zone %q, got %q", time.Local.String(), c.Zone())
	}
}

func TestClockService_DisplayTicksOnce(t *testing.T) {
	at := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	c := fixedClock(t, "UTC", at)
	c.SetTimeZone("UTC")

	first := c.Display()
	if first.Time != "08:00:00" {
		t.Fatalf("Display on fresh clock = %q", first.Time)
	}
	c.now = func() time.Time { return at.Add(time.Minute) }
	if again := c.Display(); again.Time != "08:00:00" {
		t.Fatalf("Display should not advance without a tick, got %q", again.Time)
	}
	if r := c.Tick(); r.Time != "08:01:00" {
		t.Fatalf("Tick = %q", r.Time)
	}
}

func TestClockService_RunTicksImmediately(t *testing.T) {
	c := NewClockService("UTC")
	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Run(ctx, time.Hour)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		c.mu.RLock()
		ticked := c.last.Time != ""
		c.mu.RUnlock()
		if ticked {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Run did not tick before the first period elapsed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	wg.Wait()
}

func TestClockService_RunStopsOnCancel(t *testing.T) {
	c := NewClockService("UTC")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx, 10*time.Millisecond)
		close(done)
	}()
	time.Sleep(35 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
