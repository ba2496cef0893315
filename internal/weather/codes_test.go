package weather

import (
	"strconv"
	"testing"
)

func TestDescribe_Table(t *testing.T) {
	want := map[int]string{
		0: "Clear sky", 1: "Mainly clear", 2: "Partly cloudy", 3: "Overcast",
		45: "Fog", 48: "Rime fog",
		51: "Light drizzle", 53: "Moderate drizzle", 55: "Heavy drizzle",
		61: "Light rain", 63: "Moderate rain", 65: "Heavy rain",
		71: "Light snow", 73: "Moderate snow", 75: "Heavy snow",
		80: "Rain showers", 81: "Heavy rain showers", 82: "Violent rain showers",
	}
	for code, text := range want {
		if got := Describe(code); got != text {
			t.Errorf("Describe(%d) = %q, want %q", code, got, text)
		}
	}
	if len(conditions) != len(want) {
		t.Fatalf("table has %d entries, want %d", len(conditions), len(want))
	}
}

func TestDescribe_UnknownKeepsCode(t *testing.T) {
	for _, code := range []int{-1, 4, 95, 99} {
		got := Describe(code)
		want := UnknownCondition + " (code " + strconv.Itoa(code) + ")"
		if got != want {
			t.Errorf("Describe(%d) = %q, want %q", code, got, want)
		}
	}
}

func TestRound_HalfAwayFromZero(t *testing.T) {
	cases := []struct {
		in   float64
		want int
	}{
		{15.4, 15},
		{10.2, 10},
		{0.5, 1},
		{1.5, 2},
		{2.5, 3},
		{-0.5, -1},
		{-2.5, -3},
		{-2.4, -2},
		{0, 0},
	}
	for _, tc := range cases {
		if got := Round(tc.in); got != tc.want {
			t.Errorf("Round(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
