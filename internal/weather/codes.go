package weather

import (
	"fmt"
	"math"
)

// conditions maps WMO weather codes to display text.
var conditions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Heavy drizzle",
	61: "Light rain",
	63: "Moderate rain",
	65: "Heavy rain",
	71: "Light snow",
	73: "Moderate snow",
	75: "Heavy snow",
	80: "Rain showers",
	81: "Heavy rain showers",
	82: "Violent rain showers",
}

// UnknownCondition prefixes the text for codes outside the table.
const UnknownCondition = "Unknown weather"

// Describe returns the condition text for a weather code. Unknown codes
// keep the raw code visible.
func Describe(code int) string {
	if text, ok := conditions[code]; ok {
		return text
	}
	return fmt.Sprintf("%s (code %d)", UnknownCondition, code)
}

// Round rounds half away from zero to the nearest whole unit.
func Round(v float64) int {
	return int(math.Round(v))
}
