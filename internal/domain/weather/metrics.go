package weather

import (
	"math"
	"unicode"
	"unicode/utf8"
)

// Charted metric keys.
const (
	KeyWindSpeed      = "windSpeed"
	KeyMoonPhase      = "moonPhase"
	KeyDewPoint       = "dewPoint"
	KeyHumidity       = "humidity"
	KeyUVIndex        = "uvIndex"
	KeyWindBearing    = "windBearing"
	KeyTemperatureMin = "temperatureMin"
	KeyTemperatureMax = "temperatureMax"
)

// metricKeys lists the charted metrics in gallery order.
var metricKeys = []string{ //nolint:gochecknoglobals // fixed metric catalog
	KeyWindSpeed,
	KeyMoonPhase,
	KeyDewPoint,
	KeyHumidity,
	KeyUVIndex,
	KeyWindBearing,
	KeyTemperatureMin,
	KeyTemperatureMax,
}

// Metric identifies one charted column of the dataset.
type Metric struct {
	Key   string // JSON field name, e.g., "windSpeed"
	Title string // chart title, e.g., "WindSpeed"
}

// Metrics returns the charted metrics in gallery order.
func Metrics() []Metric {
	ms := make([]Metric, 0, len(metricKeys))
	for _, key := range metricKeys {
		ms = append(ms, Metric{Key: key, Title: Title(key)})
	}
	return ms
}

// ByKey returns the metric for key. The second return value is false
// when key does not name a charted metric.
func ByKey(key string) (Metric, bool) {
	for _, k := range metricKeys {
		if k == key {
			return Metric{Key: k, Title: Title(k)}, true
		}
	}
	return Metric{}, false
}

// Title derives a chart title from a metric key by upper-casing its
// first rune, e.g., "windSpeed" becomes "WindSpeed".
func Title(key string) string {
	if key == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(key)
	return string(unicode.ToUpper(r)) + key[size:]
}

// Value extracts the metric's value from a record. Unknown keys yield
// NaN, which downstream binning skips.
func (m Metric) Value(r Record) float64 {
	switch m.Key {
	case KeyWindSpeed:
		return r.WindSpeed
	case KeyMoonPhase:
		return r.MoonPhase
	case KeyDewPoint:
		return r.DewPoint
	case KeyHumidity:
		return r.Humidity
	case KeyUVIndex:
		return r.UVIndex
	case KeyWindBearing:
		return r.WindBearing
	case KeyTemperatureMin:
		return r.TemperatureMin
	case KeyTemperatureMax:
		return r.TemperatureMax
	default:
		return math.NaN()
	}
}

// Values extracts the metric's column from records.
func Values(records []Record, m Metric) []float64 {
	vals := make([]float64, 0, len(records))
	for _, r := range records {
		vals = append(vals, m.Value(r))
	}
	return vals
}
