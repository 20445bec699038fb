// Package weather contains domain models for the daily weather dataset.
package weather

// Record represents one day of weather observations.
// JSON tags mirror the dataset file schema.
type Record struct {
	Time                   int64   `json:"time"`        // unix seconds at local midnight
	Summary                string  `json:"summary"`     // human readable conditions
	Icon                   string  `json:"icon"`        // icon slug, e.g., "partly-cloudy-day"
	SunriseTime            int64   `json:"sunriseTime"` // unix seconds
	SunsetTime             int64   `json:"sunsetTime"`  // unix seconds
	MoonPhase              float64 `json:"moonPhase"`   // fraction of the lunar cycle, 0..1
	Humidity               float64 `json:"humidity"`    // relative humidity, 0..1
	DewPoint               float64 `json:"dewPoint"`    // degrees Fahrenheit
	Pressure               float64 `json:"pressure"`    // millibars
	WindSpeed              float64 `json:"windSpeed"`   // miles per hour
	WindGust               float64 `json:"windGust"`    // miles per hour
	WindBearing            float64 `json:"windBearing"` // degrees clockwise from true north
	CloudCover             float64 `json:"cloudCover"`  // sky coverage, 0..1
	UVIndex                float64 `json:"uvIndex"`
	Visibility             float64 `json:"visibility"` // miles
	TemperatureMin         float64 `json:"temperatureMin"`
	TemperatureMax         float64 `json:"temperatureMax"`
	ApparentTemperatureMin float64 `json:"apparentTemperatureMin"`
	ApparentTemperatureMax float64 `json:"apparentTemperatureMax"`
	Date                   string  `json:"date"` // ISO date, e.g., "2018-12-25"
}
