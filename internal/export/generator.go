package export

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/Zato1one/weatherhist/internal/domain/weather"
	"github.com/Zato1one/weatherhist/pkg/logger"
)

// Constants for the synthetic climate model. Temperatures are degrees
// Fahrenheit to match the dataset schema.
const (
	meanAnnualTemperature = 55.0
	seasonalSwing         = 28.0
	temperatureNoise      = 6.0
	diurnalSpreadMin      = 10.0
	diurnalSpreadRange    = 8.0
	dewPointOffset        = 4.0
	dewPointNoise         = 4.0
	apparentOffsetNoise   = 2.0
)

// Constants for the bounded metrics.
const (
	baseHumidity        = 0.62
	humiditySeasonalDip = 0.08
	humidityNoise       = 0.12
	humidityFloor       = 0.05
	humidityCeil        = 0.97
	baseUVIndex         = 5.0
	uvSeasonalSwing     = 3.5
	uvNoise             = 1.2
	uvCeil              = 11.0
	meanCloudCover      = 0.45
	cloudCoverNoise     = 0.3
)

// Constants for wind, pressure and visibility.
const (
	windSpeedFloor    = 0.3
	windSpeedScale    = 2.6
	windGustScale     = 3.5
	fullCircleDegrees = 360.0
	basePressure      = 1013.0
	pressureNoise     = 7.0
	baseVisibility    = 10.0
	visibilityNoise   = 1.5
	visibilityFloor   = 1.0
)

// Constants for the calendar and astronomy.
const (
	daysPerYear    = 365.0
	quarterPhase   = 0.25
	lunarCycleDays = 29.53
	sunriseHour    = 6
	sunsetHour     = 18
)

// generateRecords synthesizes daily weather records starting at
// January 1st 2018. The same seed always yields the same records.
func generateRecords(ctx context.Context, config *Config, stats *Stats) []weather.Record {
	logger.Get().Info(ctx, "generating synthetic weather records",
		logger.Int("count", config.Generate),
		logger.Any("seed", config.Seed))

	rng := rand.New(rand.NewSource(config.Seed))
	base := time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)

	records := make([]weather.Record, config.Generate)
	for i := range records {
		records[i] = generateSingleRecord(rng, base, i)
	}

	stats.RecordsGenerated = len(records)
	logger.Get().Info(ctx, "generated records successfully", logger.Int("count", len(records)))

	return records
}

// generateSingleRecord synthesizes the observation for one day.
func generateSingleRecord(rng *rand.Rand, base time.Time, index int) weather.Record {
	day := base.AddDate(0, 0, index)
	yearFrac := float64(day.YearDay()) / daysPerYear

	// Seasonal curve peaking mid year
	seasonal := math.Sin(2 * math.Pi * (yearFrac - quarterPhase))

	tempMax := meanAnnualTemperature + seasonalSwing*seasonal + rng.NormFloat64()*temperatureNoise
	tempMin := tempMax - (diurnalSpreadMin + rng.Float64()*diurnalSpreadRange)
	dewPoint := tempMin - dewPointOffset + rng.NormFloat64()*dewPointNoise

	humidity := clampFloat(baseHumidity-humiditySeasonalDip*seasonal+rng.NormFloat64()*humidityNoise, humidityFloor, humidityCeil)
	windSpeed := windSpeedFloor + math.Abs(rng.NormFloat64())*windSpeedScale
	cloudCover := clampFloat(meanCloudCover+rng.NormFloat64()*cloudCoverNoise, 0, 1)
	uvIndex := math.Round(clampFloat(baseUVIndex+uvSeasonalSwing*seasonal+rng.NormFloat64()*uvNoise, 0, uvCeil))
	summary, icon := conditions(cloudCover)

	return weather.Record{
		Time:                   day.Unix(),
		Summary:                summary,
		Icon:                   icon,
		SunriseTime:            day.Add(sunriseHour * time.Hour).Unix(),
		SunsetTime:             day.Add(sunsetHour * time.Hour).Unix(),
		MoonPhase:              math.Mod(float64(index)/lunarCycleDays, 1),
		Humidity:               humidity,
		DewPoint:               dewPoint,
		Pressure:               basePressure + rng.NormFloat64()*pressureNoise,
		WindSpeed:              windSpeed,
		WindGust:               windSpeed + math.Abs(rng.NormFloat64())*windGustScale,
		WindBearing:            rng.Float64() * fullCircleDegrees,
		CloudCover:             cloudCover,
		UVIndex:                uvIndex,
		Visibility:             clampFloat(baseVisibility-math.Abs(rng.NormFloat64())*visibilityNoise, visibilityFloor, baseVisibility),
		TemperatureMin:         tempMin,
		TemperatureMax:         tempMax,
		ApparentTemperatureMin: tempMin - math.Abs(rng.NormFloat64())*apparentOffsetNoise,
		ApparentTemperatureMax: tempMax + math.Abs(rng.NormFloat64())*apparentOffsetNoise,
		Date:                   day.Format("2006-01-02"),
	}
}

// conditions picks a summary and icon for the day's cloud cover.
func conditions(cloudCover float64) (string, string) {
	switch {
	case cloudCover < 0.2:
		return "Clear throughout the day.", "clear-day"
	case cloudCover < 0.5:
		return "Partly cloudy throughout the day.", "partly-cloudy-day"
	case cloudCover < 0.8:
		return "Mostly cloudy throughout the day.", "cloudy"
	default:
		return "Rain throughout the day.", "rain"
	}
}

// clampFloat bounds v to the [lo, hi] range.
func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
