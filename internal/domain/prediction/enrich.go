package prediction

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/surgewatch/surgewatch/internal/platform/cache"
	"github.com/surgewatch/surgewatch/internal/platform/telemetry"
	"github.com/surgewatch/surgewatch/internal/platform/weather"
)

// Context holds the backend-only enrichment features for one day.
type Context struct {
	TempMax         float64
	RainMM          float64
	WeatherSeverity float64
	IsWeekend       int
	IsFestival      int
	SeasonalWeight  float64
}

// WeatherFetcher is the external weather dependency. *weather.Client
// satisfies it.
type WeatherFetcher interface {
	Fetch(ctx context.Context, city string) (*weather.Observation, error)
}

// FestivalSource answers whether a given day is a festival or public holiday.
type FestivalSource interface {
	IsFestival(ctx context.Context, day time.Time) (bool, error)
}

// Weather fallback used whenever the provider is unreachable, slow, or
// misconfigured. Enrichment failures never surface to the caller.
const (
	fallbackTempMax  = 30.0
	fallbackRainMM   = 0.0
	fallbackSeverity = 0.3

	weatherTTL = 24 * time.Hour
)

// Enricher fetches weather, calendar, and seasonal context, caching each by
// a composite key so repeated predictions for the same day are cheap.
type Enricher struct {
	cache       *cache.Service
	weather     WeatherFetcher
	festivals   FestivalSource
	defaultCity string
	calendarTTL time.Duration
	logger      zerolog.Logger
}

func NewEnricher(c *cache.Service, w WeatherFetcher, f FestivalSource, defaultCity string, calendarTTL time.Duration, logger zerolog.Logger) *Enricher {
	return &Enricher{
		cache:       c,
		weather:     w,
		festivals:   f,
		defaultCity: defaultCity,
		calendarTTL: calendarTTL,
		logger:      logger,
	}
}

type weatherContext struct {
	TempMax         float64 `json:"temp_max"`
	RainMM          float64 `json:"rain_mm"`
	WeatherSeverity float64 `json:"weather_severity"`
}

type calendarContext struct {
	IsWeekend  int `json:"is_weekend"`
	IsFestival int `json:"is_festival"`
}

// Enrich assembles the full backend context for a city and day. It never
// returns an error: every external failure degrades to a safe default.
func (e *Enricher) Enrich(ctx context.Context, city string, day time.Time) *Context {
	if city == "" {
		city = e.defaultCity
	}

	w := e.enrichWeather(ctx, city, day)
	cal := e.enrichCalendar(ctx, day)
	seasonal := e.enrichSeasonal(ctx, day)

	return &Context{
		TempMax:         w.TempMax,
		RainMM:          w.RainMM,
		WeatherSeverity: w.WeatherSeverity,
		IsWeekend:       cal.IsWeekend,
		IsFestival:      cal.IsFestival,
		SeasonalWeight:  seasonal,
	}
}

func (e *Enricher) enrichWeather(ctx context.Context, city string, day time.Time) weatherContext {
	key := fmt.Sprintf("weather_%s_%s", city, day.Format("2006-01-02"))

	var cached weatherContext
	if ok, err := e.cache.Get(ctx, key, &cached); err == nil && ok {
		return cached
	}

	obs, err := e.weather.Fetch(ctx, city)
	if err != nil {
		telemetry.EnrichmentFailuresTotal.WithLabelValues("weather").Inc()
		e.logger.Warn().Err(err).Str("city", city).Msg("weather fetch failed, using fallback")
		return weatherContext{
			TempMax:         fallbackTempMax,
			RainMM:          fallbackRainMM,
			WeatherSeverity: fallbackSeverity,
		}
	}

	w := weatherContext{
		TempMax:         obs.TempMax,
		RainMM:          obs.RainMM,
		WeatherSeverity: weatherSeverity(obs.TempMax, obs.RainMM),
	}

	if err := e.cache.Set(ctx, key, w, weatherTTL); err != nil {
		e.logger.Warn().Err(err).Msg("weather cache write failed")
	}
	return w
}

// weatherSeverity scores how much the day's weather stresses a hospital.
// Heat contributes above 35C, rain above 5mm; the result is clamped to [0,1].
func weatherSeverity(tempMax, rainMM float64) float64 {
	heat := tempMax - 35
	if heat < 0 {
		heat = 0
	}
	rain := rainMM - 5
	if rain < 0 {
		rain = 0
	}
	return clamp01(heat*0.05 + rain*0.02)
}

func (e *Enricher) enrichCalendar(ctx context.Context, day time.Time) calendarContext {
	key := fmt.Sprintf("calendar_%s", day.Format("2006-01-02"))

	var cached calendarContext
	if ok, err := e.cache.Get(ctx, key, &cached); err == nil && ok {
		return cached
	}

	cal := calendarContext{}
	if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
		cal.IsWeekend = 1
	}

	festival, err := e.festivals.IsFestival(ctx, day)
	if err != nil {
		telemetry.EnrichmentFailuresTotal.WithLabelValues("calendar").Inc()
		e.logger.Warn().Err(err).Msg("festival lookup failed, assuming none")
	} else if festival {
		cal.IsFestival = 1
	}

	if err := e.cache.Set(ctx, key, cal, e.calendarTTL); err != nil {
		e.logger.Warn().Err(err).Msg("calendar cache write failed")
	}
	return cal
}

func (e *Enricher) enrichSeasonal(ctx context.Context, day time.Time) float64 {
	key := fmt.Sprintf("seasonal_%s", day.Format("2006-01-02"))

	var cached float64
	if ok, err := e.cache.Get(ctx, key, &cached); err == nil && ok {
		return cached
	}

	weight := SeasonalWeight(day.Month())
	if err := e.cache.Set(ctx, key, weight, e.calendarTTL); err != nil {
		e.logger.Warn().Err(err).Msg("seasonal cache write failed")
	}
	return weight
}

// seasonalWeights maps each month to an illness load weight: winter carries
// flu season, monsoon carries dengue.
var seasonalWeights = [13]float64{
	0,   // unused
	0.8, // January
	0.8, // February
	0.3, // March
	0.3, // April
	0.3, // May
	0.3, // June
	0.7, // July
	0.7, // August
	0.7, // September
	0.3, // October
	0.3, // November
	0.8, // December
}

// SeasonalWeight returns the illness load weight for a month.
func SeasonalWeight(m time.Month) float64 {
	return seasonalWeights[m]
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
