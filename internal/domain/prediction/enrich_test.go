package prediction

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/surgewatch/surgewatch/internal/platform/cache"
	"github.com/surgewatch/surgewatch/internal/platform/weather"
)

type fakeStore struct {
	entries map[string]fakeEntry
}

type fakeEntry struct {
	value     []byte
	expiresAt time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]fakeEntry)}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, time.Time, bool, error) {
	e, ok := f.entries[key]
	if !ok || !e.expiresAt.After(time.Now().UTC()) {
		return nil, time.Time{}, false, nil
	}
	return e.value, e.expiresAt, true, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value []byte, expiresAt time.Time) error {
	f.entries[key] = fakeEntry{value: value, expiresAt: expiresAt}
	return nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	delete(f.entries, key)
	return nil
}

func (f *fakeStore) DeleteExpired(_ context.Context) (int64, error) { return 0, nil }

type fakeWeather struct {
	obs   *weather.Observation
	err   error
	calls int
}

func (f *fakeWeather) Fetch(context.Context, string) (*weather.Observation, error) {
	f.calls++
	return f.obs, f.err
}

type fakeFestivals struct {
	days map[string]bool
	err  error
}

func (f *fakeFestivals) IsFestival(_ context.Context, day time.Time) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.days[day.Format("2006-01-02")], nil
}

func newTestEnricher(w WeatherFetcher, f FestivalSource) *Enricher {
	svc := cache.NewService(newFakeStore(), zerolog.Nop())
	return NewEnricher(svc, w, f, "Hyderabad", time.Hour, zerolog.Nop())
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	day, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	return day
}

func TestEnrichWeatherSeverity(t *testing.T) {
	w := &fakeWeather{obs: &weather.Observation{TempMax: 40, RainMM: 15}}
	e := newTestEnricher(w, &fakeFestivals{})

	ec := e.Enrich(context.Background(), "", mustDate(t, "2025-06-02"))
	if ec.TempMax != 40 || ec.RainMM != 15 {
		t.Errorf("unexpected weather: %+v", ec)
	}
	// (40-35)*0.05 + (15-5)*0.02 = 0.25 + 0.20 = 0.45
	if ec.WeatherSeverity < 0.449 || ec.WeatherSeverity > 0.451 {
		t.Errorf("expected severity 0.45, got %v", ec.WeatherSeverity)
	}
}

func TestWeatherSeverityClamped(t *testing.T) {
	if got := weatherSeverity(60, 100); got != 1.0 {
		t.Errorf("expected severity clamped to 1.0, got %v", got)
	}
	if got := weatherSeverity(20, 0); got != 0.0 {
		t.Errorf("expected severity 0 for mild weather, got %v", got)
	}
}

func TestEnrichWeatherFallback(t *testing.T) {
	w := &fakeWeather{err: fmt.Errorf("provider down")}
	e := newTestEnricher(w, &fakeFestivals{})

	ec := e.Enrich(context.Background(), "Pune", mustDate(t, "2025-06-02"))
	if ec.TempMax != fallbackTempMax || ec.RainMM != fallbackRainMM || ec.WeatherSeverity != fallbackSeverity {
		t.Errorf("expected fallback weather {30, 0, 0.3}, got %+v", ec)
	}
}

func TestEnrichWeatherCached(t *testing.T) {
	w := &fakeWeather{obs: &weather.Observation{TempMax: 33, RainMM: 0}}
	e := newTestEnricher(w, &fakeFestivals{})
	ctx := context.Background()
	day := mustDate(t, "2025-06-02")

	e.Enrich(ctx, "Pune", day)
	e.Enrich(ctx, "Pune", day)
	if w.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", w.calls)
	}

	// A different city is a different cache key.
	e.Enrich(ctx, "Delhi", day)
	if w.calls != 2 {
		t.Errorf("expected 2 provider calls after new city, got %d", w.calls)
	}
}

func TestFallbackNotCached(t *testing.T) {
	w := &fakeWeather{err: fmt.Errorf("down")}
	e := newTestEnricher(w, &fakeFestivals{})
	ctx := context.Background()
	day := mustDate(t, "2025-06-02")

	e.Enrich(ctx, "Pune", day)
	w.err = nil
	w.obs = &weather.Observation{TempMax: 36, RainMM: 0}

	ec := e.Enrich(ctx, "Pune", day)
	if ec.TempMax != 36 {
		t.Errorf("recovered provider should be consulted again, got temp %v", ec.TempMax)
	}
}

func TestEnrichCalendarWeekend(t *testing.T) {
	e := newTestEnricher(&fakeWeather{obs: &weather.Observation{}}, &fakeFestivals{})
	ctx := context.Background()

	sat := e.Enrich(ctx, "", mustDate(t, "2025-06-07"))
	if sat.IsWeekend != 1 {
		t.Error("Saturday should be weekend")
	}
	mon := e.Enrich(ctx, "", mustDate(t, "2025-06-09"))
	if mon.IsWeekend != 0 {
		t.Error("Monday should not be weekend")
	}
}

func TestEnrichCalendarFestival(t *testing.T) {
	fest := &fakeFestivals{days: map[string]bool{"2025-10-20": true}}
	e := newTestEnricher(&fakeWeather{obs: &weather.Observation{}}, fest)

	ec := e.Enrich(context.Background(), "", mustDate(t, "2025-10-20"))
	if ec.IsFestival != 1 {
		t.Error("expected festival day flagged")
	}
}

func TestEnrichCalendarFestivalLookupFailureDefaultsZero(t *testing.T) {
	fest := &fakeFestivals{err: fmt.Errorf("db down")}
	e := newTestEnricher(&fakeWeather{obs: &weather.Observation{}}, fest)

	ec := e.Enrich(context.Background(), "", mustDate(t, "2025-10-20"))
	if ec.IsFestival != 0 {
		t.Error("festival lookup failure should default to 0")
	}
}

func TestSeasonalWeightTable(t *testing.T) {
	cases := []struct {
		month time.Month
		want  float64
	}{
		{time.January, 0.8},
		{time.February, 0.8},
		{time.December, 0.8},
		{time.July, 0.7},
		{time.August, 0.7},
		{time.September, 0.7},
		{time.March, 0.3},
		{time.June, 0.3},
		{time.October, 0.3},
	}
	for _, tc := range cases {
		if got := SeasonalWeight(tc.month); got != tc.want {
			t.Errorf("SeasonalWeight(%s) = %v, want %v", tc.month, got, tc.want)
		}
	}
}
