package prediction

import (
	"errors"
	"strings"
	"testing"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func snapshotFixture() *Snapshot {
	return &Snapshot{
		ICUOccupied:    intPtr(24),
		ICUTotal:       intPtr(30),
		DailyPatients:  intPtr(120),
		StaffOnDuty:    intPtr(12),
		OxygenStatus:   strPtr("normal"),
		MedicineStatus: strPtr("normal"),
	}
}

func contextFixture() *Context {
	return &Context{
		TempMax:         36.0,
		RainMM:          2.0,
		WeatherSeverity: 0.05,
		IsWeekend:       0,
		IsFestival:      0,
		SeasonalWeight:  0.3,
	}
}

func TestValidateMissingFieldsNamed(t *testing.T) {
	a := NewAssembler()
	s := snapshotFixture()
	s.ICUOccupied = nil
	s.OxygenStatus = nil

	err := a.Validate(s)
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if !strings.Contains(verr.Msg, "icu_occupied") || !strings.Contains(verr.Msg, "oxygen_status") {
		t.Errorf("error should name missing fields, got %q", verr.Msg)
	}
}

func TestValidateZeroICUTotal(t *testing.T) {
	a := NewAssembler()
	s := snapshotFixture()
	s.ICUTotal = intPtr(0)

	if err := a.Validate(s); err == nil {
		t.Error("expected error for zero icu_total")
	}
}

func TestAssembleOrder(t *testing.T) {
	a := NewAssembler()
	s := snapshotFixture()
	*s.OxygenStatus = "low"
	ec := contextFixture()
	ec.IsWeekend = 1
	ec.SeasonalWeight = 0.8

	v, err := a.Assemble(s, ec)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	if v[FeatICUOccupancyPct] != 0.8 {
		t.Errorf("expected occupancy 0.8, got %v", v[FeatICUOccupancyPct])
	}
	if v[FeatDailyPatients] != 120 {
		t.Errorf("expected 120 patients, got %v", v[FeatDailyPatients])
	}
	if v[FeatOxygenLow] != 1 {
		t.Errorf("expected oxygen_low 1, got %v", v[FeatOxygenLow])
	}
	if v[FeatMedicineLow] != 0 {
		t.Errorf("expected medicine_low 0, got %v", v[FeatMedicineLow])
	}
	if v[FeatIsWeekend] != 1 {
		t.Errorf("expected is_weekend 1, got %v", v[FeatIsWeekend])
	}
	if v[FeatSeasonalWeight] != 0.8 {
		t.Errorf("expected seasonal 0.8, got %v", v[FeatSeasonalWeight])
	}
}

func TestFeatureMapUsesContractNames(t *testing.T) {
	a := NewAssembler()
	v, err := a.Assemble(snapshotFixture(), contextFixture())
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	m := v.Map()
	if len(m) != NumFeatures {
		t.Fatalf("expected %d entries, got %d", NumFeatures, len(m))
	}
	for _, name := range FeatureNames {
		if _, ok := m[name]; !ok {
			t.Errorf("map missing feature %q", name)
		}
	}
	if m["icu_occupancy_pct"] != 0.8 {
		t.Errorf("expected occupancy 0.8, got %v", m["icu_occupancy_pct"])
	}
}
