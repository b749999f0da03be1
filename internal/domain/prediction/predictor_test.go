package prediction

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
)

type stubModel struct {
	risk, er, icu float64
	err           error
}

func (m *stubModel) Predict(FeatureVector) (float64, float64, float64, error) {
	return m.risk, m.er, m.icu, m.err
}

func (m *stubModel) Version() string { return "stub" }

func TestPredictWithoutModelUsesFallback(t *testing.T) {
	p := NewPredictor(nil, "v1.0", zerolog.Nop())

	var v FeatureVector
	v[FeatICUOccupancyPct] = 0.9
	v[FeatOxygenLow] = 1
	v[FeatIsWeekend] = 1

	got := p.Predict(v)
	if !got.IsFallback {
		t.Fatal("expected fallback prediction")
	}
	// 0.9*0.6 + 0.2 + 0.1 = 0.84
	if got.RiskScore != 0.84 {
		t.Errorf("expected risk 0.84, got %v", got.RiskScore)
	}
	if got.ERSurgePct != 0.15 || got.ICUSurgePct != 0.10 {
		t.Errorf("expected high-band surge 0.15/0.10, got %v/%v", got.ERSurgePct, got.ICUSurgePct)
	}
	if got.ModelVersion != "v1.0" {
		t.Errorf("expected fallback version tag v1.0, got %q", got.ModelVersion)
	}
}

func TestFallbackLowRiskBand(t *testing.T) {
	p := NewPredictor(nil, "v1.0", zerolog.Nop())

	var v FeatureVector
	v[FeatICUOccupancyPct] = 0.5 // base 0.30, no penalties

	got := p.Predict(v)
	if got.RiskScore != 0.3 {
		t.Errorf("expected risk 0.3, got %v", got.RiskScore)
	}
	if got.ERSurgePct != 0.10 || got.ICUSurgePct != 0.05 {
		t.Errorf("expected low-band surge 0.10/0.05, got %v/%v", got.ERSurgePct, got.ICUSurgePct)
	}
}

func TestFallbackRiskCappedAtOne(t *testing.T) {
	p := NewPredictor(nil, "v1.0", zerolog.Nop())

	var v FeatureVector
	v[FeatICUOccupancyPct] = 1.5 // malformed input still cannot exceed 1.0
	v[FeatOxygenLow] = 1
	v[FeatIsWeekend] = 1

	got := p.Predict(v)
	if got.RiskScore != 1.0 {
		t.Errorf("expected risk capped at 1.0, got %v", got.RiskScore)
	}
}

func TestModelErrorFallsBack(t *testing.T) {
	p := NewPredictor(&stubModel{err: fmt.Errorf("inference blew up")}, "v1.0", zerolog.Nop())

	got := p.Predict(FeatureVector{})
	if !got.IsFallback {
		t.Error("expected fallback when model errors")
	}
}

func TestModelOutputRoundedAndClamped(t *testing.T) {
	p := NewPredictor(&stubModel{risk: 0.123456, er: 1.7, icu: -0.2}, "v1.0", zerolog.Nop())

	got := p.Predict(FeatureVector{})
	if got.IsFallback {
		t.Fatal("expected model prediction")
	}
	if got.RiskScore != 0.123 {
		t.Errorf("expected risk rounded to 0.123, got %v", got.RiskScore)
	}
	if got.ERSurgePct != 1.0 {
		t.Errorf("expected er clamped to 1.0, got %v", got.ERSurgePct)
	}
	if got.ICUSurgePct != 0.0 {
		t.Errorf("expected icu clamped to 0.0, got %v", got.ICUSurgePct)
	}
	if got.ModelVersion != "stub" {
		t.Errorf("expected model version recorded, got %q", got.ModelVersion)
	}
}
