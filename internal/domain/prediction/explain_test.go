package prediction

import (
	"strings"
	"testing"
)

func TestReasonsEmptyForQuietDay(t *testing.T) {
	var v FeatureVector
	v[FeatICUOccupancyPct] = 0.5
	v[FeatStaffOnDuty] = 15
	v[FeatTempMax] = 30
	v[FeatSeasonalWeight] = 0.3

	if reasons := Reasons(v); len(reasons) != 0 {
		t.Errorf("expected no reasons, got %v", reasons)
	}
}

func TestReasonsCriticalOccupancySupersedesHigh(t *testing.T) {
	var v FeatureVector
	v[FeatICUOccupancyPct] = 0.92
	v[FeatStaffOnDuty] = 15

	reasons := Reasons(v)
	if len(reasons) != 1 {
		t.Fatalf("expected 1 reason, got %v", reasons)
	}
	if !strings.HasPrefix(reasons[0], "CRITICAL") {
		t.Errorf("expected critical occupancy reason, got %q", reasons[0])
	}
}

func TestReasonsAllTriggers(t *testing.T) {
	var v FeatureVector
	v[FeatICUOccupancyPct] = 0.85
	v[FeatStaffOnDuty] = 6
	v[FeatTempMax] = 43
	v[FeatRainMM] = 55
	v[FeatIsWeekend] = 1
	v[FeatIsFestival] = 1
	v[FeatOxygenLow] = 1
	v[FeatMedicineLow] = 1
	v[FeatSeasonalWeight] = 0.8

	reasons := Reasons(v)
	if len(reasons) != 9 {
		t.Fatalf("expected 9 reasons, got %d: %v", len(reasons), reasons)
	}

	// Reasons keep their fixed order of importance.
	wantOrder := []string{"ICU occupancy", "Extreme heat", "Extreme rainfall", "Staff below",
		"Weekend", "Festival", "Oxygen", "Medicine", "seasonal illness"}
	for i, frag := range wantOrder {
		if !strings.Contains(reasons[i], frag) {
			t.Errorf("reason %d: expected %q in %q", i, frag, reasons[i])
		}
	}
}

func TestReasonsStrictThresholds(t *testing.T) {
	var v FeatureVector
	v[FeatICUOccupancyPct] = 0.80 // exactly at threshold, not above
	v[FeatStaffOnDuty] = 8        // exactly at minimum
	v[FeatTempMax] = 38
	v[FeatRainMM] = 30
	v[FeatSeasonalWeight] = 0.7

	if reasons := Reasons(v); len(reasons) != 0 {
		t.Errorf("boundary values should not trigger reasons, got %v", reasons)
	}
}

func TestRecommendationsBaseProtocol(t *testing.T) {
	for _, level := range []string{"Critical", "High", "Elevated", "Normal"} {
		recs := Recommendations(Decisions{RiskLevel: level, SupplyStatus: "Stable"})
		if len(recs) != 4 {
			t.Errorf("%s: expected 4 base recommendations, got %d", level, len(recs))
		}
	}
}

func TestRecommendationsConditionalLines(t *testing.T) {
	recs := Recommendations(Decisions{
		RiskLevel:         "High",
		AdditionalICUBeds: 4,
		AdditionalStaff:   2,
		SupplyStatus:      "Low",
	})
	if len(recs) != 7 {
		t.Fatalf("expected 7 recommendations, got %d: %v", len(recs), recs)
	}

	joined := strings.Join(recs, "\n")
	if !strings.Contains(joined, "Prepare 4 additional ICU beds") {
		t.Error("missing bed preparation line")
	}
	if !strings.Contains(joined, "Summon 2 additional staff members") {
		t.Error("missing staff summon line")
	}
	if !strings.Contains(joined, "restock oxygen") {
		t.Error("missing restock line")
	}
}
