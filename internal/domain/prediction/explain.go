package prediction

import "fmt"

// Reason thresholds. Reasons must be traceable to input features, never to
// model internals.
const (
	icuOccupancyHigh     = 0.80
	icuOccupancyCritical = 0.90
	tempHeatwave         = 38.0
	tempExtreme          = 42.0
	rainHeavy            = 30.0
	rainExtreme          = 50.0
	staffShortage        = 8
	seasonalHigh         = 0.7
)

// Reasons produces human-readable, input-traceable explanations in a fixed
// order of importance.
func Reasons(v FeatureVector) []string {
	var reasons []string

	if occ := v[FeatICUOccupancyPct]; occ > icuOccupancyCritical {
		reasons = append(reasons, fmt.Sprintf("CRITICAL: ICU occupancy at %.0f%% (threshold: %.0f%%)", occ*100, icuOccupancyCritical*100))
	} else if occ > icuOccupancyHigh {
		reasons = append(reasons, fmt.Sprintf("ICU occupancy at %.0f%% (above %.0f%% threshold)", occ*100, icuOccupancyHigh*100))
	}

	if temp := v[FeatTempMax]; temp > tempExtreme {
		reasons = append(reasons, fmt.Sprintf("Extreme heat: %.0fC (increases cardiac and respiratory stress)", temp))
	} else if temp > tempHeatwave {
		reasons = append(reasons, fmt.Sprintf("Heatwave detected: %.0fC (normal range: 25-35C)", temp))
	}

	if rain := v[FeatRainMM]; rain > rainExtreme {
		reasons = append(reasons, fmt.Sprintf("Extreme rainfall: %.0fmm (high accident risk)", rain))
	} else if rain > rainHeavy {
		reasons = append(reasons, fmt.Sprintf("Heavy rain: %.0fmm (increased accident rate expected)", rain))
	}

	if staff := v[FeatStaffOnDuty]; staff < staffShortage {
		reasons = append(reasons, fmt.Sprintf("Staff below threshold: %.0f on duty (minimum: %d)", staff, staffShortage))
	}

	if v[FeatIsWeekend] > 0 {
		reasons = append(reasons, "Weekend: historically higher accident rates")
	}

	if v[FeatIsFestival] > 0 {
		reasons = append(reasons, "Festival or holiday: mass gathering increases ER load")
	}

	if v[FeatOxygenLow] > 0 {
		reasons = append(reasons, "Oxygen supplies low (below safety stock threshold)")
	}

	if v[FeatMedicineLow] > 0 {
		reasons = append(reasons, "Medicine inventory low (restock recommended)")
	}

	if w := v[FeatSeasonalWeight]; w > seasonalHigh {
		reasons = append(reasons, fmt.Sprintf("High seasonal illness period (weight: %.1f)", w))
	}

	return reasons
}

// baseRecommendations maps each risk level to its standing protocol.
var baseRecommendations = map[string][]string{
	"Critical": {
		"URGENT: activate surge staffing protocol (level 3)",
		"Immediately divert non-critical ambulances to nearby facilities",
		"Suspend all elective surgeries for next 48 hours",
		"Open emergency overflow wards and prepare temporary beds",
	},
	"High": {
		"Call in on-call nursing staff immediately",
		"Expedite discharge process for medically fit patients",
		"Prioritize ICU bed turnaround and cleaning",
		"Review oxygen, PPE, and medicine inventory levels",
	},
	"Elevated": {
		"Monitor ICU bed availability every 2 hours",
		"Brief shift leads on expected patient intake increase",
		"Ensure trauma and emergency units are on standby",
		"Conduct equipment checks and verify backup systems",
	},
	"Normal": {
		"Maintain standard shift rotations",
		"Routine equipment maintenance and checks",
		"No change to elective surgery schedules",
		"Continue standard community health monitoring",
	},
}

// Recommendations returns the protocol for the risk level plus concrete
// actions derived from the decisions.
func Recommendations(d Decisions) []string {
	recs := append([]string(nil), baseRecommendations[d.RiskLevel]...)

	if d.AdditionalICUBeds > 0 {
		recs = append(recs, fmt.Sprintf("Prepare %d additional ICU beds", d.AdditionalICUBeds))
	}
	if d.AdditionalStaff > 0 {
		recs = append(recs, fmt.Sprintf("Summon %d additional staff members", d.AdditionalStaff))
	}
	if d.SupplyStatus == "Low" {
		recs = append(recs, "URGENT: restock oxygen and essential medicines before surge")
	}

	return recs
}
