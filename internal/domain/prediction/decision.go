package prediction

import "math"

// patientsPerStaff is the staffing ratio used for staff projections.
const patientsPerStaff = 10

// Decisions are the operational numbers derived from a prediction.
type Decisions struct {
	RiskLevel         string
	AdditionalICUBeds int
	AdditionalStaff   int
	SupplyStatus      string
}

// ClassifyRiskLevel maps a risk score to its alert band. Breakpoints are
// strict: a score of exactly 0.50 is Elevated, not High.
func ClassifyRiskLevel(riskScore float64) string {
	switch {
	case riskScore > 0.75:
		return "Critical"
	case riskScore > 0.50:
		return "High"
	case riskScore > 0.30:
		return "Elevated"
	default:
		return "Normal"
	}
}

// AdditionalBeds computes how many ICU beds to prepare for the predicted
// surge: ceil(total * surge), never negative.
func AdditionalBeds(icuTotal int, icuSurgePct float64) int {
	additional := math.Ceil(float64(icuTotal) * icuSurgePct)
	if additional < 0 {
		return 0
	}
	return int(additional)
}

// AdditionalStaff computes how many extra staff to summon given the expected
// patient load at the standard staffing ratio, never negative.
func AdditionalStaff(dailyPatients, currentStaff int, erSurgePct float64) int {
	expected := float64(dailyPatients) * (1 + erSurgePct)
	ideal := int(math.Ceil(expected / patientsPerStaff))
	additional := ideal - currentStaff
	if additional < 0 {
		return 0
	}
	return additional
}

// SupplyStatus is "Low" only when a meaningful surge (>20% ER) meets an
// actual shortage; otherwise "Stable".
func SupplyStatus(erSurgePct float64, oxygenLow, medicineLow bool) string {
	if erSurgePct > 0.2 && (oxygenLow || medicineLow) {
		return "Low"
	}
	return "Stable"
}

// Derive computes all decisions from a prediction and the validated snapshot.
func Derive(p *Prediction, s *Snapshot) Decisions {
	return Decisions{
		RiskLevel:         ClassifyRiskLevel(p.RiskScore),
		AdditionalICUBeds: AdditionalBeds(*s.ICUTotal, p.ICUSurgePct),
		AdditionalStaff:   AdditionalStaff(*s.DailyPatients, *s.StaffOnDuty, p.ERSurgePct),
		SupplyStatus:      SupplyStatus(p.ERSurgePct, lowFlag(*s.OxygenStatus) > 0, lowFlag(*s.MedicineStatus) > 0),
	}
}
