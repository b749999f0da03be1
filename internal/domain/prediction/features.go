package prediction

import "strings"

// Feature vector indices. The order is part of the model contract: artifacts
// are trained against exactly this layout.
const (
	FeatICUOccupancyPct = iota
	FeatDailyPatients
	FeatStaffOnDuty
	FeatOxygenLow
	FeatMedicineLow
	FeatTempMax
	FeatRainMM
	FeatWeatherSeverity
	FeatIsWeekend
	FeatIsFestival
	FeatSeasonalWeight

	NumFeatures
)

// FeatureNames lists the features in contract order.
var FeatureNames = [NumFeatures]string{
	"icu_occupancy_pct",
	"daily_patients",
	"staff_on_duty",
	"oxygen_low",
	"medicine_low",
	"temp_max",
	"rain_mm",
	"weather_severity",
	"is_weekend",
	"is_festival",
	"seasonal_illness_weight",
}

// FeatureVector is the ordered input to the model.
type FeatureVector [NumFeatures]float64

// Map returns the vector as a name-keyed map for persistence and explanation.
func (v FeatureVector) Map() map[string]float64 {
	m := make(map[string]float64, NumFeatures)
	for i, name := range FeatureNames {
		m[name] = v[i]
	}
	return m
}

// Assembler validates raw snapshots and combines them with enrichment context
// into the ordered feature vector.
type Assembler struct{}

func NewAssembler() *Assembler { return &Assembler{} }

// Validate checks that every required snapshot field is present and usable.
func (a *Assembler) Validate(s *Snapshot) error {
	var missing []string
	if s.ICUOccupied == nil {
		missing = append(missing, "icu_occupied")
	}
	if s.ICUTotal == nil {
		missing = append(missing, "icu_total")
	}
	if s.DailyPatients == nil {
		missing = append(missing, "daily_patients")
	}
	if s.StaffOnDuty == nil {
		missing = append(missing, "staff_on_duty")
	}
	if s.OxygenStatus == nil {
		missing = append(missing, "oxygen_status")
	}
	if s.MedicineStatus == nil {
		missing = append(missing, "medicine_status")
	}
	if len(missing) > 0 {
		return validationErrorf("missing required fields: %s", strings.Join(missing, ", "))
	}

	if *s.ICUTotal <= 0 {
		return validationErrorf("icu_total must be positive, got %d", *s.ICUTotal)
	}
	if *s.ICUOccupied < 0 {
		return validationErrorf("icu_occupied must not be negative, got %d", *s.ICUOccupied)
	}
	if *s.DailyPatients < 0 {
		return validationErrorf("daily_patients must not be negative, got %d", *s.DailyPatients)
	}
	if *s.StaffOnDuty < 0 {
		return validationErrorf("staff_on_duty must not be negative, got %d", *s.StaffOnDuty)
	}
	return nil
}

// Assemble produces the ordered feature vector from a validated snapshot and
// its enrichment context.
func (a *Assembler) Assemble(s *Snapshot, ec *Context) (FeatureVector, error) {
	if err := a.Validate(s); err != nil {
		return FeatureVector{}, err
	}
	if ec == nil {
		return FeatureVector{}, validationErrorf("enrichment context is required")
	}

	var v FeatureVector
	v[FeatICUOccupancyPct] = float64(*s.ICUOccupied) / float64(*s.ICUTotal)
	v[FeatDailyPatients] = float64(*s.DailyPatients)
	v[FeatStaffOnDuty] = float64(*s.StaffOnDuty)
	v[FeatOxygenLow] = lowFlag(*s.OxygenStatus)
	v[FeatMedicineLow] = lowFlag(*s.MedicineStatus)
	v[FeatTempMax] = ec.TempMax
	v[FeatRainMM] = ec.RainMM
	v[FeatWeatherSeverity] = ec.WeatherSeverity
	v[FeatIsWeekend] = float64(ec.IsWeekend)
	v[FeatIsFestival] = float64(ec.IsFestival)
	v[FeatSeasonalWeight] = ec.SeasonalWeight
	return v, nil
}

func lowFlag(status string) float64 {
	if strings.EqualFold(status, "low") {
		return 1
	}
	return 0
}
