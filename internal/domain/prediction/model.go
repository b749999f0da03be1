package prediction

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Snapshot is the raw daily operational status a hospital submits. Pointer
// fields distinguish absent keys from zero values so validation can name
// exactly what is missing.
type Snapshot struct {
	Date           string  `json:"date,omitempty"` // YYYY-MM-DD, defaults to today
	City           string  `json:"city,omitempty"` // defaults to the configured city
	ICUOccupied    *int    `json:"icu_occupied"`
	ICUTotal       *int    `json:"icu_total"`
	DailyPatients  *int    `json:"daily_patients"`
	StaffOnDuty    *int    `json:"staff_on_duty"`
	OxygenStatus   *string `json:"oxygen_status"`   // "low" or "normal"
	MedicineStatus *string `json:"medicine_status"` // "low" or "normal"
}

// PredictionRecord is the persisted outcome of one pipeline run, keyed by
// (hospital, date). Re-running the pipeline for the same day overwrites it.
type PredictionRecord struct {
	ID                uuid.UUID          `json:"id"`
	HospitalID        uuid.UUID          `json:"hospital_id"`
	Date              time.Time          `json:"date"`
	RiskScore         float64            `json:"risk_score"`
	ERSurgePct        float64            `json:"er_surge_pct"`
	ICUSurgePct       float64            `json:"icu_surge_pct"`
	RiskLevel         string             `json:"risk_level"`
	AdditionalICUBeds int                `json:"additional_icu_beds"`
	AdditionalStaff   int                `json:"additional_staff"`
	SupplyStatus      string             `json:"supply_status"`
	InputFeatures     map[string]float64 `json:"input_features"`
	ModelVersion      string             `json:"model_version"`
	IsFallback        bool               `json:"is_fallback"`
	CreatedAt         time.Time          `json:"created_at"`
}

// DailyPredictionResponse is the locked response contract. Its shape stays
// stable even if the underlying model changes.
type DailyPredictionResponse struct {
	RiskAnalysis         RiskAnalysis         `json:"risk_analysis"`
	ResourceRequirements ResourceRequirements `json:"resource_requirements"`
	Reasons              []string             `json:"reasons"`
	Recommendations      []string             `json:"recommendations"`
}

type RiskAnalysis struct {
	RiskScore             float64 `json:"risk_score"`
	AlertLevel            string  `json:"alert_level"`
	ERSurgePredictionPct  float64 `json:"er_surge_prediction_pct"`
	ICUSurgePredictionPct float64 `json:"icu_surge_prediction_pct"`
}

type ResourceRequirements struct {
	AdditionalICUBeds       int    `json:"additional_icu_beds"`
	AdditionalStaffRequired int    `json:"additional_staff_required"`
	SupplyStatus            string `json:"supply_status"`
}

// ValidationError marks malformed caller input. Handlers map it to 400 while
// everything else becomes a generic 500.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
