package prediction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/surgewatch/surgewatch/internal/platform/telemetry"
)

// Service orchestrates the daily pipeline: enrich, assemble, predict, decide,
// explain, persist.
type Service struct {
	repo      Repository
	enricher  *Enricher
	assembler *Assembler
	predictor *Predictor
	logger    zerolog.Logger
}

func NewService(repo Repository, enricher *Enricher, predictor *Predictor, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		enricher:  enricher,
		assembler: NewAssembler(),
		predictor: predictor,
		logger:    logger,
	}
}

// PredictDaily runs the full pipeline for one hospital's snapshot and
// persists the outcome keyed by (hospital, date). Rerunning for the same day
// overwrites the stored record.
func (s *Service) PredictDaily(ctx context.Context, hospitalID uuid.UUID, snap *Snapshot) (*DailyPredictionResponse, error) {
	start := time.Now()
	defer func() {
		telemetry.PipelineDuration.Observe(time.Since(start).Seconds())
	}()

	day, err := resolveDate(snap.Date)
	if err != nil {
		return nil, err
	}

	if err := s.assembler.Validate(snap); err != nil {
		return nil, err
	}

	ec := s.enricher.Enrich(ctx, snap.City, day)

	vector, err := s.assembler.Assemble(snap, ec)
	if err != nil {
		return nil, err
	}

	pred := s.predictor.Predict(vector)
	decisions := Derive(pred, snap)
	reasons := Reasons(vector)
	recommendations := Recommendations(decisions)

	rec := &PredictionRecord{
		HospitalID:        hospitalID,
		Date:              day,
		RiskScore:         pred.RiskScore,
		ERSurgePct:        pred.ERSurgePct,
		ICUSurgePct:       pred.ICUSurgePct,
		RiskLevel:         decisions.RiskLevel,
		AdditionalICUBeds: decisions.AdditionalICUBeds,
		AdditionalStaff:   decisions.AdditionalStaff,
		SupplyStatus:      decisions.SupplyStatus,
		InputFeatures:     vector.Map(),
		ModelVersion:      pred.ModelVersion,
		IsFallback:        pred.IsFallback,
	}
	if err := s.repo.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist prediction: %w", err)
	}

	telemetry.PredictionsTotal.Inc()
	s.logger.Info().
		Str("hospital_id", hospitalID.String()).
		Str("date", day.Format("2006-01-02")).
		Float64("risk_score", pred.RiskScore).
		Str("risk_level", decisions.RiskLevel).
		Bool("is_fallback", pred.IsFallback).
		Msg("daily prediction")

	return &DailyPredictionResponse{
		RiskAnalysis: RiskAnalysis{
			RiskScore:             pred.RiskScore,
			AlertLevel:            strings.ToUpper(decisions.RiskLevel),
			ERSurgePredictionPct:  pred.ERSurgePct,
			ICUSurgePredictionPct: pred.ICUSurgePct,
		},
		ResourceRequirements: ResourceRequirements{
			AdditionalICUBeds:       decisions.AdditionalICUBeds,
			AdditionalStaffRequired: decisions.AdditionalStaff,
			SupplyStatus:            strings.ToUpper(decisions.SupplyStatus),
		},
		Reasons:         reasons,
		Recommendations: recommendations,
	}, nil
}

// History returns the hospital's stored predictions, newest first.
func (s *Service) History(ctx context.Context, hospitalID uuid.UUID, limit, offset int) ([]*PredictionRecord, int, error) {
	return s.repo.ListByHospital(ctx, hospitalID, limit, offset)
}

// Today returns the hospital's record for the current UTC day.
func (s *Service) Today(ctx context.Context, hospitalID uuid.UUID) (*PredictionRecord, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return s.repo.GetByHospitalAndDate(ctx, hospitalID, today)
}

// resolveDate parses an optional YYYY-MM-DD date, defaulting to today (UTC).
func resolveDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, validationErrorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return day, nil
}
