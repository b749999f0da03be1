package prediction

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/surgewatch/surgewatch/internal/platform/telemetry"
)

// Prediction is the pure numeric output of inference. Everything else is
// derived by the decision engine.
type Prediction struct {
	RiskScore    float64
	ERSurgePct   float64
	ICUSurgePct  float64
	IsFallback   bool
	ModelVersion string
}

// Predictor wraps the injected model with a deterministic rule-based
// fallback. It never returns an error: a missing or failing model degrades
// to conservative estimates, flagged IsFallback.
type Predictor struct {
	model           Model
	fallbackVersion string
	logger          zerolog.Logger
}

// NewPredictor builds a predictor. fallbackVersion tags records produced by
// the rule-based path, where no artifact version exists.
func NewPredictor(model Model, fallbackVersion string, logger zerolog.Logger) *Predictor {
	if model == nil {
		logger.Warn().Msg("predictor initialized without model, all predictions will use fallback")
	}
	return &Predictor{model: model, fallbackVersion: fallbackVersion, logger: logger}
}

func (p *Predictor) Predict(v FeatureVector) *Prediction {
	if p.model == nil {
		return p.fallback(v)
	}

	risk, er, icu, err := p.model.Predict(v)
	if err != nil {
		p.logger.Error().Err(err).Msg("model inference failed, using fallback")
		return p.fallback(v)
	}

	return &Prediction{
		RiskScore:    round3(clamp01(risk)),
		ERSurgePct:   round3(clamp01(er)),
		ICUSurgePct:  round3(clamp01(icu)),
		ModelVersion: p.model.Version(),
	}
}

// fallback scores risk from key indicators only: ICU occupancy, supply
// shortage, and weekend staffing.
func (p *Predictor) fallback(v FeatureVector) *Prediction {
	telemetry.FallbacksTotal.Inc()

	base := v[FeatICUOccupancyPct] * 0.6
	if v[FeatOxygenLow] > 0 || v[FeatMedicineLow] > 0 {
		base += 0.2
	}
	if v[FeatIsWeekend] > 0 {
		base += 0.1
	}
	risk := math.Min(base, 1.0)

	er, icu := 0.10, 0.05
	if risk > 0.5 {
		er, icu = 0.15, 0.10
	}

	p.logger.Warn().
		Float64("risk", risk).
		Float64("er", er).
		Float64("icu", icu).
		Msg("rule-based fallback prediction")

	return &Prediction{
		RiskScore:    round3(risk),
		ERSurgePct:   round3(er),
		ICUSurgePct:  round3(icu),
		IsFallback:   true,
		ModelVersion: p.fallbackVersion,
	}
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}
