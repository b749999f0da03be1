package prediction

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// Model is the inference interface the predictor depends on. Implementations
// return only numbers; risk levels, bed counts, and recommendations are
// derived downstream.
type Model interface {
	Predict(v FeatureVector) (risk, erSurge, icuSurge float64, err error)
	Version() string
}

// linearOutput is one output head of the regressor: intercept + one
// coefficient per feature.
type linearOutput struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

type modelArtifact struct {
	Version      string   `json:"version"`
	FeatureNames []string `json:"feature_names"`
	Outputs      struct {
		RiskScore   linearOutput `json:"risk_score"`
		ERSurgePct  linearOutput `json:"er_surge_pct"`
		ICUSurgePct linearOutput `json:"icu_surge_pct"`
	} `json:"outputs"`
}

// LinearModel is a multi-output linear regressor loaded from a JSON artifact.
type LinearModel struct {
	version string
	risk    head
	er      head
	icu     head
}

type head struct {
	intercept float64
	weights   *mat.VecDense
}

func newHead(out linearOutput, name string) (head, error) {
	if len(out.Coefficients) != NumFeatures {
		return head{}, fmt.Errorf("output %s has %d coefficients, want %d", name, len(out.Coefficients), NumFeatures)
	}
	return head{
		intercept: out.Intercept,
		weights:   mat.NewVecDense(NumFeatures, out.Coefficients),
	}, nil
}

func (h head) eval(v *mat.VecDense) float64 {
	return h.intercept + mat.Dot(h.weights, v)
}

// LoadModel reads a model artifact from disk. The artifact's feature_names
// must match the feature contract exactly; a trained-against-different-layout
// artifact is rejected.
func LoadModel(path string) (*LinearModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact %s: %w", path, err)
	}

	var art modelArtifact
	if err := json.Unmarshal(raw, &art); err != nil {
		return nil, fmt.Errorf("parse model artifact %s: %w", path, err)
	}

	if len(art.FeatureNames) != NumFeatures {
		return nil, fmt.Errorf("model artifact has %d features, want %d", len(art.FeatureNames), NumFeatures)
	}
	for i, name := range art.FeatureNames {
		if name != FeatureNames[i] {
			return nil, fmt.Errorf("feature %d is %q, contract expects %q", i, name, FeatureNames[i])
		}
	}

	m := &LinearModel{version: art.Version}
	if m.risk, err = newHead(art.Outputs.RiskScore, "risk_score"); err != nil {
		return nil, err
	}
	if m.er, err = newHead(art.Outputs.ERSurgePct, "er_surge_pct"); err != nil {
		return nil, err
	}
	if m.icu, err = newHead(art.Outputs.ICUSurgePct, "icu_surge_pct"); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *LinearModel) Version() string { return m.version }

func (m *LinearModel) Predict(v FeatureVector) (float64, float64, float64, error) {
	x := mat.NewVecDense(NumFeatures, v[:])
	return m.risk.eval(x), m.er.eval(x), m.icu.eval(x), nil
}
