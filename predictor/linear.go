package predictor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/satheesh067/Flight-Price-Prediction/features"
)

var ErrDimensionMismatch = errors.New("feature vector length does not match model")

// LinearModel is a regression artifact exported as intercept + weights.
// Weights follow the encoder's column order.
type LinearModel struct {
	Version   string    `yaml:"version"`
	Intercept float64   `yaml:"intercept"`
	Weights   []float64 `yaml:"weights"`
}

// LoadLinearModel reads a YAML (or JSON) artifact from path.
func LoadLinearModel(path string) (*LinearModel, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	return ParseLinearModel(raw)
}

func ParseLinearModel(raw []byte) (*LinearModel, error) {
	var m LinearModel
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	if len(m.Weights) == 0 {
		return nil, errors.New("model artifact has no weights")
	}
	if err := Finite(m.Intercept); err != nil {
		return nil, fmt.Errorf("model artifact intercept: %w", err)
	}
	for i, w := range m.Weights {
		if err := Finite(w); err != nil {
			return nil, fmt.Errorf("model artifact weight %d: %w", i, err)
		}
	}
	return &m, nil
}

func (m *LinearModel) Predict(_ context.Context, vec features.Vector) (float64, error) {
	if len(vec) != len(m.Weights) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), len(m.Weights))
	}
	return m.Intercept + floats.Dot(vec, m.Weights), nil
}
