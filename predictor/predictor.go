package predictor

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/satheesh067/Flight-Price-Prediction/config"
	"github.com/satheesh067/Flight-Price-Prediction/features"
)

// Predictor maps an encoded journey to a fare. Implementations return the
// raw model output; callers round with Round2.
type Predictor interface {
	Predict(ctx context.Context, vec features.Vector) (float64, error)
}

// Func adapts a plain function to Predictor.
type Func func(ctx context.Context, vec features.Vector) (float64, error)

func (f Func) Predict(ctx context.Context, vec features.Vector) (float64, error) {
	return f(ctx, vec)
}

var ErrNonFinite = errors.New("model output is not a finite number")

// Finite rejects NaN and infinities, which Round2 cannot represent.
func Finite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %v", ErrNonFinite, v)
	}
	return nil
}

// Round2 rounds half away from zero to two decimal places. v must be finite.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Load builds the predictor selected by cfg.Backend.
func Load(cfg config.ModelConfig) (Predictor, error) {
	switch cfg.Backend {
	case "", "linear":
		return LoadLinearModel(cfg.Path)
	case "remote":
		return NewRemote(cfg.URL, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown model backend %q", cfg.Backend)
	}
}
