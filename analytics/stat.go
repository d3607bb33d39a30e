package analytics

import (
	"bytes"
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// Stat is an aggregate value. NaN means there was not enough data to compute
// it; it encodes to JSON null and decodes back from null.
type Stat float64

func NaN() Stat { return Stat(math.NaN()) }

func (s Stat) Valid() bool {
	f := float64(s)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (s Stat) Float() float64 { return float64(s) }

func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(s), 'f', -1, 64), nil
}

func (s *Stat) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*s = NaN()
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*s = Stat(f)
	return nil
}

type summary struct {
	mean, min, max, std Stat
	count               int
}

// summarize computes mean, min, max and sample (N-1) standard deviation.
// Empty input yields NaN everywhere; a single value has NaN deviation.
func summarize(xs []float64) summary {
	s := summary{mean: NaN(), min: NaN(), max: NaN(), std: NaN(), count: len(xs)}
	if len(xs) == 0 {
		return s
	}
	lo, hi := xs[0], xs[0]
	for _, x := range xs[1:] {
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	s.min, s.max = Stat(lo), Stat(hi)
	s.mean = Stat(stat.Mean(xs, nil))
	if len(xs) > 1 {
		s.std = Stat(stat.StdDev(xs, nil))
	}
	return s
}
