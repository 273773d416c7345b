package sim

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// annealingEpsilon keeps ln(total+1+annealingEpsilon) positive when no arm has
// been pulled yet.
const annealingEpsilon = 1e-7

// Softmax samples arms in proportion to exp(value/temperature).
// Higher temperatures give more uniform (explorative) selection.
type Softmax struct {
	armEstimates
	temperature float64
	rng         *rand.Rand
}

// NewSoftmax returns a Softmax solver with a fixed, positive, finite temperature.
func NewSoftmax(temperature float64, rng *rand.Rand) (*Softmax, error) {
	if math.IsNaN(temperature) || math.IsInf(temperature, 0) || temperature <= 0 {
		return nil, fmt.Errorf("temperature must be positive and finite, got %v: %w", temperature, ErrInvalidConfig)
	}
	if rng == nil {
		return nil, fmt.Errorf("softmax: nil rng: %w", ErrInvalidConfig)
	}
	return &Softmax{temperature: temperature, rng: rng}, nil
}

func (s *Softmax) Name() string { return SolverSoftmax }

func (s *Softmax) SelectArm() (int, error) {
	if err := s.checkInitialized("SelectArm"); err != nil {
		return 0, err
	}
	return categoricalDraw(s.rng, SoftmaxProbabilities(s.values, s.temperature)), nil
}

// AnnealingSoftmax is Softmax with temperature 1/ln(t + 1 + 1e-7), where t is the
// number of pulls so far. The temperature falls as trials accumulate, shifting the
// policy from exploration toward exploitation.
type AnnealingSoftmax struct {
	armEstimates
	rng *rand.Rand
}

// NewAnnealingSoftmax returns an AnnealingSoftmax solver.
func NewAnnealingSoftmax(rng *rand.Rand) (*AnnealingSoftmax, error) {
	if rng == nil {
		return nil, fmt.Errorf("annealing-softmax: nil rng: %w", ErrInvalidConfig)
	}
	return &AnnealingSoftmax{rng: rng}, nil
}

func (s *AnnealingSoftmax) Name() string { return SolverAnnealingSoftmax }

// CurrentTemperature returns the temperature the next SelectArm will use.
func (s *AnnealingSoftmax) CurrentTemperature() float64 {
	return annealedTemperature(s.totalCounts())
}

func (s *AnnealingSoftmax) SelectArm() (int, error) {
	if err := s.checkInitialized("SelectArm"); err != nil {
		return 0, err
	}
	temperature := annealedTemperature(s.totalCounts())
	return categoricalDraw(s.rng, SoftmaxProbabilities(s.values, temperature)), nil
}

func annealedTemperature(totalCounts int) float64 {
	return 1 / math.Log(float64(totalCounts)+1+annealingEpsilon)
}

// SoftmaxProbabilities returns exp(v_i/T) / Σ_j exp(v_j/T).
// The maximum is subtracted before dividing by T, so every exponent is <= 0 and
// the leader's term is exactly 1; tiny temperatures and large values stay finite.
func SoftmaxProbabilities(values []float64, temperature float64) []float64 {
	probs := make([]float64, len(values))
	if len(values) == 0 {
		return probs
	}
	copy(probs, values)
	floats.AddConst(-floats.Max(probs), probs)
	for i, v := range probs {
		probs[i] = math.Exp(v / temperature)
	}
	floats.Scale(1/floats.Sum(probs), probs)
	return probs
}

// categoricalDraw returns the smallest index whose cumulative probability exceeds
// a uniform draw. If rounding leaves the draw unmet, the last index is returned.
func categoricalDraw(rng *rand.Rand, probs []float64) int {
	z := rng.Float64()
	cumProb := 0.0
	for i, p := range probs {
		cumProb += p
		if cumProb > z {
			return i
		}
	}
	return len(probs) - 1
}
