package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// Arm is a reward source.
type Arm interface {
	// Draw returns one reward sample. The only side effect is consuming rng.
	Draw(rng *rand.Rand) float64
	// Mean returns the expected reward.
	Mean() float64
	// Support returns the closed interval every Draw falls in.
	Support() (lo, hi float64)
}

// BernoulliArm pays 1.0 with probability p and 0.0 otherwise.
type BernoulliArm struct {
	p float64
}

// NewBernoulliArm returns an arm with success probability p in [0,1].
func NewBernoulliArm(p float64) (*BernoulliArm, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return nil, fmt.Errorf("bernoulli arm: p must be in [0, 1], got %v: %w", p, ErrInvalidConfig)
	}
	return &BernoulliArm{p: p}, nil
}

// Draw succeeds iff a uniform draw in [0,1) is <= p.
func (a *BernoulliArm) Draw(rng *rand.Rand) float64 {
	if rng.Float64() > a.p {
		return 0.0
	}
	return 1.0
}

func (a *BernoulliArm) Mean() float64 { return a.p }

func (a *BernoulliArm) Support() (float64, float64) { return 0, 1 }

// GaussianArm pays normally distributed rewards.
type GaussianArm struct {
	mean, stdDev float64
}

// NewGaussianArm returns an arm drawing from N(mean, stdDev^2).
func NewGaussianArm(mean, stdDev float64) (*GaussianArm, error) {
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return nil, fmt.Errorf("gaussian arm: mean must be finite, got %v: %w", mean, ErrInvalidConfig)
	}
	if math.IsNaN(stdDev) || math.IsInf(stdDev, 0) || stdDev < 0 {
		return nil, fmt.Errorf("gaussian arm: std_dev must be finite and non-negative, got %v: %w", stdDev, ErrInvalidConfig)
	}
	return &GaussianArm{mean: mean, stdDev: stdDev}, nil
}

func (a *GaussianArm) Draw(rng *rand.Rand) float64 {
	return rng.NormFloat64()*a.stdDev + a.mean
}

func (a *GaussianArm) Mean() float64 { return a.mean }

func (a *GaussianArm) Support() (float64, float64) {
	if a.stdDev == 0 {
		return a.mean, a.mean
	}
	return math.Inf(-1), math.Inf(1)
}

// ConstantArm always pays the same reward and consumes no randomness.
type ConstantArm struct {
	value float64
}

// NewConstantArm returns an arm that always pays value.
func NewConstantArm(value float64) (*ConstantArm, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil, fmt.Errorf("constant arm: value must be finite, got %v: %w", value, ErrInvalidConfig)
	}
	return &ConstantArm{value: value}, nil
}

func (a *ConstantArm) Draw(_ *rand.Rand) float64 { return a.value }

func (a *ConstantArm) Mean() float64 { return a.value }

func (a *ConstantArm) Support() (float64, float64) { return a.value, a.value }

// ArmSpec parameterizes a reward distribution.
type ArmSpec struct {
	Type   string             `yaml:"type" validate:"required,oneof=bernoulli gaussian constant"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// requireParam checks that all required keys exist in a params map.
func requireParam(params map[string]float64, keys ...string) error {
	for _, k := range keys {
		if _, ok := params[k]; !ok {
			return fmt.Errorf("arm requires parameter %q: %w", k, ErrInvalidConfig)
		}
	}
	return nil
}

// NewArm creates an Arm from an ArmSpec.
func NewArm(spec ArmSpec) (Arm, error) {
	switch spec.Type {
	case "bernoulli":
		if err := requireParam(spec.Params, "p"); err != nil {
			return nil, err
		}
		return NewBernoulliArm(spec.Params["p"])

	case "gaussian":
		if err := requireParam(spec.Params, "mean", "std_dev"); err != nil {
			return nil, err
		}
		return NewGaussianArm(spec.Params["mean"], spec.Params["std_dev"])

	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		return NewConstantArm(spec.Params["value"])

	default:
		return nil, fmt.Errorf("unknown arm type %q: %w", spec.Type, ErrInvalidConfig)
	}
}

// BernoulliArms builds one BernoulliArm per mean, in order.
func BernoulliArms(means []float64) ([]Arm, error) {
	arms := make([]Arm, len(means))
	for i, mu := range means {
		a, err := NewBernoulliArm(mu)
		if err != nil {
			return nil, fmt.Errorf("arm %d: %w", i, err)
		}
		arms[i] = a
	}
	return arms, nil
}

// BestArm returns the index of the arm with the highest mean.
// Ties are broken by first occurrence. Returns -1 for an empty slice.
func BestArm(arms []Arm) int {
	best := -1
	bestMean := math.Inf(-1)
	for i, a := range arms {
		if m := a.Mean(); best == -1 || m > bestMean {
			best, bestMean = i, m
		}
	}
	return best
}
