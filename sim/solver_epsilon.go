package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// EpsilonGreedy exploits the best current estimate with probability 1-epsilon and
// explores uniformly at random with probability epsilon.
type EpsilonGreedy struct {
	armEstimates
	epsilon float64
	rng     *rand.Rand
}

// NewEpsilonGreedy returns an EpsilonGreedy solver. epsilon must be in [0,1].
func NewEpsilonGreedy(epsilon float64, rng *rand.Rand) (*EpsilonGreedy, error) {
	if math.IsNaN(epsilon) || epsilon < 0 || epsilon > 1 {
		return nil, fmt.Errorf("epsilon must be in [0, 1], got %v: %w", epsilon, ErrInvalidConfig)
	}
	if rng == nil {
		return nil, fmt.Errorf("epsilon-greedy: nil rng: %w", ErrInvalidConfig)
	}
	return &EpsilonGreedy{epsilon: epsilon, rng: rng}, nil
}

func (s *EpsilonGreedy) Name() string { return SolverEpsilonGreedy }

// SelectArm always consumes one uniform draw, plus one more when exploring.
// rng.Float64() is in [0,1), so epsilon=0 never explores and epsilon=1 always does.
func (s *EpsilonGreedy) SelectArm() (int, error) {
	if err := s.checkInitialized("SelectArm"); err != nil {
		return 0, err
	}
	if s.rng.Float64() < s.epsilon {
		return s.rng.Intn(len(s.values)), nil
	}
	return argmax(s.values), nil
}
