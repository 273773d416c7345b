package sim

import (
	"fmt"
	"math"
)

// UCB1 picks the arm with the highest upper confidence bound
// values[i] + sqrt(2 ln(total) / counts[i]) after trying every arm once.
//
// UCB1 assumes rewards in [0,1]. Update rejects anything else, and the Harness
// refuses arms whose support is wider (see RewardBounded).
type UCB1 struct {
	armEstimates
}

// NewUCB1 returns a UCB1 solver. The arm count is supplied to Initialize.
func NewUCB1() *UCB1 {
	return &UCB1{}
}

func (s *UCB1) Name() string { return SolverUCB1 }

// RewardBounds implements RewardBounded.
func (s *UCB1) RewardBounds() (float64, float64) { return 0, 1 }

func (s *UCB1) SelectArm() (int, error) {
	if err := s.checkInitialized("SelectArm"); err != nil {
		return 0, err
	}
	for arm, c := range s.counts {
		if c == 0 {
			return arm, nil
		}
	}
	total := float64(s.totalCounts())
	ucb := make([]float64, len(s.counts))
	for arm, c := range s.counts {
		bonus := math.Sqrt(2 * math.Log(total) / float64(c))
		ucb[arm] = s.values[arm] + bonus
	}
	return argmax(ucb), nil
}

func (s *UCB1) Update(chosenArm int, reward float64) error {
	if err := s.checkInitialized("Update"); err != nil {
		return err
	}
	if err := s.checkArm(chosenArm); err != nil {
		return err
	}
	if reward < 0 || reward > 1 {
		return fmt.Errorf("ucb1: reward %v outside [0, 1]: %w", reward, ErrInvalidConfig)
	}
	return s.armEstimates.Update(chosenArm, reward)
}
