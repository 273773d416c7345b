package sim

import (
	"fmt"
	"math"
)

// Solver selects arms and learns from the rewards they pay.
//
// Initialize must be called before SelectArm or Update, and again at the start of
// every independent simulation. Implementations are not safe for concurrent use.
type Solver interface {
	// Name returns the registered solver type name.
	Name() string
	// Initialize resets per-arm counts and value estimates for nArms arms.
	Initialize(nArms int) error
	// SelectArm returns the next arm index in [0, nArms).
	SelectArm() (int, error)
	// Update records that chosenArm paid reward.
	Update(chosenArm int, reward float64) error
	// Counts returns a copy of the per-arm selection counts.
	Counts() []int
	// Values returns a copy of the per-arm running mean rewards.
	Values() []float64
}

// RewardBounded is implemented by solvers that assume rewards lie in a fixed
// interval. The Harness refuses arms whose support escapes it.
type RewardBounded interface {
	RewardBounds() (lo, hi float64)
}

// armEstimates is the state shared by every solver: how often each arm was chosen
// and the running mean of its rewards.
type armEstimates struct {
	counts []int
	values []float64
}

func (e *armEstimates) Initialize(nArms int) error {
	if nArms < 1 {
		return fmt.Errorf("initialize: need at least one arm, got %d: %w", nArms, ErrInvalidConfig)
	}
	e.counts = make([]int, nArms)
	e.values = make([]float64, nArms)
	return nil
}

func (e *armEstimates) initialized() bool {
	return e.counts != nil
}

func (e *armEstimates) checkInitialized(op string) error {
	if !e.initialized() {
		return fmt.Errorf("%s called before Initialize: %w", op, ErrInvalidState)
	}
	return nil
}

func (e *armEstimates) checkArm(arm int) error {
	if arm < 0 || arm >= len(e.counts) {
		return fmt.Errorf("update: arm %d not in [0, %d): %w", arm, len(e.counts), ErrOutOfRange)
	}
	return nil
}

// Update applies the exact incremental mean:
// new = ((n-1)/n)*old + (1/n)*reward, with n the post-increment count.
func (e *armEstimates) Update(chosenArm int, reward float64) error {
	if err := e.checkInitialized("Update"); err != nil {
		return err
	}
	if err := e.checkArm(chosenArm); err != nil {
		return err
	}
	if math.IsNaN(reward) || math.IsInf(reward, 0) {
		return fmt.Errorf("update: reward must be finite, got %v: %w", reward, ErrInvalidConfig)
	}
	e.counts[chosenArm]++
	n := float64(e.counts[chosenArm])
	e.values[chosenArm] = ((n-1)/n)*e.values[chosenArm] + (1/n)*reward
	return nil
}

func (e *armEstimates) Counts() []int {
	return append([]int(nil), e.counts...)
}

func (e *armEstimates) Values() []float64 {
	return append([]float64(nil), e.values...)
}

func (e *armEstimates) totalCounts() int {
	total := 0
	for _, c := range e.counts {
		total += c
	}
	return total
}

// argmax returns the index of the largest element. Ties are broken by first
// occurrence (strict >).
func argmax(xs []float64) int {
	bestIdx := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[bestIdx] {
			bestIdx = i
		}
	}
	return bestIdx
}
