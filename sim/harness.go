package sim

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/bandit-sim/sim/trace"
)

// HarnessConfig fixes the shape of a Monte Carlo run.
type HarnessConfig struct {
	NumSimulations int // independent simulations, each starting from a reset solver
	Horizon        int // time steps per simulation
}

// Validate checks that both dimensions are positive.
func (c HarnessConfig) Validate() error {
	if c.NumSimulations < 1 {
		return fmt.Errorf("num_simulations must be >= 1, got %d: %w", c.NumSimulations, ErrInvalidConfig)
	}
	if c.Horizon < 1 {
		return fmt.Errorf("horizon must be >= 1, got %d: %w", c.Horizon, ErrInvalidConfig)
	}
	return nil
}

// Harness drives a solver against a fixed set of arms for NumSimulations
// independent simulations of Horizon steps each.
//
// Every arm draw consumes the harness RNG. Randomized solvers should be built on
// the same *rand.Rand (see NewSolver) so that one seed reproduces the run.
//
// Thread-safety: NOT thread-safe. Run independent harnesses, each with its own
// RNG, to parallelize.
type Harness struct {
	config HarnessConfig
	rng    *rand.Rand
}

// NewHarness validates cfg and returns a Harness drawing rewards from rng.
func NewHarness(cfg HarnessConfig, rng *rand.Rand) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("harness: nil rng: %w", ErrInvalidConfig)
	}
	return &Harness{config: cfg, rng: rng}, nil
}

// Run executes every simulation for the full horizon and returns the trial records
// ordered by (simulation, time step). The solver is re-initialized at the start of
// each simulation; the cumulative reward restarts with it.
func (h *Harness) Run(solver Solver, arms []Arm) ([]trace.TrialRecord, error) {
	if err := checkArms(solver, arms); err != nil {
		return nil, err
	}

	logrus.Infof("Running %s: %d simulations x %d steps over %d arms",
		solver.Name(), h.config.NumSimulations, h.config.Horizon, len(arms))

	records := make([]trace.TrialRecord, 0, h.config.NumSimulations*h.config.Horizon)
	for sim := 1; sim <= h.config.NumSimulations; sim++ {
		if err := solver.Initialize(len(arms)); err != nil {
			return nil, fmt.Errorf("simulation %d: %w", sim, err)
		}

		cumulative := 0.0
		for t := 1; t <= h.config.Horizon; t++ {
			chosen, err := solver.SelectArm()
			if err != nil {
				return nil, fmt.Errorf("simulation %d step %d: %w", sim, t, err)
			}
			if chosen < 0 || chosen >= len(arms) {
				return nil, fmt.Errorf("simulation %d step %d: %s chose arm %d of %d: %w",
					sim, t, solver.Name(), chosen, len(arms), ErrOutOfRange)
			}

			reward := arms[chosen].Draw(h.rng)
			if t == 1 {
				cumulative = reward
			} else {
				cumulative += reward
			}

			if err := solver.Update(chosen, reward); err != nil {
				return nil, fmt.Errorf("simulation %d step %d: %w", sim, t, err)
			}

			records = append(records, trace.TrialRecord{
				SimNumber:        sim,
				TimeStep:         t,
				ChosenArm:        chosen,
				Reward:           reward,
				CumulativeReward: cumulative,
			})
		}
		logrus.Debugf("simulation %d/%d: cumulative reward %.1f", sim, h.config.NumSimulations, cumulative)
	}
	return records, nil
}

// checkArms rejects an empty arm set and arms whose rewards can fall outside the
// bounds a RewardBounded solver assumes.
func checkArms(solver Solver, arms []Arm) error {
	if len(arms) == 0 {
		return fmt.Errorf("harness: need at least one arm: %w", ErrInvalidConfig)
	}
	bounded, ok := solver.(RewardBounded)
	if !ok {
		return nil
	}
	lo, hi := bounded.RewardBounds()
	for i, a := range arms {
		armLo, armHi := a.Support()
		if armLo < lo || armHi > hi {
			return fmt.Errorf("%s assumes rewards in [%v, %v] but arm %d pays in [%v, %v]: %w",
				solver.Name(), lo, hi, i, armLo, armHi, ErrInvalidConfig)
		}
	}
	return nil
}
