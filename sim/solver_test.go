package sim

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }

// allSolvers returns one instance of every solver type, each on its own RNG.
func allSolvers(t *testing.T) map[string]Solver {
	t.Helper()
	configs := []SolverConfig{
		{Type: SolverEpsilonGreedy, Epsilon: float64Ptr(0.1)},
		{Type: SolverSoftmax, Temperature: float64Ptr(0.2)},
		{Type: SolverAnnealingSoftmax},
		{Type: SolverUCB1},
	}
	solvers := make(map[string]Solver, len(configs))
	for _, cfg := range configs {
		s, err := NewSolver(cfg, rand.New(rand.NewSource(42)))
		require.NoError(t, err)
		solvers[cfg.Type] = s
	}
	return solvers
}

func TestSolvers_RejectCallsBeforeInitialize(t *testing.T) {
	for name, s := range allSolvers(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.SelectArm()
			assert.ErrorIs(t, err, ErrInvalidState)
			assert.ErrorIs(t, s.Update(0, 1), ErrInvalidState)
		})
	}
}

func TestSolvers_InitializeRejectsZeroArms(t *testing.T) {
	for name, s := range allSolvers(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, s.Initialize(0), ErrInvalidConfig)
			assert.ErrorIs(t, s.Initialize(-3), ErrInvalidConfig)
		})
	}
}

func TestSolvers_UpdateRejectsOutOfRangeArm(t *testing.T) {
	for name, s := range allSolvers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Initialize(3))
			assert.ErrorIs(t, s.Update(-1, 1), ErrOutOfRange)
			assert.ErrorIs(t, s.Update(3, 1), ErrOutOfRange)
			assert.Equal(t, []int{0, 0, 0}, s.Counts(), "rejected updates must not change state")
		})
	}
}

func TestSolvers_InitializeResetsState(t *testing.T) {
	for name, s := range allSolvers(t) {
		t.Run(name, func(t *testing.T) {
			// GIVEN a solver with history
			require.NoError(t, s.Initialize(2))
			require.NoError(t, s.Update(0, 1))
			require.NoError(t, s.Update(1, 0.5))

			// WHEN re-initialized with a different arm count
			require.NoError(t, s.Initialize(4))

			// THEN counts and values are zeroed at the new length
			assert.Equal(t, []int{0, 0, 0, 0}, s.Counts())
			assert.Equal(t, []float64{0, 0, 0, 0}, s.Values())
		})
	}
}

func TestSolvers_SelectArmInRange(t *testing.T) {
	for name, s := range allSolvers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Initialize(5))
			rng := rand.New(rand.NewSource(7))
			for i := 0; i < 500; i++ {
				arm, err := s.SelectArm()
				require.NoError(t, err)
				require.True(t, arm >= 0 && arm < 5, "arm %d out of range", arm)
				require.NoError(t, s.Update(arm, float64(rng.Intn(2))))
			}
		})
	}
}

func TestSolvers_CountsSumToUpdates(t *testing.T) {
	// GIVEN any solver and k updates
	for name, s := range allSolvers(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.Initialize(4))
			rng := rand.New(rand.NewSource(11))
			for k := 1; k <= 200; k++ {
				arm, err := s.SelectArm()
				require.NoError(t, err)
				require.NoError(t, s.Update(arm, rng.Float64()))

				// THEN sum(counts) == k after every update
				total := 0
				for _, c := range s.Counts() {
					total += c
				}
				require.Equal(t, k, total)
			}
		})
	}
}

func TestArmEstimates_IncrementalMeanIsExact(t *testing.T) {
	// GIVEN rewards r_1..r_n applied to the same arm
	rewards := []float64{0.3, 1, 0, 0.75, 0.1, 0.9, 0.9, 0.2, 0.05, 1}
	var e armEstimates
	require.NoError(t, e.Initialize(3))

	sum := 0.0
	for i, r := range rewards {
		require.NoError(t, e.Update(1, r))
		sum += r

		// THEN values[arm] == average(r_1..r_i) within tolerance
		want := sum / float64(i+1)
		if got := e.Values()[1]; math.Abs(got-want) > 1e-12 {
			t.Errorf("after %d rewards: value = %v, want %v", i+1, got, want)
		}
	}
	assert.Equal(t, []int{0, len(rewards), 0}, e.Counts())
	assert.Equal(t, 0.0, e.Values()[0], "other arms untouched")
}

func TestArmEstimates_RejectsNonFiniteReward(t *testing.T) {
	var e armEstimates
	require.NoError(t, e.Initialize(1))
	assert.ErrorIs(t, e.Update(0, math.NaN()), ErrInvalidConfig)
	assert.ErrorIs(t, e.Update(0, math.Inf(1)), ErrInvalidConfig)
	assert.Equal(t, []int{0}, e.Counts())
}

func TestArmEstimates_AccessorsReturnCopies(t *testing.T) {
	var e armEstimates
	require.NoError(t, e.Initialize(2))
	counts, values := e.Counts(), e.Values()
	counts[0], values[0] = 99, 99
	assert.Equal(t, []int{0, 0}, e.Counts())
	assert.Equal(t, []float64{0, 0}, e.Values())
}

func TestArgmax_TiesToFirst(t *testing.T) {
	assert.Equal(t, 0, argmax([]float64{0, 0, 0}))
	assert.Equal(t, 1, argmax([]float64{0.1, 0.5, 0.5}))
	assert.Equal(t, 2, argmax([]float64{-3, -2, -1}))
}
