// Package testutil provides shared test infrastructure for the bandit simulator.
// Shared by the sim and sim/experiment test packages. sim/trace tests must not
// import it (import cycle).
package testutil

import (
	"math"
	"testing"

	"github.com/inference-sim/bandit-sim/sim/trace"
)

// AssertRecordsIdentical fails unless both sequences are bit-for-bit identical.
// Reports only the first differing record.
func AssertRecordsIdentical(t *testing.T, want, got []trace.TrialRecord) {
	t.Helper()
	if len(want) != len(got) {
		t.Fatalf("record count: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if w.SimNumber != g.SimNumber || w.TimeStep != g.TimeStep || w.ChosenArm != g.ChosenArm ||
			math.Float64bits(w.Reward) != math.Float64bits(g.Reward) ||
			math.Float64bits(w.CumulativeReward) != math.Float64bits(g.CumulativeReward) {
			t.Fatalf("record %d differs: got %+v, want %+v", i, g, w)
		}
	}
}
