// Package trace holds the trial records a simulation run produces, their
// tab-separated encoding, and aggregate summaries over them.
// This package has no dependencies on sim/: it stores pure data types.
package trace

// TrialRecord captures one (simulation, time step) of a run.
type TrialRecord struct {
	SimNumber        int     // 1-based simulation index
	TimeStep         int     // 1-based step within the horizon
	ChosenArm        int     // arm index selected by the solver
	Reward           float64 // reward the arm paid
	CumulativeReward float64 // running sum within this simulation
}

// LabeledRecords is the output of one run, tagged with the label that identifies
// its configuration (e.g. the temperature of a sweep point).
type LabeledRecords struct {
	Label   string
	Records []TrialRecord
}
