package trace

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize_EmptyRun_ZeroValues(t *testing.T) {
	// GIVEN an empty run
	// WHEN summarized
	summary := Summarize(LabeledRecords{Label: "empty"}, 0)

	// THEN all counts are zero
	assert.Equal(t, "empty", summary.Label)
	assert.Zero(t, summary.NumSimulations)
	assert.Zero(t, summary.Horizon)
	assert.Zero(t, summary.MeanFinalCumulativeReward)
	assert.Empty(t, summary.ArmDistribution)
	assert.Empty(t, summary.Steps)
}

// twoSimRun: 2 simulations x 3 steps over arms {0, 1}.
func twoSimRun() LabeledRecords {
	return LabeledRecords{Label: "r", Records: []TrialRecord{
		{SimNumber: 1, TimeStep: 1, ChosenArm: 0, Reward: 0, CumulativeReward: 0},
		{SimNumber: 1, TimeStep: 2, ChosenArm: 1, Reward: 1, CumulativeReward: 1},
		{SimNumber: 1, TimeStep: 3, ChosenArm: 1, Reward: 1, CumulativeReward: 2},
		{SimNumber: 2, TimeStep: 1, ChosenArm: 1, Reward: 1, CumulativeReward: 1},
		{SimNumber: 2, TimeStep: 2, ChosenArm: 1, Reward: 1, CumulativeReward: 2},
		{SimNumber: 2, TimeStep: 3, ChosenArm: 0, Reward: 0, CumulativeReward: 2},
	}}
}

func TestSummarize_Shape(t *testing.T) {
	summary := Summarize(twoSimRun(), 1)
	assert.Equal(t, 2, summary.NumSimulations)
	assert.Equal(t, 3, summary.Horizon)
	require.Len(t, summary.Steps, 3)
	assert.Equal(t, map[int]int{0: 2, 1: 4}, summary.ArmDistribution)
}

func TestSummarize_StepStatistics(t *testing.T) {
	summary := Summarize(twoSimRun(), 1)

	// step 1: rewards {0,1}, cumulative {0,1}, best arm chosen once of two
	assert.InDelta(t, 0.5, summary.Steps[0].MeanReward, 1e-12)
	assert.InDelta(t, 0.5, summary.Steps[0].MeanCumulativeReward, 1e-12)
	assert.InDelta(t, 0.5, summary.Steps[0].BestArmRate, 1e-12)

	// step 2: both chose arm 1
	assert.InDelta(t, 1.0, summary.Steps[1].BestArmRate, 1e-12)
	assert.InDelta(t, 1.5, summary.Steps[1].MeanCumulativeReward, 1e-12)

	// final step: cumulative {2,2}
	assert.InDelta(t, 2.0, summary.MeanFinalCumulativeReward, 1e-12)
	assert.InDelta(t, 0.0, summary.StdFinalCumulativeReward, 1e-12)
	assert.InDelta(t, 0.5, summary.FinalBestArmRate, 1e-12)
}

func TestSummarize_FinalRewardStdDev(t *testing.T) {
	run := LabeledRecords{Records: []TrialRecord{
		{SimNumber: 1, TimeStep: 1, Reward: 1, CumulativeReward: 1},
		{SimNumber: 2, TimeStep: 1, Reward: 0, CumulativeReward: 0},
		{SimNumber: 3, TimeStep: 1, Reward: 1, CumulativeReward: 1},
		{SimNumber: 4, TimeStep: 1, Reward: 0, CumulativeReward: 0},
	}}
	summary := Summarize(run, -1)
	assert.InDelta(t, 0.5, summary.MeanFinalCumulativeReward, 1e-12)
	// unbiased sample standard deviation of {1,0,1,0}
	assert.InDelta(t, math.Sqrt(1.0/3), summary.StdFinalCumulativeReward, 1e-12)
}

func TestSummarize_UnknownBestArm_ZeroRates(t *testing.T) {
	summary := Summarize(twoSimRun(), -1)
	for _, s := range summary.Steps {
		assert.Zero(t, s.BestArmRate)
	}
	assert.Zero(t, summary.FinalBestArmRate)
}

func TestSummarize_SingleSimulation_StdDevIsZero(t *testing.T) {
	run := LabeledRecords{Records: []TrialRecord{
		{SimNumber: 1, TimeStep: 1, Reward: 1, CumulativeReward: 1},
	}}
	summary := Summarize(run, 0)
	assert.False(t, math.IsNaN(summary.StdFinalCumulativeReward))
	assert.Zero(t, summary.StdFinalCumulativeReward)
}

func TestSummarize_IgnoresNonPositiveTimeSteps(t *testing.T) {
	// GIVEN records built by hand with invalid time steps
	run := LabeledRecords{Records: []TrialRecord{
		{SimNumber: 1, TimeStep: 0, ChosenArm: 0, Reward: 1, CumulativeReward: 1},
		{SimNumber: 1, TimeStep: -3, ChosenArm: 0, Reward: 1, CumulativeReward: 1},
	}}

	// THEN nothing is counted and nothing panics
	summary := Summarize(run, 0)
	assert.Zero(t, summary.Horizon)
	assert.Empty(t, summary.Steps)

	// AND valid records alongside them are still summarized
	run.Records = append(run.Records, TrialRecord{SimNumber: 1, TimeStep: 1, ChosenArm: 0, Reward: 1, CumulativeReward: 1})
	summary = Summarize(run, 0)
	assert.Equal(t, 1, summary.Horizon)
	assert.Equal(t, map[int]int{0: 1}, summary.ArmDistribution)
	assert.InDelta(t, 1.0, summary.FinalBestArmRate, 1e-12)
}
