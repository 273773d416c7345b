package trace

import (
	"gonum.org/v1/gonum/stat"
)

// StepSummary aggregates one time step across all simulations of a run.
type StepSummary struct {
	TimeStep             int     `json:"time_step"`
	MeanReward           float64 `json:"mean_reward"`
	MeanCumulativeReward float64 `json:"mean_cumulative_reward"`
	BestArmRate          float64 `json:"best_arm_rate"` // fraction of simulations choosing the best arm; 0 if unknown
}

// RunSummary aggregates statistics over a run's trial records.
type RunSummary struct {
	Label                     string        `json:"label"`
	NumSimulations            int           `json:"num_simulations"`
	Horizon                   int           `json:"horizon"`
	MeanFinalCumulativeReward float64       `json:"mean_final_cumulative_reward"`
	StdFinalCumulativeReward  float64       `json:"std_final_cumulative_reward"`
	FinalBestArmRate          float64       `json:"final_best_arm_rate"`
	ArmDistribution           map[int]int   `json:"arm_distribution"` // arm index → times chosen
	Steps                     []StepSummary `json:"steps,omitempty"`
}

// Summarize computes aggregate statistics from a run's records. bestArm is the
// index of the highest-mean arm, or -1 when unknown (best-arm rates are then 0).
// Safe for nil or empty records (returns zero-value fields). Records with a time
// step below 1 are ignored.
func Summarize(run LabeledRecords, bestArm int) *RunSummary {
	summary := &RunSummary{
		Label:           run.Label,
		ArmDistribution: make(map[int]int),
	}
	if len(run.Records) == 0 {
		return summary
	}

	for _, r := range run.Records {
		if r.TimeStep < 1 {
			continue
		}
		if r.SimNumber > summary.NumSimulations {
			summary.NumSimulations = r.SimNumber
		}
		if r.TimeStep > summary.Horizon {
			summary.Horizon = r.TimeStep
		}
		summary.ArmDistribution[r.ChosenArm]++
	}
	if summary.Horizon == 0 {
		return summary
	}

	rewards := make([][]float64, summary.Horizon)
	cumulative := make([][]float64, summary.Horizon)
	bestCounts := make([]int, summary.Horizon)
	finals := make([]float64, 0, summary.NumSimulations)
	for _, r := range run.Records {
		if r.TimeStep < 1 {
			continue
		}
		step := r.TimeStep - 1
		rewards[step] = append(rewards[step], r.Reward)
		cumulative[step] = append(cumulative[step], r.CumulativeReward)
		if bestArm >= 0 && r.ChosenArm == bestArm {
			bestCounts[step]++
		}
		if r.TimeStep == summary.Horizon {
			finals = append(finals, r.CumulativeReward)
		}
	}

	summary.Steps = make([]StepSummary, summary.Horizon)
	for i := range summary.Steps {
		s := StepSummary{TimeStep: i + 1}
		if n := len(rewards[i]); n > 0 {
			s.MeanReward = stat.Mean(rewards[i], nil)
			s.MeanCumulativeReward = stat.Mean(cumulative[i], nil)
			s.BestArmRate = float64(bestCounts[i]) / float64(n)
		}
		summary.Steps[i] = s
	}

	summary.MeanFinalCumulativeReward, summary.StdFinalCumulativeReward = stat.MeanStdDev(finals, nil)
	if len(finals) < 2 {
		summary.StdFinalCumulativeReward = 0
	}
	summary.FinalBestArmRate = summary.Steps[summary.Horizon-1].BestArmRate

	return summary
}
