package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/bandit-sim/sim/trace"
)

var (
	summarizeInput string
	summarizeBest  int
	summarizeSteps bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize a TSV file written by run",
	Long:  "Read trial records written by `run` and print per-run statistics as JSON: mean and standard deviation of the final cumulative reward, arm distribution, and (with --best-arm) how often the best arm was chosen.",
	Run: func(cmd *cobra.Command, args []string) {
		file, err := os.Open(summarizeInput)
		if err != nil {
			logrus.Fatalf("Failed to open %s: %v", summarizeInput, err)
		}
		defer file.Close()

		runs, err := trace.ReadTSV(file)
		if err != nil {
			logrus.Fatalf("Failed to read %s: %v", summarizeInput, err)
		}
		if len(runs) == 0 {
			logrus.Warnf("%s contains no trial records", summarizeInput)
		}
		printSummaries(os.Stdout, runs, summarizeBest, summarizeSteps)
	},
}

func init() {
	summarizeCmd.Flags().StringVar(&summarizeInput, "input", "", "Path to TSV written by run")
	summarizeCmd.Flags().IntVar(&summarizeBest, "best-arm", -1, "Index of the best arm, for best-arm selection rates")
	summarizeCmd.Flags().BoolVar(&summarizeSteps, "steps", false, "Include per-step statistics")
	_ = summarizeCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(summarizeCmd)
}
