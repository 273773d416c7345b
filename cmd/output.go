package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/bandit-sim/sim/trace"
)

// writeResults writes the runs' trial records as TSV to path, or to stdout when
// path is "-".
func writeResults(path string, runs []trace.LabeledRecords) (err error) {
	if path == "-" {
		return trace.WriteTSV(os.Stdout, runs...)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, closeErr)
		}
	}()
	if err := trace.WriteTSV(file, runs...); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logrus.Infof("Wrote %d runs to %s", len(runs), path)
	return nil
}

// printSummaries writes one JSON summary per run. bestArm < 0 leaves best-arm
// rates at zero.
func printSummaries(w io.Writer, runs []trace.LabeledRecords, bestArm int, withSteps bool) {
	summaries := make([]*trace.RunSummary, len(runs))
	for i, run := range runs {
		s := trace.Summarize(run, bestArm)
		if !withSteps {
			s.Steps = nil
		}
		summaries[i] = s
	}
	data, err := json.MarshalIndent(summaries, "", "  ")
	if err != nil {
		logrus.Fatalf("Error marshalling summaries: %v", err)
	}
	fmt.Fprintln(w, "=== Run Summaries ===")
	fmt.Fprintln(w, string(data))
}

func formatLabel(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
