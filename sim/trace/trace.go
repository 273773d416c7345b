package trace

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// tsvFields is the number of columns per row: label, sim, step, arm, reward, cumulative.
const tsvFields = 6

// WriteTSV writes one row per record: label, sim number, time step, chosen arm,
// reward, cumulative reward.
func WriteTSV(w io.Writer, runs ...LabeledRecords) error {
	bw := bufio.NewWriter(w)
	cw := csv.NewWriter(bw)
	cw.Comma = '\t'
	row := make([]string, tsvFields)
	for _, run := range runs {
		for _, r := range run.Records {
			row[0] = run.Label
			row[1] = strconv.Itoa(r.SimNumber)
			row[2] = strconv.Itoa(r.TimeStep)
			row[3] = strconv.Itoa(r.ChosenArm)
			row[4] = formatFloat(r.Reward)
			row[5] = formatFloat(r.CumulativeReward)
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("writing trace row: %w", err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	return bw.Flush()
}

// ReadTSV parses rows written by WriteTSV, grouping every row with the same label
// into one run wherever it appears. Runs are returned in the order their labels
// were first seen.
func ReadTSV(r io.Reader) ([]LabeledRecords, error) {
	cr := csv.NewReader(bufio.NewReader(r))
	cr.Comma = '\t'
	cr.FieldsPerRecord = tsvFields
	cr.ReuseRecord = true

	var runs []LabeledRecords
	index := make(map[string]int)
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("reading trace: %w", err)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("trace line %d: %w", line, err)
		}
		i, ok := index[row[0]]
		if !ok {
			i = len(runs)
			index[row[0]] = i
			runs = append(runs, LabeledRecords{Label: row[0]})
		}
		runs[i].Records = append(runs[i].Records, rec)
	}
	return runs, nil
}

func parseRow(row []string) (TrialRecord, error) {
	var rec TrialRecord
	var err error
	if rec.SimNumber, err = strconv.Atoi(row[1]); err != nil {
		return rec, fmt.Errorf("sim number: %w", err)
	}
	if rec.SimNumber < 1 {
		return rec, fmt.Errorf("sim number must be >= 1, got %d", rec.SimNumber)
	}
	if rec.TimeStep, err = strconv.Atoi(row[2]); err != nil {
		return rec, fmt.Errorf("time step: %w", err)
	}
	if rec.TimeStep < 1 {
		return rec, fmt.Errorf("time step must be >= 1, got %d", rec.TimeStep)
	}
	if rec.ChosenArm, err = strconv.Atoi(row[3]); err != nil {
		return rec, fmt.Errorf("chosen arm: %w", err)
	}
	if rec.ChosenArm < 0 {
		return rec, fmt.Errorf("chosen arm must be >= 0, got %d", rec.ChosenArm)
	}
	if rec.Reward, err = strconv.ParseFloat(row[4], 64); err != nil {
		return rec, fmt.Errorf("reward: %w", err)
	}
	if rec.CumulativeReward, err = strconv.ParseFloat(row[5], 64); err != nil {
		return rec, fmt.Errorf("cumulative reward: %w", err)
	}
	return rec, nil
}

// formatFloat uses the shortest representation that round-trips exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
