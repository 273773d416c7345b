package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/bandit-sim/sim/trace"
)

func sampleRuns() []trace.LabeledRecords {
	return []trace.LabeledRecords{{Label: "0.1", Records: []trace.TrialRecord{
		{SimNumber: 1, TimeStep: 1, ChosenArm: 1, Reward: 1, CumulativeReward: 1},
		{SimNumber: 1, TimeStep: 2, ChosenArm: 0, Reward: 0, CumulativeReward: 1},
	}}}
}

func TestWriteResults_FileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.tsv")
	require.NoError(t, writeResults(path, sampleRuns()))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := trace.ReadTSV(f)
	require.NoError(t, err)
	assert.Equal(t, sampleRuns(), got)
}

func TestWriteResults_BadPath(t *testing.T) {
	err := writeResults(filepath.Join(t.TempDir(), "missing", "out.tsv"), sampleRuns())
	assert.Error(t, err)
}

func TestPrintSummaries_HeaderAndJSON(t *testing.T) {
	// GIVEN one run summarized with arm 1 as best
	var buf bytes.Buffer
	printSummaries(&buf, sampleRuns(), 1, false)
	out := buf.String()

	// THEN the header precedes a JSON array of summaries
	require.True(t, strings.HasPrefix(out, "=== Run Summaries ===\n"))
	var summaries []trace.RunSummary
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(out, "=== Run Summaries ===\n")), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "0.1", summaries[0].Label)
	assert.Equal(t, 1, summaries[0].NumSimulations)
	assert.Equal(t, 2, summaries[0].Horizon)
	assert.Empty(t, summaries[0].Steps, "steps are omitted unless requested")
}

func TestPrintSummaries_WithSteps(t *testing.T) {
	var buf bytes.Buffer
	printSummaries(&buf, sampleRuns(), 1, true)
	var summaries []trace.RunSummary
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(buf.String(), "=== Run Summaries ===\n")), &summaries))
	assert.Len(t, summaries[0].Steps, 2)
}
