package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilal-qadir123/AI-Diet-App/nutrition"
)

func execute(t *testing.T, args ...string) (nutrition.Plan, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()

	var plan nutrition.Plan
	if err == nil {
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &plan))
	}
	return plan, stderr.String(), err
}

func TestNutriplan_Maintenance(t *testing.T) {
	plan, _, err := execute(t,
		"--age", "25", "--gender", "male", "--weight", "80", "--height", "180",
		"--activity", "moderately active")
	require.NoError(t, err)

	assert.Equal(t, 2798, plan.CalorieTarget)
	assert.Equal(t, 0, plan.TimeFrameWeeks)
	assert.Equal(t, 3.25, plan.WaterL)
	assert.Empty(t, plan.Flags)
}

func TestNutriplan_WeightLoss(t *testing.T) {
	plan, _, err := execute(t,
		"--age", "40", "--gender", "male", "--weight", "100", "--height", "180",
		"--activity", "lightly active", "--goal", "weight loss", "--target", "85")
	require.NoError(t, err)

	assert.Equal(t, 1966, plan.CalorieTarget)
	assert.Equal(t, 24, plan.TimeFrameWeeks)
}

func TestNutriplan_VerboseLogsToStderr(t *testing.T) {
	_, stderr, err := execute(t,
		"-v", "--age", "16", "--gender", "male", "--weight", "60", "--height", "175")
	require.NoError(t, err)

	assert.Contains(t, stderr, "bmr")
	assert.Contains(t, stderr, nutrition.FlagMinorUser)
}

func TestNutriplan_Errors(t *testing.T) {
	cases := map[string][]string{
		"missing weight":  {"--age", "30", "--height", "170"},
		"bad goal":        {"--age", "30", "--weight", "70", "--height", "170", "--goal", "shred"},
		"zero height":     {"--age", "30", "--weight", "70", "--height", "0"},
		"negative age":    {"--age=-1", "--weight", "70", "--height", "170"},
		"negative target": {"--age", "30", "--weight", "70", "--height", "170", "--target=-5"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := execute(t, args...)
			assert.Error(t, err)
		})
	}
}
