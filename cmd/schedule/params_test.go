package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/scheduler"
)

func writeParams(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadParametersOverridesPresentFields(t *testing.T) {
	path := writeParams(t, "population_size: 20\nelite_count: 4\nmutation_rate: 0.05\n")

	p := scheduler.DefaultParameters()
	require.NoError(t, loadParameters(path, p))

	assert.Equal(t, int32(100), p.Generations)
	assert.Equal(t, int32(20), p.PopulationSize)
	assert.Equal(t, int32(4), p.EliteCount)
	assert.Equal(t, 0.8, p.CrossoverRate)
	assert.Equal(t, 0.05, p.MutationRate)
}

func TestLoadParametersRejectsInvalidValues(t *testing.T) {
	path := writeParams(t, "population_size: 2\nelite_count: 3\n")

	err := loadParameters(path, scheduler.DefaultParameters())
	var ipe *scheduler.InvalidParameterError
	assert.True(t, errors.As(err, &ipe))
}

func TestLoadParametersRejectsMalformedYAML(t *testing.T) {
	path := writeParams(t, "population_size: [\n")
	assert.Error(t, loadParameters(path, scheduler.DefaultParameters()))
}
