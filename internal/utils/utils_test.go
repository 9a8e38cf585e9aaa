package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/ratings"
)

func TestGenerateUsernameFromChineseName(t *testing.T) {
	username := GenerateUsernameFromChineseName("王伟")
	assert.Regexp(t, regexp.MustCompile(`^w[a-z]*w[a-z]*[0-9]{1,3}$`), username)
}

func TestGenerateRandomRatingTableIsLoadable(t *testing.T) {
	rt := GenerateRandomRatingTable(12, 18)
	require.Len(t, rt.Programs, 12)

	table, err := ratings.NewTable(rt.Programs)
	require.NoError(t, err)
	assert.Equal(t, 12, table.Len())
	for _, p := range rt.Programs {
		assert.Len(t, p.Ratings, 18)
		for _, r := range p.Ratings {
			assert.GreaterOrEqual(t, r, 0.0)
			assert.LessOrEqual(t, r, 1.0)
		}
	}
}

func TestValidateSchedulingResultWithRatingTable(t *testing.T) {
	table, err := ratings.NewTable([]domain.ProgramRating{
		{Name: "A", Ratings: []float64{3, 1}},
		{Name: "B", Ratings: []float64{2, 4}},
	})
	require.NoError(t, err)

	ok := &domain.SchedulingResult{
		Schedule:    []string{"A", "B"},
		Slots:       []domain.SchedulingResultSlot{{TimeSlot: "6:00", Program: "A"}},
		TotalRating: 7,
	}
	assert.NoError(t, ValidateSchedulingResultWithRatingTable(ok, table))

	// 重复节目是允许的
	dup := &domain.SchedulingResult{Schedule: []string{"B", "B"}, TotalRating: 6}
	assert.NoError(t, ValidateSchedulingResultWithRatingTable(dup, table))

	for name, result := range map[string]*domain.SchedulingResult{
		"wrong length":  {Schedule: []string{"A"}, TotalRating: 3},
		"unknown":       {Schedule: []string{"A", "C"}, TotalRating: 3},
		"wrong total":   {Schedule: []string{"A", "B"}, TotalRating: 8},
		"slot mismatch": {Schedule: []string{"A", "B"}, TotalRating: 7, Slots: []domain.SchedulingResultSlot{{TimeSlot: "6:00", Program: "B"}}},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, ValidateSchedulingResultWithRatingTable(result, table))
		})
	}
}

func TestValidateGARates(t *testing.T) {
	assert.NoError(t, ValidateGARates(0.8, 0.02))
	assert.NoError(t, ValidateGARates(0, 0.01))
	assert.NoError(t, ValidateGARates(0.95, 0.05))
	assert.Error(t, ValidateGARates(0.96, 0.02))
	assert.Error(t, ValidateGARates(0.8, 0.005))
	assert.Error(t, ValidateGARates(0.8, 0.06))
}
