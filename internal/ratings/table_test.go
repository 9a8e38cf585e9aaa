package ratings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
)

func TestRatingCyclesOverSlots(t *testing.T) {
	table, err := NewTable([]domain.ProgramRating{
		{Name: "A", Ratings: []float64{3, 1}},
		{Name: "B", Ratings: []float64{2, 4, 6}},
	})
	require.NoError(t, err)

	cases := []struct {
		program string
		slot    int
		want    float64
	}{
		{"A", 0, 3},
		{"A", 1, 1},
		{"A", 2, 3},
		{"A", 5, 1},
		{"B", 3, 2},
		{"B", 7, 4},
	}
	for _, c := range cases {
		got, ok := table.Rating(c.program, c.slot)
		require.True(t, ok)
		assert.Equal(t, c.want, got, "%s@%d", c.program, c.slot)
	}

	_, ok := table.Rating("C", 0)
	assert.False(t, ok)
	assert.Equal(t, 3, table.CycleLength("B"))
	assert.Equal(t, 0, table.CycleLength("C"))
}

func TestNewTableKeepsOrderAndCopies(t *testing.T) {
	rs := []float64{1, 2}
	table, err := NewTable([]domain.ProgramRating{
		{Name: "news", Ratings: rs},
		{Name: "drama", Ratings: []float64{5}},
	})
	require.NoError(t, err)

	rs[0] = 100
	got, _ := table.Rating("news", 0)
	assert.Equal(t, 1.0, got)

	programs := table.Programs()
	assert.Equal(t, []string{"news", "drama"}, programs)
	programs[0] = "changed"
	assert.Equal(t, []string{"news", "drama"}, table.Programs())
	assert.Equal(t, 2, table.Len())
	assert.True(t, table.Has("drama"))
}

func TestNewTableRejectsMalformedInput(t *testing.T) {
	cases := map[string][]domain.ProgramRating{
		"empty":      nil,
		"no ratings": {{Name: "A"}},
		"blank name": {{Name: " ", Ratings: []float64{1}}},
		"duplicated": {{Name: "A", Ratings: []float64{1}}, {Name: "A", Ratings: []float64{2}}},
	}
	for name, programs := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewTable(programs)
			var dfe *DataFormatError
			require.True(t, errors.As(err, &dfe))
		})
	}

	_, err := NewTable(nil)
	assert.ErrorIs(t, err, ErrEmptyProgramSet)
}

func TestToDomainRoundTripsPrograms(t *testing.T) {
	in := []domain.ProgramRating{
		{Name: "A", Ratings: []float64{3, 1}},
		{Name: "B", Ratings: []float64{2, 4}},
	}
	table, err := NewTable(in)
	require.NoError(t, err)
	assert.Equal(t, in, table.ToDomain())
}
