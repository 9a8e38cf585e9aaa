package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/ratings"
)

func TestBundledRatingTableIsLoadable(t *testing.T) {
	table, err := ratings.LoadFile("data/program_ratings.csv")
	require.NoError(t, err)

	assert.Equal(t, 10, table.Len())
	for _, program := range table.Programs() {
		assert.Equal(t, 18, table.CycleLength(program), program)
	}
}
