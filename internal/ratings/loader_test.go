package ratings

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDiscardsHeader(t *testing.T) {
	input := "Type of Program,Hour 6,Hour 7,Hour 8\n" +
		"news,0.1,0.2,0.3\n" +
		"live_soccer, 0.05 ,0.4,0.6\n"

	table, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"news", "live_soccer"}, table.Programs())
	got, ok := table.Rating("live_soccer", 0)
	require.True(t, ok)
	assert.Equal(t, 0.05, got)
	got, _ = table.Rating("news", 4)
	assert.Equal(t, 0.2, got)
}

func TestParseRejectsNonNumericRating(t *testing.T) {
	input := "program,r0,r1\n" +
		"A,3,1\n" +
		"B,2,abc\n"

	_, err := Parse(strings.NewReader(input))
	var dfe *DataFormatError
	require.True(t, errors.As(err, &dfe))
	assert.Equal(t, 3, dfe.Line)
	assert.Equal(t, 3, dfe.Column)
}

func TestParseRejectsEmptyTable(t *testing.T) {
	for name, input := range map[string]string{
		"no rows":     "",
		"header only": "program,r0\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(input))
			var dfe *DataFormatError
			require.True(t, errors.As(err, &dfe))
			assert.ErrorIs(t, err, ErrEmptyProgramSet)
		})
	}
}

func TestParseReportsFileLineOfInvalidProgram(t *testing.T) {
	input := "program,r0\n" +
		"A,1\n" +
		"A,2\n"

	_, err := Parse(strings.NewReader(input))
	var dfe *DataFormatError
	require.True(t, errors.As(err, &dfe))
	assert.Equal(t, 3, dfe.Line)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ratings.csv")
	require.NoError(t, os.WriteFile(path, []byte("program,r0,r1\nA,3,1\nB,2,4\n"), 0o644))

	table, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
