package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
)

func TestTimeSlotsCoverDailyRange(t *testing.T) {
	slots := TimeSlots(6, 24)
	assert.Len(t, slots, 18)
	assert.Equal(t, "6:00", slots[0])
	assert.Equal(t, "23:00", slots[len(slots)-1])
	assert.Empty(t, TimeSlots(10, 10))
}

func TestAssignTruncatesToShorter(t *testing.T) {
	slots := TimeSlots(6, 9)

	got := Assign([]string{"A", "B", "C", "D"}, slots)
	assert.Equal(t, []domain.SchedulingResultSlot{
		{TimeSlot: "6:00", Program: "A"},
		{TimeSlot: "7:00", Program: "B"},
		{TimeSlot: "8:00", Program: "C"},
	}, got)

	got = Assign([]string{"A"}, slots)
	assert.Len(t, got, 1)
}

func TestFormatRating(t *testing.T) {
	assert.Equal(t, "7.00", FormatRating(7))
	assert.Equal(t, "3.14", FormatRating(3.14159))
}

func TestRenderTableContainsRows(t *testing.T) {
	out := RenderTable([]domain.SchedulingResultSlot{
		{TimeSlot: "6:00", Program: "news"},
		{TimeSlot: "7:00", Program: "live_soccer"},
	}, 1.5)

	for _, want := range []string{"Time Slot", "Program", "6:00", "news", "live_soccer", "Total Ratings: 1.50"} {
		assert.True(t, strings.Contains(out, want), "missing %q in\n%s", want, out)
	}
}

func TestRenderTableUsesRoundedBorderInSlotOrder(t *testing.T) {
	out := RenderTable([]domain.SchedulingResultSlot{
		{TimeSlot: "6:00", Program: "news"},
		{TimeSlot: "7:00", Program: "movie"},
		{TimeSlot: "8:00", Program: "documentary"},
	}, 0)

	assert.Contains(t, out, "╭")
	assert.Contains(t, out, "╯")

	news := strings.Index(out, "news")
	movie := strings.Index(out, "movie")
	documentary := strings.Index(out, "documentary")
	assert.Less(t, strings.Index(out, "Time Slot"), news)
	assert.Less(t, news, movie)
	assert.Less(t, movie, documentary)

	// 每个时段单独一行
	lines := strings.Split(out, "\n")
	for _, program := range []string{"news", "movie", "documentary"} {
		n := 0
		for _, line := range lines {
			if strings.Contains(line, program) {
				n++
			}
		}
		assert.Equal(t, 1, n, program)
	}
}

func TestRenderTableWithoutSlots(t *testing.T) {
	out := RenderTable(nil, 0)
	assert.Contains(t, out, "Time Slot")
	assert.Contains(t, out, "Total Ratings: 0.00")
}
