package report

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF")).
			Padding(0, 1)
	cellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Padding(0, 1)
	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#444444"))
	totalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4CAF50"))
)

// RenderTable 渲染排班结果表格以及总评分
func RenderTable(slots []domain.SchedulingResultSlot, totalRating float64) string {
	rows := make([][]string, 0, len(slots))
	for _, s := range slots {
		rows = append(rows, []string{s.TimeSlot, s.Program})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("Time Slot", "Program").
		Rows(rows...)

	return lipgloss.JoinVertical(lipgloss.Left,
		t.Render(),
		totalStyle.Render(fmt.Sprintf("Total Ratings: %s", FormatRating(totalRating))),
	)
}
