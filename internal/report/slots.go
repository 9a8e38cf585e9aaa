package report

import (
	"fmt"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
)

// TimeSlots 生成 [startHour, endHour) 中每个整点的时段标签，例如 "6:00"
func TimeSlots(startHour int, endHour int) []string {
	if endHour <= startHour {
		return []string{}
	}

	slots := make([]string, 0, endHour-startHour)
	for hour := startHour; hour < endHour; hour++ {
		slots = append(slots, fmt.Sprintf("%d:00", hour))
	}
	return slots
}

// Assign 将排班表依次对应到时段上，只保留两者中较短的部分
func Assign(schedule []string, slots []string) []domain.SchedulingResultSlot {
	n := min(len(schedule), len(slots))

	res := make([]domain.SchedulingResultSlot, n)
	for i := 0; i < n; i++ {
		res[i] = domain.SchedulingResultSlot{
			TimeSlot: slots[i],
			Program:  schedule[i],
		}
	}
	return res
}

func FormatRating(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
