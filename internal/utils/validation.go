package utils

import (
	"fmt"
	"math"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/ratings"
)

// ValidateSchedulingResultWithRatingTable 检查排班结果是否与评分表对得上
//
// 排班表中允许出现重复的节目，但每个节目都必须在评分表中，长度必须等于节目数量，总评分必须与重新计算的结果一致
func ValidateSchedulingResultWithRatingTable(result *domain.SchedulingResult, table *ratings.Table) error {
	if len(result.Schedule) != table.Len() {
		return fmt.Errorf("排班表长度 %d 与节目数量 %d 不一致", len(result.Schedule), table.Len())
	}

	total := 0.0
	for slot, program := range result.Schedule {
		rating, ok := table.Rating(program, slot)
		if !ok {
			return fmt.Errorf("第 %d 个时段的节目 %s 不在评分表中", slot, program)
		}
		total += rating
	}

	if math.Abs(total-result.TotalRating) > 1e-6 {
		return fmt.Errorf("总评分 %.2f 与重新计算的结果 %.2f 不一致", result.TotalRating, total)
	}

	for i, slot := range result.Slots {
		if i >= len(result.Schedule) || slot.Program != result.Schedule[i] {
			return fmt.Errorf("时段 %s 的节目与排班表不一致", slot.TimeSlot)
		}
	}

	return nil
}

// ValidateGARates 检查交叉概率和变异概率是否在界面允许的范围内
func ValidateGARates(crossoverRate float64, mutationRate float64) error {
	if crossoverRate < 0 || crossoverRate > 0.95 {
		return fmt.Errorf("交叉概率必须在 0 到 0.95 之间")
	}
	if mutationRate < 0.01 || mutationRate > 0.05 {
		return fmt.Errorf("变异概率必须在 0.01 到 0.05 之间")
	}
	return nil
}
