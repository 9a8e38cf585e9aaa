package scheduler

import (
	"fmt"
	"math/rand"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/ratings"
)

/**
 * 计算排班表的适应度
 * fitness = Σ rating(schedule[i], i mod len(ratings(schedule[i])))
 * 不做归一化，重复出现的节目按普通节目计算
 */
func Evaluate(table *ratings.Table, schedule Schedule) (float64, error) {
	total := 0.0
	for slot, program := range schedule {
		rating, ok := table.Rating(program, slot)
		if !ok {
			return 0, &InvalidParameterError{Name: "schedule", Reason: fmt.Sprintf("节目 %s 不在评分表中", program)}
		}
		total += rating
	}
	return total, nil
}

// 单点交叉
//
// 切点在 [1, len-2] 中均匀选取，保证两个子代都同时含有两个父本的基因，因此要求长度至少为 3
// 不做修复，子代中可能出现重复的节目
func Crossover(rng *rand.Rand, p1 Schedule, p2 Schedule) (Schedule, Schedule, error) {
	if len(p1) != len(p2) {
		return nil, nil, &InvalidParameterError{Name: "schedule", Reason: fmt.Sprintf("两个父本长度不同（%d 和 %d）", len(p1), len(p2))}
	}
	if len(p1) < 3 {
		return nil, nil, &InvalidParameterError{Name: "schedule", Reason: fmt.Sprintf("交叉要求排班表长度至少为 3，当前为 %d", len(p1))}
	}

	point := 1 + rng.Intn(len(p1)-2)
	c1, c2 := crossoverAt(p1, p2, point)
	return c1, c2, nil
}

func crossoverAt(p1 Schedule, p2 Schedule, point int) (Schedule, Schedule) {
	length := len(p1)

	c1 := make(Schedule, 0, length)
	c1 = append(c1, p1[:point]...)
	c1 = append(c1, p2[point:]...)

	c2 := make(Schedule, 0, length)
	c2 = append(c2, p2[:point]...)
	c2 = append(c2, p1[point:]...)

	return c1, c2
}

// 变异
// 随机选择一个时段，替换为从全部节目中随机选出的节目（可能恰好选中原来的节目）
// 注意会直接修改传入的 schedule 并将其返回，需要保留原排班表的调用方应先复制
func Mutate(rng *rand.Rand, schedule Schedule, programs []string) Schedule {
	if len(schedule) == 0 || len(programs) == 0 {
		return schedule
	}

	point := rng.Intn(len(schedule))
	schedule[point] = programs[rng.Intn(len(programs))]
	return schedule
}
