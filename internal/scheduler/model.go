package scheduler

import "fmt"

// Schedule: 一个候选排班表（染色体），第 i 个元素表示第 i 个时段播放的节目
type Schedule []string

func (s Schedule) Clone() Schedule {
	return append(Schedule(nil), s...)
}

// Chromosome: 排班表及其缓存的适应度
type Chromosome struct {
	genes   Schedule
	fitness float64
}

// 遗传算法参数
type Parameters struct {
	Generations    int32   // 迭代次数
	PopulationSize int32   // 种群大小
	EliteCount     int32   // 精英数量
	CrossoverRate  float64 // 交叉概率
	MutationRate   float64 // 变异概率
}

func DefaultParameters() *Parameters {
	return &Parameters{
		Generations:    100,
		PopulationSize: 50,
		EliteCount:     2,
		CrossoverRate:  0.8,
		MutationRate:   0.02,
	}
}

func (p *Parameters) Validate() error {
	if p.PopulationSize < 1 {
		return &InvalidParameterError{Name: "PopulationSize", Reason: fmt.Sprintf("种群大小必须大于 0，当前为 %d", p.PopulationSize)}
	}
	if p.Generations < 0 {
		return &InvalidParameterError{Name: "Generations", Reason: fmt.Sprintf("迭代次数不能为负数，当前为 %d", p.Generations)}
	}
	if p.EliteCount < 0 || p.EliteCount > p.PopulationSize {
		return &InvalidParameterError{Name: "EliteCount", Reason: fmt.Sprintf("精英数量必须在 0 到种群大小 %d 之间，当前为 %d", p.PopulationSize, p.EliteCount)}
	}
	if p.CrossoverRate < 0 || p.CrossoverRate > 1 {
		return &InvalidParameterError{Name: "CrossoverRate", Reason: fmt.Sprintf("交叉概率必须在 [0, 1] 之间，当前为 %g", p.CrossoverRate)}
	}
	if p.MutationRate < 0 || p.MutationRate > 1 {
		return &InvalidParameterError{Name: "MutationRate", Reason: fmt.Sprintf("变异概率必须在 [0, 1] 之间，当前为 %g", p.MutationRate)}
	}
	return nil
}

// recombines 表示迭代过程中是否可能发生交叉
func (p *Parameters) recombines() bool {
	return p.Generations > 0 && p.PopulationSize > p.EliteCount && p.CrossoverRate > 0
}

// 自动排班的结果
type Result struct {
	Schedule    Schedule
	Fitness     float64
	Generations int32
}

// InvalidParameterError 表示参数或者输入的排班表不满足算法的前置条件
type InvalidParameterError struct {
	Name   string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("参数 %s 非法: %s", e.Name, e.Reason)
}
