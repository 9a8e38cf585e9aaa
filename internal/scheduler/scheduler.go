package scheduler

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/ratings"
)

type Scheduler struct {
	parameters *Parameters
	table      *ratings.Table
	programs   []string // 变异时可选的全部节目
	rng        *rand.Rand
}

func New(parameters *Parameters, table *ratings.Table, rng *rand.Rand) (*Scheduler, error) {
	if parameters == nil {
		return nil, errors.New("遗传算法参数不能为空")
	}
	if rng == nil {
		return nil, errors.New("随机数生成器不能为空")
	}
	if table == nil || table.Len() == 0 {
		return nil, ratings.ErrEmptyProgramSet
	}
	if err := parameters.Validate(); err != nil {
		return nil, err
	}

	// 复制一份参数，保证运行过程中参数不会被外部修改
	p := *parameters

	return &Scheduler{
		parameters: &p,
		table:      table,
		programs:   table.Programs(),
		rng:        rng,
	}, nil
}

// Run 使用给定参数完成一次完整的自动排班
func Run(parameters *Parameters, table *ratings.Table, seed Schedule, rng *rand.Rand) (*Result, error) {
	s, err := New(parameters, table, rng)
	if err != nil {
		return nil, err
	}
	return s.Schedule(seed)
}

// RandomSchedule 将全部节目随机打乱作为初始排班表
func (s *Scheduler) RandomSchedule() Schedule {
	schedule := Schedule(append([]string{}, s.programs...))
	s.rng.Shuffle(len(schedule), func(i, j int) {
		schedule[i], schedule[j] = schedule[j], schedule[i]
	})
	return schedule
}

func (s *Scheduler) Schedule(seed Schedule) (*Result, error) {
	if err := s.validateSeed(seed); err != nil {
		return nil, err
	}

	// 生成初始种群
	pop, err := s.initPopulation(seed)
	if err != nil {
		return nil, err
	}

	// 迭代
	for gen := 0; gen < int(s.parameters.Generations); gen++ {
		next, err := s.evolve(pop)
		if err != nil {
			return nil, err
		}
		pop = next
	}

	// 返回结果，这里需要复制一份，防止外部修改种群内部的染色体
	sortByFitness(pop)
	return &Result{
		Schedule:    pop[0].genes.Clone(),
		Fitness:     pop[0].fitness,
		Generations: s.parameters.Generations,
	}, nil
}

func (s *Scheduler) validateSeed(seed Schedule) error {
	if len(seed) == 0 {
		return ratings.ErrEmptyProgramSet
	}
	for _, program := range seed {
		if !s.table.Has(program) {
			return &InvalidParameterError{Name: "seed", Reason: fmt.Sprintf("节目 %s 不在评分表中", program)}
		}
	}
	if s.parameters.recombines() && len(seed) < 3 {
		return &InvalidParameterError{Name: "seed", Reason: fmt.Sprintf("交叉要求排班表长度至少为 3，当前为 %d", len(seed))}
	}
	return nil
}

// initPopulation 以 seed 本身和 PopulationSize-1 个打乱后的 seed 副本作为初始种群，seed 本身不会被打乱
func (s *Scheduler) initPopulation(seed Schedule) ([]*Chromosome, error) {
	pop := make([]*Chromosome, 0, s.parameters.PopulationSize)

	for i := 0; i < int(s.parameters.PopulationSize); i++ {
		genes := seed.Clone()
		if i > 0 {
			s.rng.Shuffle(len(genes), func(i, j int) {
				genes[i], genes[j] = genes[j], genes[i]
			})
		}
		ch, err := s.newChromosome(genes)
		if err != nil {
			return nil, err
		}
		pop = append(pop, ch)
	}

	return pop, nil
}

// evolve 完成一代的迭代：排序、保留精英、选择、交叉、变异，并返回新一代种群
// 传入的种群会被原地排序
func (s *Scheduler) evolve(pop []*Chromosome) ([]*Chromosome, error) {
	sortByFitness(pop)

	// 保留精英，精英与新种群共享同一个染色体，但之后不会再被修改
	newPop := make([]*Chromosome, 0, s.parameters.PopulationSize+1)
	newPop = append(newPop, pop[:s.parameters.EliteCount]...)

	for len(newPop) < int(s.parameters.PopulationSize) {
		// 从整个种群中有放回地均匀选择两个父本
		p1 := pop[s.rng.Intn(len(pop))]
		p2 := pop[s.rng.Intn(len(pop))]

		var c1, c2 Schedule
		if s.rng.Float64() < s.parameters.CrossoverRate {
			var err error
			c1, c2, err = Crossover(s.rng, p1.genes, p2.genes)
			if err != nil {
				return nil, err
			}
		} else {
			c1, c2 = p1.genes.Clone(), p2.genes.Clone()
		}

		if s.rng.Float64() < s.parameters.MutationRate {
			c1 = Mutate(s.rng, c1, s.programs)
		}
		if s.rng.Float64() < s.parameters.MutationRate {
			c2 = Mutate(s.rng, c2, s.programs)
		}

		for _, genes := range []Schedule{c1, c2} {
			ch, err := s.newChromosome(genes)
			if err != nil {
				return nil, err
			}
			newPop = append(newPop, ch)
		}
	}

	// 最后一批可能多出一个
	return newPop[:s.parameters.PopulationSize], nil
}

// newChromosome 创建染色体并立即计算适应度，之后不再重复计算
func (s *Scheduler) newChromosome(genes Schedule) (*Chromosome, error) {
	fitness, err := Evaluate(s.table, genes)
	if err != nil {
		return nil, err
	}
	return &Chromosome{genes: genes, fitness: fitness}, nil
}

// 按适应度从高到低排序，不保证相同适应度的染色体之间的顺序
func sortByFitness(pop []*Chromosome) {
	sort.Slice(pop, func(i, j int) bool {
		return pop[i].fitness > pop[j].fitness
	})
}
