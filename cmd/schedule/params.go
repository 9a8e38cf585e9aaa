package main

import (
	"fmt"
	"os"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/scheduler"
	"gopkg.in/yaml.v3"
)

// 参数文件中没有出现的字段保持原值
type parametersFile struct {
	Generations    *int32   `yaml:"generations"`
	PopulationSize *int32   `yaml:"population_size"`
	EliteCount     *int32   `yaml:"elite_count"`
	CrossoverRate  *float64 `yaml:"crossover_rate"`
	MutationRate   *float64 `yaml:"mutation_rate"`
}

func loadParameters(path string, p *scheduler.Parameters) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var raw parametersFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse parameters file %s: %w", path, err)
	}

	if raw.Generations != nil {
		p.Generations = *raw.Generations
	}
	if raw.PopulationSize != nil {
		p.PopulationSize = *raw.PopulationSize
	}
	if raw.EliteCount != nil {
		p.EliteCount = *raw.EliteCount
	}
	if raw.CrossoverRate != nil {
		p.CrossoverRate = *raw.CrossoverRate
	}
	if raw.MutationRate != nil {
		p.MutationRate = *raw.MutationRate
	}

	return p.Validate()
}
