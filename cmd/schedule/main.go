package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/ratings"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/report"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/utils"
)

func main() {
	file := flag.String("file", "./internal/seed/data/program_ratings.csv", "评分表 CSV 文件")
	paramsFile := flag.String("params", "", "YAML 格式的遗传算法参数文件")
	crossoverRate := flag.Float64("crossover-rate", 0.8, "交叉概率 (0 ~ 0.95)")
	mutationRate := flag.Float64("mutation-rate", 0.02, "变异概率 (0.01 ~ 0.05)")
	seed := flag.Int64("seed", 0, "随机种子，为 0 时使用当前时间")
	startHour := flag.Int("start-hour", 6, "第一个时段的开始时间（小时）")
	endHour := flag.Int("end-hour", 24, "最后一个时段的结束时间（小时）")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// 参数优先级：命令行 > 参数文件 > 默认值
	parameters := scheduler.DefaultParameters()
	if *paramsFile != "" {
		if err := loadParameters(*paramsFile, parameters); err != nil {
			logger.Error("无法读取参数文件", "file", *paramsFile, "error", err)
			os.Exit(1)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "crossover-rate":
			parameters.CrossoverRate = *crossoverRate
		case "mutation-rate":
			parameters.MutationRate = *mutationRate
		}
	})

	if err := utils.ValidateGARates(parameters.CrossoverRate, parameters.MutationRate); err != nil {
		logger.Error("参数非法", "error", err)
		os.Exit(1)
	}

	table, err := ratings.LoadFile(*file)
	if err != nil {
		logger.Error("无法读取评分表", "file", *file, "error", err)
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	s, err := scheduler.New(parameters, table, rand.New(rand.NewSource(*seed)))
	if err != nil {
		logger.Error("无法创建排班器", "error", err)
		os.Exit(1)
	}

	res, err := s.Schedule(s.RandomSchedule())
	if err != nil {
		logger.Error("自动排班失败", "error", err)
		os.Exit(1)
	}
	logger.Info("自动排班完成", "seed", *seed, "generations", res.Generations, "fitness", res.Fitness)

	slots := report.Assign(res.Schedule, report.TimeSlots(*startHour, *endHour))
	fmt.Println(report.RenderTable(slots, res.Fitness))
}
