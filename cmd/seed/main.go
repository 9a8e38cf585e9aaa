package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/seed"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var programs int
	var slots int
	var file string
	var name string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机评分表, 3: 导入 CSV 评分表)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.IntVar(&programs, "programs", 10, "随机评分表的节目数量")
	flag.IntVar(&slots, "slots", 18, "随机评分表每个节目的评分个数")
	flag.StringVar(&file, "file", seed.DefaultDataPath, "要导入的 CSV 文件")
	flag.StringVar(&name, "name", "", "导入后的评分表名称，默认使用文件名")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
		} else {
			cnt := 0
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机用户", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入用户", slog.String("error", err.Error()))
					continue
				}

				cnt++
			}

			slog.Info("插入用户成功", slog.Int("count", cnt))
		}
	case 2:
		if n <= 0 || programs <= 0 || slots <= 0 {
			slog.Error("请输入合法的评分表数量、节目数量和评分个数")
		} else {
			cnt := 0
			for i := 0; i < n; i++ {
				rt := utils.GenerateRandomRatingTable(programs, slots)
				if err := repo.CreateRatingTable(rt); err != nil {
					slog.Error("无法插入评分表", slog.String("error", err.Error()))
					continue
				}

				cnt++
			}

			slog.Info("插入评分表成功", slog.Int("count", cnt))
		}
	case 3:
		if _, err := seed.ImportRatingTable(repo, file, name); err != nil {
			slog.Error("无法导入评分表", slog.String("file", file), slog.String("error", err.Error()))
		}
	default:
		slog.Error("指定的操作非法")
	}
}
