package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/handler"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/repository"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("节目排班服务异常退出", "error", err)
		os.Exit(1)
	}
}

// run 依次检查配置、连接依赖的服务，最后启动 HTTP 服务器直到收到退出信号
func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("无法加载配置: %w", err)
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := repository.NewRepository(cfg, db)
	if err := ensureInitialAdmin(repo, cfg); err != nil {
		return err
	}

	mq, err := openMailQueue(cfg)
	if err != nil {
		return err
	}
	defer mq.Close()

	rdb, err := openRedis(cfg)
	if err != nil {
		return err
	}
	defer rdb.Close()

	// 遗传算法参数和时段配置也在这里检查，配置有误时直接拒绝启动
	h, err := handler.NewHandler(cfg, repo, mq.channel, rdb)
	if err != nil {
		return fmt.Errorf("无法创建 handler: %w", err)
	}
	h.RegisterRoutes()

	p := h.SchedulerParameters()
	logger.Info("自动排班参数",
		"generations", p.Generations,
		"population_size", p.PopulationSize,
		"elite_count", p.EliteCount,
		"crossover_rate", p.CrossoverRate,
		"mutation_rate", p.MutationRate,
		"time_slots", fmt.Sprintf("%d:00-%d:00", cfg.TimeSlot.StartHour, cfg.TimeSlot.EndHour),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      h.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return serve(logger, srv, time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
}

func serve(logger *slog.Logger, srv *http.Server, shutdownTimeout time.Duration) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("正在启动服务器...", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("无法启动服务器: %w", err)
	case <-quit:
	}
	logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("关闭服务器失败: %w", err)
	}
	logger.Info("服务器已成功关闭")
	return nil
}
