package handler

import (
	"fmt"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/repository"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/utils"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	// 自动排班的默认参数，请求中只能覆盖交叉概率和变异概率
	parameters scheduler.Parameters

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	parameters, err := schedulerParameters(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.TimeSlot.StartHour < 0 || cfg.TimeSlot.EndHour > 24 || cfg.TimeSlot.StartHour >= cfg.TimeSlot.EndHour {
		return nil, fmt.Errorf("时段配置非法: %d:00-%d:00", cfg.TimeSlot.StartHour, cfg.TimeSlot.EndHour)
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		parameters:  parameters,

		Mux: chi.NewRouter(),
	}, nil
}

// schedulerParameters 在启动时检查配置中的遗传算法参数，避免等到第一次自动排班才发现配置错误
func schedulerParameters(cfg *config.Config) (scheduler.Parameters, error) {
	p := scheduler.Parameters{
		Generations:    cfg.GA.Generations,
		PopulationSize: cfg.GA.PopulationSize,
		EliteCount:     cfg.GA.EliteCount,
		CrossoverRate:  cfg.GA.DefaultCrossoverRate,
		MutationRate:   cfg.GA.DefaultMutationRate,
	}
	if err := p.Validate(); err != nil {
		return scheduler.Parameters{}, err
	}
	if err := utils.ValidateGARates(p.CrossoverRate, p.MutationRate); err != nil {
		return scheduler.Parameters{}, err
	}
	return p, nil
}

// SchedulerParameters 返回自动排班使用的默认参数
func (h *Handler) SchedulerParameters() scheduler.Parameters {
	return h.parameters
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	// 查询接口不需要登录，修改和自动排班必须在登录后才允许调用
	h.Mux.Route("/rating-tables", func(r chi.Router) {
		r.Get("/", h.GetAllRatingTables)
		r.With(h.auth).Post("/", h.CreateRatingTable)
		r.With(h.auth).Post("/import", h.ImportRatingTable)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.ratingTable)
			r.Get("/", h.GetRatingTable)
			r.With(h.auth).Delete("/", h.DeleteRatingTable)
			r.Route("/scheduling-results", func(r chi.Router) {
				r.Get("/", h.GetAllSchedulingResults)
				r.With(h.auth).With(h.myInfo).Post("/generate", h.GenerateSchedulingResult)
			})
		})
	})

	h.Mux.Route("/scheduling-results/{id}", func(r chi.Router) {
		r.Use(h.schedulingResult)
		r.Get("/", h.GetSchedulingResult)
	})
}
