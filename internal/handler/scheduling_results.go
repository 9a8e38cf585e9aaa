package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/ratings"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/report"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/utils"
)

func (h *Handler) GenerateSchedulingResult(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	ratingTable := r.Context().Value(RatingTableCtx).(*domain.RatingTable)

	// 获取参数，不传时使用配置中的默认值
	var req struct {
		CrossoverRate *float64 `json:"crossoverRate" validate:"omitnil,min=0,max=0.95"`
		MutationRate  *float64 `json:"mutationRate" validate:"omitnil,min=0.01,max=0.05"`
		Seed          *int64   `json:"seed"`
		Notify        bool     `json:"notify"`
	}

	if err := h.readJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 默认参数在启动时已经检查过，请求中的概率由 validator 检查
	parameters := h.parameters
	if req.CrossoverRate != nil {
		parameters.CrossoverRate = *req.CrossoverRate
	}
	if req.MutationRate != nil {
		parameters.MutationRate = *req.MutationRate
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	// 自动排班
	table, err := ratings.NewTable(ratingTable.Programs)
	if err != nil {
		h.schedulingError(w, r, err)
		return
	}

	s, err := scheduler.New(&parameters, table, rand.New(rand.NewSource(seed)))
	if err != nil {
		h.schedulingError(w, r, err)
		return
	}

	start := time.Now()
	res, err := s.Schedule(s.RandomSchedule())
	if err != nil {
		h.schedulingError(w, r, err)
		return
	}
	slog.Info("自动排班完成", operator(r), "rating_table_id", ratingTable.ID, "seed", seed, "fitness", res.Fitness, "duration", time.Since(start))

	result := &domain.SchedulingResult{
		RatingTableID:  ratingTable.ID,
		Generations:    parameters.Generations,
		PopulationSize: parameters.PopulationSize,
		EliteCount:     parameters.EliteCount,
		CrossoverRate:  parameters.CrossoverRate,
		MutationRate:   parameters.MutationRate,
		RandomSeed:     seed,
		Schedule:       res.Schedule,
		Slots:          report.Assign(res.Schedule, report.TimeSlots(h.config.TimeSlot.StartHour, h.config.TimeSlot.EndHour)),
		TotalRating:    res.Fitness,
	}

	// 保存前还需要检查一下结果是否与评分表对得上
	if err := utils.ValidateSchedulingResultWithRatingTable(result, table); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.InsertSchedulingResult(result); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.cacheSchedulingResult(result); err != nil {
		slog.Warn("无法缓存排班结果", "id", result.ID, "error", err)
	}

	if req.Notify {
		if err := h.publishSchedulingResultMail(myInfo, ratingTable, result); err != nil {
			h.internalServerError(w, r, err)
			return
		}
	}

	h.successResponse(w, r, "自动排班成功", result)
}

func (h *Handler) publishSchedulingResultMail(user *domain.User, table *domain.RatingTable, result *domain.SchedulingResult) error {
	// 准备邮件
	mailMessage := domain.MailMessage{
		Type: "scheduling_result",
		To:   user.Email,
		Data: domain.SchedulingResultMailData{
			FullName:        user.FullName,
			RatingTableName: table.Name,
			ResultID:        result.ID,
			TotalRating:     report.FormatRating(result.TotalRating),
			Slots:           result.Slots,
		},
	}

	// 序列化邮件
	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		return err
	}

	// 发送邮件到消息队列中
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	)
}

func (h *Handler) GetAllSchedulingResults(w http.ResponseWriter, r *http.Request) {
	ratingTable := r.Context().Value(RatingTableCtx).(*domain.RatingTable)

	results, err := h.repository.GetAllSchedulingResultsByRatingTableID(ratingTable.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取该评分表所有的排班结果成功", results)
}

func (h *Handler) GetSchedulingResult(w http.ResponseWriter, r *http.Request) {
	result := r.Context().Value(SchedulingResultCtx).(*domain.SchedulingResult)

	h.successResponse(w, r, "获取排班结果成功", result)
}
