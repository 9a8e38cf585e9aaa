package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/ratings"
)

func (h *Handler) CreateRatingTable(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
		Programs    []struct {
			Name    string    `json:"name" validate:"required"`
			Ratings []float64 `json:"ratings" validate:"required,min=1"`
		} `json:"programs" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	programs := make([]domain.ProgramRating, len(req.Programs))
	for i, p := range req.Programs {
		programs[i] = domain.ProgramRating{
			Name:    p.Name,
			Ratings: p.Ratings,
		}
	}

	// 通过构造评分表来检查节目是否重复等问题
	table, err := ratings.NewTable(programs)
	if err != nil {
		h.schedulingError(w, r, err)
		return
	}

	h.createRatingTable(w, r, &domain.RatingTable{
		Name:        req.Name,
		Description: req.Description,
		Programs:    table.ToDomain(),
	})
}

// ImportRatingTable 通过上传 CSV 文件创建评分表
func (h *Handler) ImportRatingTable(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.config.Server.MaxUploadSize)
	if err := r.ParseMultipartForm(h.config.Server.MaxUploadSize); err != nil {
		h.errorResponse(w, r, "无法解析上传的表单")
		return
	}

	name := r.FormValue("name")
	if err := h.validate.Var(name, "required"); err != nil {
		h.errorResponse(w, r, "评分表名称不能为空")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.errorResponse(w, r, "请上传评分表文件")
		return
	}
	defer file.Close()

	table, err := ratings.Parse(file)
	if err != nil {
		h.schedulingError(w, r, err)
		return
	}

	h.createRatingTable(w, r, &domain.RatingTable{
		Name:        name,
		Description: r.FormValue("description"),
		Programs:    table.ToDomain(),
	})
}

func (h *Handler) createRatingTable(w http.ResponseWriter, r *http.Request, table *domain.RatingTable) {
	if err := h.repository.CreateRatingTable(table); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "rating_tables_name_key":
				h.errorResponse(w, r, "评分表名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	slog.Info("评分表已创建", operator(r), "rating_table_id", table.ID, "name", table.Name, "programs", len(table.Programs))
	h.successResponse(w, r, "创建评分表成功", table)
}

func (h *Handler) GetAllRatingTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.repository.GetAllRatingTables()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有评分表成功", tables)
}

func (h *Handler) GetRatingTable(w http.ResponseWriter, r *http.Request) {
	table := r.Context().Value(RatingTableCtx).(*domain.RatingTable)

	h.successResponse(w, r, "获取评分表成功", table)
}

func (h *Handler) DeleteRatingTable(w http.ResponseWriter, r *http.Request) {
	table := r.Context().Value(RatingTableCtx).(*domain.RatingTable)

	// 先记下该评分表的所有排班结果，删除后需要清理缓存
	results, err := h.repository.GetAllSchedulingResultsByRatingTableID(table.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.DeleteRatingTable(table.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ids := make([]int64, len(results))
	for i, result := range results {
		ids[i] = result.ID
	}
	if err := h.deleteCachedSchedulingResults(ids); err != nil {
		slog.Warn("无法清理排班结果缓存", "rating_table_id", table.ID, "error", err)
	}

	slog.Info("评分表已删除", operator(r), "rating_table_id", table.ID, "name", table.Name, "results", len(results))
	h.successResponse(w, r, "删除评分表成功", nil)
}
