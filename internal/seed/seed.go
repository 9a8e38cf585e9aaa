package seed

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/ratings"
	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/repository"
)

// DefaultDataPath 为真实评分数据的位置
const DefaultDataPath = "./internal/seed/data/program_ratings.csv"

// ImportRatingTable 读取 CSV 格式的评分表并写入数据库，name 为空时使用文件名
func ImportRatingTable(r *repository.Repository, path string, name string) (*domain.RatingTable, error) {
	table, err := ratings.LoadFile(path)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	rt := &domain.RatingTable{
		Name:        name,
		Description: "从 " + filepath.Base(path) + " 导入",
		Programs:    table.ToDomain(),
	}
	if err := r.CreateRatingTable(rt); err != nil {
		return nil, err
	}

	slog.Info("导入评分表成功", "id", rt.ID, "name", rt.Name, "programs", len(rt.Programs))
	return rt, nil
}
