package ratings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
)

// Table 是节目到各时段评分的只读查找表
//
// 评分按周期循环：当排班表比某个节目的评分序列更长时，第 slot 个时段取 ratings[slot % len(ratings)]
type Table struct {
	programs []string             // 按首次出现的顺序
	ratings  map[string][]float64 // {programName: [rating0, rating1, ...]}
}

func NewTable(programs []domain.ProgramRating) (*Table, error) {
	if len(programs) == 0 {
		return nil, &DataFormatError{Err: ErrEmptyProgramSet}
	}

	t := &Table{
		programs: make([]string, 0, len(programs)),
		ratings:  make(map[string][]float64, len(programs)),
	}

	for i, p := range programs {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, &DataFormatError{Line: i + 1, Err: errors.New("节目名称不能为空")}
		}
		if _, exists := t.ratings[name]; exists {
			return nil, &DataFormatError{Line: i + 1, Err: fmt.Errorf("节目 %s 重复", name)}
		}
		if len(p.Ratings) == 0 {
			return nil, &DataFormatError{Line: i + 1, Err: fmt.Errorf("节目 %s 没有任何评分", name)}
		}

		// 复制一份，防止调用方后续修改
		t.ratings[name] = append([]float64{}, p.Ratings...)
		t.programs = append(t.programs, name)
	}

	return t, nil
}

// Rating 返回节目在第 slot 个时段的评分，节目不存在时第二个返回值为 false
func (t *Table) Rating(program string, slot int) (float64, bool) {
	rs, exists := t.ratings[program]
	if !exists || slot < 0 {
		return 0, false
	}
	return rs[slot%len(rs)], true
}

func (t *Table) Has(program string) bool {
	_, exists := t.ratings[program]
	return exists
}

// Programs 返回所有节目名称的副本
func (t *Table) Programs() []string {
	return append([]string{}, t.programs...)
}

func (t *Table) Len() int {
	return len(t.programs)
}

// CycleLength 返回节目评分序列的长度，节目不存在时返回 0
func (t *Table) CycleLength(program string) int {
	return len(t.ratings[program])
}

func (t *Table) ToDomain() []domain.ProgramRating {
	res := make([]domain.ProgramRating, 0, len(t.programs))
	for _, name := range t.programs {
		res = append(res, domain.ProgramRating{
			Name:    name,
			Ratings: append([]float64{}, t.ratings[name]...),
		})
	}
	return res
}
