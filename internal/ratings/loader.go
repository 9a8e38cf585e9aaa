package ratings

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/program-scheduler/backend/internal/domain"
)

// Parse 从 CSV 中读取评分表
//
// 第一行为表头，直接丢弃；之后每一行的格式为 [节目名称, 评分0, 评分1, ..., 评分k]
func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // 不同节目的评分个数可以不同
	reader.TrimLeadingSpace = true

	// 读取表头
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DataFormatError{Err: ErrEmptyProgramSet}
		}
		return nil, &DataFormatError{Line: 1, Err: err}
	}

	programs := []domain.ProgramRating{}
	lines := []int{} // lines[i] 为 programs[i] 所在的行号
	for {
		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &DataFormatError{Line: parseErr.Line, Column: parseErr.Column, Err: parseErr.Err}
			}
			return nil, &DataFormatError{Err: err}
		}
		line, _ := reader.FieldPos(0)

		// 跳过空行
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}

		p := domain.ProgramRating{
			Name:    strings.TrimSpace(row[0]),
			Ratings: make([]float64, 0, len(row)-1),
		}
		for col, field := range row[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, &DataFormatError{Line: line, Column: col + 2, Err: fmt.Errorf("评分 %q 不是合法的数字", field)}
			}
			p.Ratings = append(p.Ratings, v)
		}

		programs = append(programs, p)
		lines = append(lines, line)
	}

	t, err := NewTable(programs)
	if err != nil {
		// NewTable 返回的是数据行的序号，需要换算成文件中的行号
		var dfe *DataFormatError
		if errors.As(err, &dfe) && dfe.Line > 0 && dfe.Line <= len(lines) {
			dfe.Line = lines[dfe.Line-1]
		}
		return nil, err
	}

	return t, nil
}

func LoadFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}
