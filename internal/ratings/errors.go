package ratings

import (
	"errors"
	"fmt"
)

// ErrEmptyProgramSet 表示评分表中没有任何节目
var ErrEmptyProgramSet = errors.New("评分表中没有任何节目")

// DataFormatError 表示评分表格式错误，Line 和 Column 从 1 开始计数，为 0 时表示不针对具体位置
type DataFormatError struct {
	Line   int
	Column int
	Err    error
}

func (e *DataFormatError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("评分表格式错误（第 %d 行第 %d 列）: %v", e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("评分表格式错误（第 %d 行）: %v", e.Line, e.Err)
	default:
		return fmt.Sprintf("评分表格式错误: %v", e.Err)
	}
}

func (e *DataFormatError) Unwrap() error {
	return e.Err
}
