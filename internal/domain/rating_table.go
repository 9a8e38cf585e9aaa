package domain

import "time"

// ProgramRating 表示一个节目在一个周期内每个时段的收视评分
type ProgramRating struct {
	Name    string    `json:"name"`
	Ratings []float64 `json:"ratings"`
}

type RatingTable struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Programs    []ProgramRating `json:"programs"`
	CreatedAt   time.Time       `json:"createdAt"`
	Version     int32           `json:"-"`
}

type RatingTableMeta struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ProgramCount int32     `json:"programCount"`
	CreatedAt    time.Time `json:"createdAt"`
}
