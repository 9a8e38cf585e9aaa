package domain

import "time"

type SchedulingResultSlot struct {
	TimeSlot string `json:"timeSlot"` // 例如 "6:00"
	Program  string `json:"program"`
}

type SchedulingResult struct {
	ID             int64                  `json:"id"`
	RatingTableID  int64                  `json:"ratingTableID"`
	Generations    int32                  `json:"generations"`
	PopulationSize int32                  `json:"populationSize"`
	EliteCount     int32                  `json:"eliteCount"`
	CrossoverRate  float64                `json:"crossoverRate"`
	MutationRate   float64                `json:"mutationRate"`
	RandomSeed     int64                  `json:"randomSeed"`
	Schedule       []string               `json:"schedule"` // 完整的染色体，长度等于节目数量
	Slots          []SchedulingResultSlot `json:"slots"`    // 只包含每天需要展示的时段
	TotalRating    float64                `json:"totalRating"`
	CreatedAt      time.Time              `json:"createdAt"`
	Version        int32                  `json:"-"`
}
