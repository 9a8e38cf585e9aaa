package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type SchedulingResultMailData struct {
	FullName        string                 `json:"fullName"`
	RatingTableName string                 `json:"ratingTableName"`
	ResultID        int64                  `json:"resultID"`
	TotalRating     string                 `json:"totalRating"`
	Slots           []SchedulingResultSlot `json:"slots"`
}
