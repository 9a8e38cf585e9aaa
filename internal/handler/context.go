package handler

type ContextKey string

var (
	ClaimsCtx           ContextKey = "claims"
	MyInfoCtx           ContextKey = "myInfo"
	RatingTableCtx      ContextKey = "ratingTable"
	SchedulingResultCtx ContextKey = "schedulingResult"
)
