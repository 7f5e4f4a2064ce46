package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Rating is a reviewer's score for a course
type Rating struct {
	ID        int64     `json:"id"`
	CourseID  int64     `json:"course_id"`
	UserName  string    `json:"user_name"`
	Rating    int       `json:"rating"`
	Review    string    `json:"review,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateRatingRequest is the body of a rating submission
type CreateRatingRequest struct {
	UserName string `json:"userName" form:"userName" validate:"required,max=100"`
	Rating   int    `json:"rating" form:"rating" validate:"min=1,max=5"`
	Review   string `json:"review" form:"review" validate:"max=5000"`
}

type CreateRatingResponse struct {
	Success bool    `json:"success"`
	Rating  *Rating `json:"rating,omitempty"`
}

// RatingSummary aggregates the ratings shown on a course page
type RatingSummary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// Summarize computes count and mean score, rounded to one decimal
func Summarize(ratings []*Rating) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{}
	}
	total := 0
	for _, r := range ratings {
		total += r.Rating
	}
	avg := float64(total) / float64(len(ratings))
	return RatingSummary{
		Count:   len(ratings),
		Average: float64(int(avg*10+0.5)) / 10,
	}
}

type RatingsListResponse struct {
	Ratings []*Rating     `json:"ratings"`
	Summary RatingSummary `json:"summary"`
}
