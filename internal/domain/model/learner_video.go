package model

import "time"

type LearnerVideo struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Duration  string    `json:"duration"`
	VideoURL  string    `json:"videoUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
