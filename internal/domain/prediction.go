package domain

import "time"

// Prediction is a single point estimate produced from user input.
type Prediction struct {
	ID             string
	Features       Features
	PredictedPrice float64
	CreatedAt      time.Time
}
