package apimodel

import "time"

// Page sizes used by the screens that list history.
const (
	DashboardHistoryLimit = 10
	HistoryScreenLimit    = 50
	DefaultHistoryLimit   = 100
)

// HistoryItem is one row of the prediction history.
type HistoryItem struct {
	ID              string    `json:"id"`
	Timestamp       time.Time `json:"timestamp"`
	ModelUsed       string    `json:"model_used"`
	PredictionLabel string    `json:"prediction_label"`
	PredictionScore int       `json:"prediction_score"`
}

// AtRisk reports whether this prediction flagged the patient.
func (h HistoryItem) AtRisk() bool {
	return h.PredictionScore == 1
}

// HistoryDetail is a single history entry with its submitted input.
type HistoryDetail struct {
	HistoryItem
	InputData   PredictionInput `json:"input_data"`
	Probability Probability     `json:"probability"`
}
