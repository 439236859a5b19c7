package assessment

import (
	"fmt"
	"time"

	"github.com/jrsteele09/neuroguard/apimodel"
	"github.com/jrsteele09/neuroguard/internal/utils"
)

// Profile status labels shown on the dashboard.
const (
	ProfileOptimized   = "Optimized"
	ProfileSetupNeeded = "Setup Needed"
)

// TrendPoint is one prediction on the dashboard trend, oldest first.
type TrendPoint struct {
	Name  string
	Score int
	Label string
	Date  time.Time
}

// Summary is the dashboard overview of recent predictions.
type Summary struct {
	Total         int
	AtRisk        int
	Trend         []TrendPoint
	ProfileStatus string
}

// Summarize builds the dashboard overview. history arrives newest first.
func Summarize(u *apimodel.User, history []apimodel.HistoryItem) Summary {
	s := Summary{
		Total:         len(history),
		Trend:         make([]TrendPoint, 0, len(history)),
		ProfileStatus: ProfileStatus(u),
	}
	for i := len(history) - 1; i >= 0; i-- {
		h := history[i]
		if h.AtRisk() {
			s.AtRisk++
		}
		s.Trend = append(s.Trend, TrendPoint{
			Name:  fmt.Sprintf("Test %d", len(s.Trend)+1),
			Score: h.PredictionScore,
			Label: h.PredictionLabel,
			Date:  h.Timestamp,
		})
	}
	return s
}

// ProfileStatus only looks at age; hypertension is not part of this label.
func ProfileStatus(u *apimodel.User) string {
	if u != nil && u.PersonalDefaults != nil && utils.ValueOr(u.PersonalDefaults.Age, 0) > 0 {
		return ProfileOptimized
	}
	return ProfileSetupNeeded
}
