package assessment_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/neuroguard/apimodel"
	"github.com/jrsteele09/neuroguard/assessment"
	apierrors "github.com/jrsteele09/neuroguard/internal/errors"
	"github.com/jrsteele09/neuroguard/internal/utils"
	"github.com/stretchr/testify/require"
)

func userWith(age *float64, hbp *int) *apimodel.User {
	return &apimodel.User{
		Email:            "dr@example.com",
		PersonalDefaults: &apimodel.PersonalDefaults{Age: age, HighBloodPressure: hbp},
	}
}

func TestHasDefaults(t *testing.T) {
	require.False(t, assessment.HasDefaults(nil))
	require.False(t, assessment.HasDefaults(&apimodel.User{}))
	require.False(t, assessment.HasDefaults(userWith(nil, utils.Ptr(0))))
	require.False(t, assessment.HasDefaults(userWith(utils.Ptr(0.0), utils.Ptr(0))))
	require.False(t, assessment.HasDefaults(userWith(utils.Ptr(45.0), nil)))
	require.True(t, assessment.HasDefaults(userWith(utils.Ptr(45.0), utils.Ptr(0))))
}

func TestNewInput(t *testing.T) {
	in := assessment.NewInput(userWith(utils.Ptr(61.0), utils.Ptr(1)))
	require.Equal(t, 61.0, in.Age)
	require.Equal(t, apimodel.Yes, in.HighBloodPressure)
	require.Equal(t, float64(assessment.DefaultStrokeRiskPercentage), in.StrokeRiskPercentage)
	for _, s := range assessment.Symptoms() {
		require.Equal(t, apimodel.No, s.Value(&in), s.Key)
	}

	blank := assessment.NewInput(nil)
	require.Zero(t, blank.Age)
}

func TestPrepare_ForcesDefaults(t *testing.T) {
	u := userWith(utils.Ptr(58.0), utils.Ptr(1))
	in := assessment.NewInput(u)
	in.Age = 20
	in.HighBloodPressure = apimodel.No
	require.NoError(t, assessment.Toggle(&in, "dizziness"))

	out, err := assessment.Prepare(u, in)
	require.NoError(t, err)
	require.Equal(t, 58.0, out.Age)
	require.Equal(t, apimodel.Yes, out.HighBloodPressure)
	require.Equal(t, apimodel.Yes, out.Dizziness)
}

func TestPrepare_DefaultsMissing(t *testing.T) {
	_, err := assessment.Prepare(userWith(nil, utils.Ptr(1)), apimodel.PredictionInput{})
	require.ErrorIs(t, err, apierrors.ErrDefaultsMissing)
}

func TestPrepare_RiskOutOfRange(t *testing.T) {
	in := apimodel.PredictionInput{StrokeRiskPercentage: 101}
	_, err := assessment.Prepare(userWith(utils.Ptr(40.0), utils.Ptr(0)), in)
	require.ErrorIs(t, err, apierrors.ErrInvalidRequest)
}

func TestToggle(t *testing.T) {
	var in apimodel.PredictionInput
	require.NoError(t, assessment.Toggle(&in, "chest_pain"))
	require.Equal(t, apimodel.Yes, in.ChestPain)
	require.NoError(t, assessment.Toggle(&in, "chest_pain"))
	require.Equal(t, apimodel.No, in.ChestPain)

	require.ErrorIs(t, assessment.Toggle(&in, "age"), apierrors.ErrInvalidRequest)
}

func TestSymptoms_Catalogue(t *testing.T) {
	s := assessment.Symptoms()
	require.Len(t, s, 14)
	require.Equal(t, "chest_pain", s[0].Key)
	require.Equal(t, "Anxiety / Feeling of Doom", s[13].Label)
}

func TestRecommend(t *testing.T) {
	high := assessment.Recommend(true)
	require.Len(t, high.Items, 4)
	require.Contains(t, high.Notice, "Puskesmas")
	require.Len(t, high.Telemedicine, 2)
	require.Equal(t, "Halodoc", high.Telemedicine[0].Name)

	low := assessment.Recommend(false)
	require.Len(t, low.Items, 3)
	require.Empty(t, low.Notice)
	require.Empty(t, low.Telemedicine)
}

func TestSummarize(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	history := []apimodel.HistoryItem{
		{ID: "c", Timestamp: now, PredictionScore: 1, PredictionLabel: "At Risk"},
		{ID: "b", Timestamp: now.Add(-time.Hour), PredictionScore: 0, PredictionLabel: "Not At Risk"},
		{ID: "a", Timestamp: now.Add(-2 * time.Hour), PredictionScore: 1, PredictionLabel: "At Risk"},
	}

	s := assessment.Summarize(userWith(utils.Ptr(50.0), nil), history)
	require.Equal(t, 3, s.Total)
	require.Equal(t, 2, s.AtRisk)
	require.Equal(t, assessment.ProfileOptimized, s.ProfileStatus)
	require.Len(t, s.Trend, 3)
	require.Equal(t, "Test 1", s.Trend[0].Name)
	require.Equal(t, now.Add(-2*time.Hour), s.Trend[0].Date)
	require.Equal(t, "Not At Risk", s.Trend[1].Label)
	require.Equal(t, now, s.Trend[2].Date)
}

func TestSummarize_Empty(t *testing.T) {
	s := assessment.Summarize(nil, nil)
	require.Zero(t, s.Total)
	require.Empty(t, s.Trend)
	require.Equal(t, assessment.ProfileSetupNeeded, s.ProfileStatus)
}
