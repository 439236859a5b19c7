package apimodel

import "fmt"

// ModelType selects the classifier used by the remote service. It is sent as
// the last path segment of the predict call.
type ModelType string

const (
	ModelLogistic     ModelType = "logistic"
	ModelRandomForest ModelType = "random_forest"
	ModelSVM          ModelType = "svm"
)

// DefaultModel is the model preselected on the assessment screen.
const DefaultModel = ModelRandomForest

var modelTypes = []ModelType{ModelLogistic, ModelRandomForest, ModelSVM}

// ModelTypes lists the models the service accepts.
func ModelTypes() []ModelType {
	return append([]ModelType(nil), modelTypes...)
}

// ParseModelType validates a model name.
func ParseModelType(s string) (ModelType, error) {
	for _, m := range modelTypes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown model %q (want one of logistic, random_forest, svm)", s)
}

// BinaryOption is 0 (no) or 1 (yes).
type BinaryOption int

const (
	No  BinaryOption = 0
	Yes BinaryOption = 1
)

// PredictionInput is the assessment payload.
type PredictionInput struct {
	Age                  float64 `json:"age"`
	StrokeRiskPercentage float64 `json:"stroke_risk_percentage"` // 0-100

	HighBloodPressure BinaryOption  `json:"high_blood_pressure"`
	HeartDisease      *BinaryOption `json:"heart_disease,omitempty"`

	ChestPain               BinaryOption `json:"chest_pain"`
	ShortnessOfBreath       BinaryOption `json:"shortness_of_breath"`
	IrregularHeartbeat      BinaryOption `json:"irregular_heartbeat"`
	FatigueWeakness         BinaryOption `json:"fatigue_weakness"`
	Dizziness               BinaryOption `json:"dizziness"`
	SwellingEdema           BinaryOption `json:"swelling_edema"`
	PainNeckJaw             BinaryOption `json:"pain_neck_jaw"`
	ExcessiveSweating       BinaryOption `json:"excessive_sweating"`
	PersistentCough         BinaryOption `json:"persistent_cough"`
	NauseaVomiting          BinaryOption `json:"nausea_vomiting"`
	ChestDiscomfortActivity BinaryOption `json:"chest_discomfort_activity"`
	ColdHandsFeet           BinaryOption `json:"cold_hands_feet"`
	SnoringSleepApnea       BinaryOption `json:"snoring_sleep_apnea"`
	AnxietyFeelingDoom      BinaryOption `json:"anxiety_feeling_doom"`
}

// PredictionResponse is returned by the predict call.
type PredictionResponse struct {
	ModelUsed       string      `json:"model_used"`
	PredictionLabel string      `json:"prediction_label"` // "At Risk" / "Not At Risk"
	PredictionScore int         `json:"prediction_score"` // 0 or 1
	Probability     Probability `json:"probability"`
}

// AtRisk reports whether the classifier flagged the patient.
func (p PredictionResponse) AtRisk() bool {
	return p.PredictionScore == 1
}
