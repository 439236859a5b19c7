package fakeapi

import (
	"math"

	"github.com/jrsteele09/neuroguard/apimodel"
)

// Per-model weights for the toy score. Deterministic so tests can pin results.
var modelBias = map[apimodel.ModelType]float64{
	apimodel.ModelLogistic:     -0.2,
	apimodel.ModelRandomForest: 0,
	apimodel.ModelSVM:          0.2,
}

func symptomCount(in apimodel.PredictionInput) int {
	flags := []apimodel.BinaryOption{
		in.ChestPain, in.ShortnessOfBreath, in.IrregularHeartbeat, in.FatigueWeakness,
		in.Dizziness, in.SwellingEdema, in.PainNeckJaw, in.ExcessiveSweating,
		in.PersistentCough, in.NauseaVomiting, in.ChestDiscomfortActivity, in.ColdHandsFeet,
		in.SnoringSleepApnea, in.AnxietyFeelingDoom,
	}
	n := 0
	for _, f := range flags {
		if f == apimodel.Yes {
			n++
		}
	}
	return n
}

// score returns a logistic of a weighted sum of the inputs.
func score(model apimodel.ModelType, in apimodel.PredictionInput) apimodel.PredictionResponse {
	z := -4.0 + modelBias[model]
	z += 0.04 * in.Age
	z += 0.02 * in.StrokeRiskPercentage
	z += 0.35 * float64(symptomCount(in))
	if in.HighBloodPressure == apimodel.Yes {
		z += 0.8
	}
	if in.HeartDisease != nil && *in.HeartDisease == apimodel.Yes {
		z += 0.6
	}

	risk := 1 / (1 + math.Exp(-z))
	risk = math.Round(risk*10000) / 10000

	res := apimodel.PredictionResponse{
		ModelUsed:       string(model),
		PredictionLabel: "Not At Risk",
		Probability: apimodel.Probability{
			"not_at_risk": math.Round((1-risk)*10000) / 10000,
			"at_risk":     risk,
		},
	}
	if risk >= 0.5 {
		res.PredictionLabel = "At Risk"
		res.PredictionScore = 1
	}
	return res
}
