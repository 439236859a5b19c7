// Package assessment holds the rules of the assessment and dashboard screens:
// the personal-defaults gate, form defaults, advice and the history summary.
package assessment

import (
	"github.com/jrsteele09/neuroguard/apimodel"
	apierrors "github.com/jrsteele09/neuroguard/internal/errors"
	"github.com/jrsteele09/neuroguard/internal/utils"
)

// DefaultStrokeRiskPercentage is the slider position of a fresh form.
const DefaultStrokeRiskPercentage = 50

// HasDefaults reports whether an assessment may be submitted for u: age must be
// set and positive and hypertension history must be recorded.
func HasDefaults(u *apimodel.User) bool {
	if u == nil || u.PersonalDefaults == nil {
		return false
	}
	d := u.PersonalDefaults
	return d.Age != nil && *d.Age > 0 && d.HighBloodPressure != nil
}

// NewInput returns a fresh form with every symptom off, pre-filled from the
// user's defaults where they exist.
func NewInput(u *apimodel.User) apimodel.PredictionInput {
	in := apimodel.PredictionInput{StrokeRiskPercentage: DefaultStrokeRiskPercentage}
	if u != nil && u.PersonalDefaults != nil {
		in.Age = utils.ValueOr(u.PersonalDefaults.Age, 0)
		in.HighBloodPressure = apimodel.BinaryOption(utils.ValueOr(u.PersonalDefaults.HighBloodPressure, 0))
	}
	return in
}

// Prepare returns the payload to submit. Age and hypertension always come
// from the user's saved defaults, whatever the form holds.
func Prepare(u *apimodel.User, in apimodel.PredictionInput) (apimodel.PredictionInput, error) {
	if !HasDefaults(u) {
		return apimodel.PredictionInput{}, apierrors.ErrDefaultsMissing
	}
	if in.StrokeRiskPercentage < 0 || in.StrokeRiskPercentage > 100 {
		return apimodel.PredictionInput{}, apierrors.Wrapf(apierrors.ErrInvalidRequest, "stroke risk percentage %.1f out of range 0-100", in.StrokeRiskPercentage)
	}
	in.Age = *u.PersonalDefaults.Age
	in.HighBloodPressure = apimodel.BinaryOption(*u.PersonalDefaults.HighBloodPressure)
	return in, nil
}
