package assessment

import (
	"github.com/jrsteele09/neuroguard/apimodel"
	apierrors "github.com/jrsteele09/neuroguard/internal/errors"
)

// Symptom is one toggleable flag on the assessment form.
type Symptom struct {
	Key   string
	Label string
	field func(*apimodel.PredictionInput) *apimodel.BinaryOption
}

// Value returns the symptom's current flag in in.
func (s Symptom) Value(in *apimodel.PredictionInput) apimodel.BinaryOption {
	return *s.field(in)
}

var symptoms = []Symptom{
	{"chest_pain", "Chest Pain", func(p *apimodel.PredictionInput) *apimodel.BinaryOption { return &p.ChestPain }},
	{"shortness_of_breath", "Shortness of Breath", func(p *apimodel.PredictionInput) *apimodel.BinaryOption { return &p.ShortnessOfBreath }},
	{"irregular_heartbeat", "Irregular Heartbeat", func(p *apimodel.PredictionInput) *apimodel.BinaryOption { return &p.IrregularHeartbeat }},
	{"fatigue_weakness", "Fatigue / Weakness", func(p *apimodel.PredictionInput) *apimodel.BinaryOption { return &p.FatigueWeakness }},
	{"dizziness", "Dizziness", func(p *apimodel.PredictionInput) *apimodel.BinaryOption { return &p.Dizziness }},
	{"swelling_edema", "Swelling (Edema)", func(p *apimodel.PredictionInput) *apimodel.BinaryOption { return &p.SwellingEdema }},
	{"pain_neck_jaw", "Pain in Neck/Jaw", func(p *apimodel.PredictionInput) *apimodel.BinaryOption { return &p.PainNeckJaw }},
	{"excessive_sweating", "Excessive Sweating", func(p *apimodel.PredictionInput) *apimodel.BinaryOption { return &p.ExcessiveSweating }},
	{"persistent_cough", "Persistent Cough", func(p *apimodel.PredictionInput) *apimodel.BinaryOption { return &p.PersistentCough }},
	{"nausea_vomiting", "Nausea / Vomiting", func(p *apimodel.PredictionInput) *apimodel.BinaryOption { return &p.NauseaVomiting }},
	{"chest_discomfort_activity", "Chest Discomfort during Activity", func(p *apimodel.PredictionInput) *apimodel.BinaryOption { return &p.ChestDiscomfortActivity }},
	{"cold_hands_feet", "Cold Hands / Feet", func(p *apimodel.PredictionInput) *apimodel.BinaryOption { return &p.ColdHandsFeet }},
	{"snoring_sleep_apnea", "Snoring / Sleep Apnea", func(p *apimodel.PredictionInput) *apimodel.BinaryOption { return &p.SnoringSleepApnea }},
	{"anxiety_feeling_doom", "Anxiety / Feeling of Doom", func(p *apimodel.PredictionInput) *apimodel.BinaryOption { return &p.AnxietyFeelingDoom }},
}

// Symptoms lists the symptom flags in form order.
func Symptoms() []Symptom {
	return append([]Symptom(nil), symptoms...)
}

// Toggle flips the symptom named key between 0 and 1.
func Toggle(in *apimodel.PredictionInput, key string) error {
	for _, s := range symptoms {
		if s.Key == key {
			f := s.field(in)
			if *f == apimodel.Yes {
				*f = apimodel.No
			} else {
				*f = apimodel.Yes
			}
			return nil
		}
	}
	return apierrors.Wrapf(apierrors.ErrInvalidRequest, "unknown symptom %q", key)
}
