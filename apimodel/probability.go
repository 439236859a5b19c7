package apimodel

import "fmt"

// Probability maps a class label to its probability. Depending on the model
// the service labels classes "at_risk"/"not_at_risk" or "1"/"0".
type Probability map[string]float64

const (
	labelAtRisk       = "at_risk"
	labelAtRiskNum    = "1"
	labelNotAtRisk    = "not_at_risk"
	labelNotAtRiskNum = "0"
)

// Risk resolves the at-risk probability, 0 when neither spelling is present.
func (p Probability) Risk() float64 {
	return p.first(labelAtRisk, labelAtRiskNum)
}

// Safe resolves the not-at-risk probability, 0 when neither spelling is present.
func (p Probability) Safe() float64 {
	return p.first(labelNotAtRisk, labelNotAtRiskNum)
}

func (p Probability) first(keys ...string) float64 {
	for _, k := range keys {
		if v, ok := p[k]; ok {
			return v
		}
	}
	return 0
}

// Percent renders a probability as a percentage with one decimal, e.g. "87.5".
func Percent(v float64) string {
	return fmt.Sprintf("%.1f", v*100)
}
