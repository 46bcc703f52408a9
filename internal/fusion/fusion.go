// Package fusion combines the two classifier scores into one screening
// recommendation.
package fusion

// Threshold is the positive/negative cut point for both model scores.
const Threshold = 0.5

// Result is the fused screening outcome plus the narrative shown in the
// report.
type Result struct {
	Source       string
	Message      string
	NextSteps    string
	HeatmapGuide string
	Confidence   float64
	Positive     bool
}

const positiveHeatmapGuide = `The heatmap analysis of your drawings shows areas of potential concern:

• Red regions indicate significant inconsistencies in drawing patterns

• Yellow areas show moderate variations from expected patterns

• Blue areas represent slight deviations from typical drawing characteristics

These highlighted regions are analyzed by our AI model to detect early indicators of Parkinson's disease.`

// Fuse applies the conjunctive decision rule. A positive overall result
// requires both scores above the threshold; either score at or below it
// forces a negative, with the confidence deliberately taken from the
// negative model's (low) score. The spiral score is checked first — that
// ordering is a tie-break, not an accident.
func Fuse(spiral, wave float64) Result {
	var result Result
	switch {
	case spiral <= Threshold:
		result.Positive = false
		result.Confidence = spiral
		result.Source = "Negative"
	case wave <= Threshold:
		result.Positive = false
		result.Confidence = wave
		result.Source = "Negative"
	default:
		result.Positive = true
		result.Confidence = max(spiral, wave)
		result.Source = "Positive"
	}

	if result.Confidence <= Threshold {
		result.Message = "No significant indicators of Parkinson's disease detected"
		result.NextSteps = "Continue with regular health check-ups and maintain a healthy lifestyle. " +
			"If you have any concerns, consult with your healthcare provider during your next routine visit."
		result.HeatmapGuide = "The analysis shows minimal to no areas of concern in your drawings. " +
			"The heatmap highlights are within normal ranges."
	} else {
		result.Message = "Our analysis indicates potential early signs of Parkinson's disease"
		result.NextSteps = "We recommend consulting a neurologist within the next 2-4 weeks for a professional evaluation."
		result.HeatmapGuide = positiveHeatmapGuide
	}
	return result
}
