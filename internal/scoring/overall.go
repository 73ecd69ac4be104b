package scoring

// Verdict is the coarse classification of a repurposing score.
type Verdict string

const (
	VerdictHigh     Verdict = "High potential - recommend further development"
	VerdictModerate Verdict = "Moderate potential - further investigation warranted"
	VerdictLow      Verdict = "Low potential - deprioritize"
)

const (
	highThreshold     = 0.75
	moderateThreshold = 0.45
)

// VerdictFor maps a rounded score onto its verdict band.
func VerdictFor(score float64) Verdict {
	if score >= highThreshold {
		return VerdictHigh
	} else if score >= moderateThreshold {
		return VerdictModerate
	}
	return VerdictLow
}
