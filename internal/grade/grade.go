// Package grade reduces per-question verdicts to an overall letter grade.
package grade

import (
	"errors"

	"github.com/docugrade/docugrade/internal/evaluate"
)

// Summary is the aggregate grade over all verdicts for one document.
type Summary struct {
	Letter       string  `json:"letter"`
	Percentage   float64 `json:"percentage"`
	CorrectCount int     `json:"correct_count"`
	TotalCount   int     `json:"total_count"`
	Feedback     string  `json:"feedback"`
}

// ErrNoVerdicts is returned for the degenerate zero-verdict input, where the
// percentage is undefined. Callers are expected to short-circuit documents
// with no extracted pairs before grading.
var ErrNoVerdicts = errors.New("no verdicts to grade")

// Assign computes the percentage and letter grade. Indeterminate and errored
// verdicts count against the student the same way a wrong answer does: only
// an explicit is_correct=true is credited.
func Assign(verdicts []evaluate.Verdict) (Summary, error) {
	total := len(verdicts)
	if total == 0 {
		return Summary{}, ErrNoVerdicts
	}
	correct := 0
	for _, v := range verdicts {
		if v.Err == "" && v.IsCorrect != nil && *v.IsCorrect {
			correct++
		}
	}
	pct := 100 * float64(correct) / float64(total)
	letter := letterFor(pct)
	return Summary{
		Letter:       letter,
		Percentage:   pct,
		CorrectCount: correct,
		TotalCount:   total,
		Feedback:     feedbackFor(letter),
	}, nil
}

func letterFor(pct float64) string {
	switch {
	case pct >= 90:
		return "A"
	case pct >= 80:
		return "B"
	case pct >= 70:
		return "C"
	case pct >= 60:
		return "D"
	default:
		return "F"
	}
}

func feedbackFor(letter string) string {
	switch letter {
	case "A":
		return "Excellent work. Nearly every answer is correct."
	case "B":
		return "Good work, with a few answers to revisit."
	case "C":
		return "Fair. Review the explanations for the missed questions."
	case "D":
		return "Below expectations. Work through the suggestions carefully."
	default:
		return "Most answers were incorrect. A thorough review is needed."
	}
}
