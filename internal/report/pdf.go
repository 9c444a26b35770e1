package report

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/docugrade/docugrade/internal/evaluate"
)

// WritePDF renders the report as a minimal A4 PDF: a grade header followed by
// one block per question. This is intentionally simple and does not attempt
// rich layout.
func WritePDF(r Report, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Assignment Evaluation", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, fmt.Sprintf("Grade: %s (%.0f%%, %d of %d correct)",
		r.Grade.Letter, r.Grade.Percentage, r.Grade.CorrectCount, r.Grade.TotalCount), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 5, r.Grade.Feedback, "", "L", false)
	pdf.Ln(4)

	for _, v := range r.Results {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(0, 6, fmt.Sprintf("Question %s: %s", v.QuestionNum, v.Question), "", "L", false)
		pdf.SetFont("Helvetica", "", 11)

		pdf.MultiCell(0, 5, "Your answer: "+v.UserAnswer, "", "L", false)
		pdf.MultiCell(0, 5, "Result: "+verdictLabel(v), "", "L", false)
		if v.CorrectAnswer != "" {
			pdf.MultiCell(0, 5, "Correct answer: "+v.CorrectAnswer, "", "L", false)
		}
		if v.Explanation != "" {
			pdf.MultiCell(0, 5, "Explanation: "+v.Explanation, "", "L", false)
		}
		if v.Suggestion != "" {
			pdf.MultiCell(0, 5, "Suggestion: "+v.Suggestion, "", "L", false)
		}
		pdf.Ln(4)
	}

	return pdf.OutputFileAndClose(outPath)
}

func verdictLabel(v evaluate.Verdict) string {
	switch {
	case v.Err != "":
		return "evaluation failed"
	case v.IsCorrect == nil:
		return "could not be determined"
	case *v.IsCorrect:
		return "correct"
	default:
		return "incorrect"
	}
}
