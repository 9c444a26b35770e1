package qaextract

import (
	"regexp"
	"strings"
)

// markerStrategy handles documents that label both sides explicitly with
// co-located numbered markers:
//
//	Q1: What is the capital of France?
//	A1: Paris
//
// A question marker is only paired with an answer marker carrying the same
// number, and the answer marker must start a new line. Matching is
// case-insensitive and tolerant of '.', ':' and whitespace after the label.
type markerStrategy struct{}

var (
	// Trailing punctuation class deliberately excludes newlines so the
	// question span starts on the marker's own line and the answer marker
	// regexp can anchor on the line break.
	questionMarkRe = regexp.MustCompile(`(?i)(?:q|question)\s*(\d+)[ \t:.]*`)
	answerMarkRe   = regexp.MustCompile(`(?i)\r?\n(?:a|answer)\s*(\d+)[\s:.]*`)
)

func (markerStrategy) Name() string { return "marker" }

func (markerStrategy) TryExtract(text string) []Pair {
	marks := questionMarkRe.FindAllStringSubmatchIndex(text, -1)
	pairs := make([]Pair, 0, len(marks))
	for i, m := range marks {
		num := text[m[2]:m[3]]
		end := len(text)
		if i+1 < len(marks) {
			// The answer span never crosses into the next question marker.
			end = marks[i+1][0]
		}
		seg := text[m[1]:end]
		for _, a := range answerMarkRe.FindAllStringSubmatchIndex(seg, -1) {
			if seg[a[2]:a[3]] != num {
				continue
			}
			question := strings.TrimSpace(seg[:a[0]])
			if question == "" {
				break
			}
			pairs = append(pairs, Pair{
				Num:      num,
				Question: question,
				Answer:   strings.TrimSpace(seg[a[1]:]),
			})
			break
		}
		// A question with no same-numbered answer before the next marker is
		// dropped, not emitted with an empty answer.
	}
	return pairs
}
