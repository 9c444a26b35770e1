package qaextract

import (
	"regexp"
	"strings"
)

// positionalStrategy handles numbered-list documents where the answer is
// introduced by a bare label rather than a matching number:
//
//	1. What is the capital of France?
//	Answer: Paris
//
// The numeric token must start a line; the answer label must start a line
// inside the span between two numbered items. An item whose span contains no
// answer label yields nothing.
type positionalStrategy struct{}

var (
	numberedLineRe = regexp.MustCompile(`(?m)^(\d+)[.:)][ \t]*`)
	// Alternation is ordered longest-first so "Answer:" is consumed as the
	// full label rather than a bare "a".
	answerLabelRe = regexp.MustCompile(`(?i)\r?\n(?:answer|ans|a)[\s:.]*`)
)

func (positionalStrategy) Name() string { return "positional" }

func (positionalStrategy) TryExtract(text string) []Pair {
	marks := numberedLineRe.FindAllStringSubmatchIndex(text, -1)
	pairs := make([]Pair, 0, len(marks))
	for i, m := range marks {
		num := text[m[2]:m[3]]
		end := len(text)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}
		seg := text[m[1]:end]
		loc := answerLabelRe.FindStringIndex(seg)
		if loc == nil {
			continue
		}
		question := strings.TrimSpace(seg[:loc[0]])
		if question == "" {
			continue
		}
		pairs = append(pairs, Pair{
			Num:      num,
			Question: question,
			Answer:   strings.TrimSpace(seg[loc[1]:]),
		})
	}
	return pairs
}
