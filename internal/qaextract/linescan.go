package qaextract

import (
	"bufio"
	"regexp"
	"strings"
)

// lineScanStrategy is the last resort when neither marker style matches the
// whole text: a single forward pass over non-empty lines with one piece of
// state, the question seen most recently and not yet answered.
//
// Transitions:
//   - a labeled question line always (re)sets the pending question; the
//     previously pending question, if any, is discarded without emitting
//   - a bare numbered line only sets the pending question when none is pending
//   - an answer-labeled line while a question is pending emits a pair and
//     clears the pending slot
//   - a pending question left at end of scan is discarded
type lineScanStrategy struct{}

var (
	scanQuestionRe = regexp.MustCompile(`(?i)^(?:q|question)\s*(\d+)[\s:.]*(.+)$`)
	scanNumberedRe = regexp.MustCompile(`^(\d+)[.:)]\s*(.+)$`)
	scanAnswerRe   = regexp.MustCompile(`(?i)^(?:answer|ans|a)[\s:.]*(.+)$`)
)

func (lineScanStrategy) Name() string { return "linescan" }

type pendingQuestion struct {
	num  string
	text string
}

func (lineScanStrategy) TryExtract(text string) []Pair {
	var pairs []Pair
	var pending *pendingQuestion

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), maxScanBytes)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if m := scanQuestionRe.FindStringSubmatch(line); m != nil {
			pending = &pendingQuestion{num: m[1], text: strings.TrimSpace(m[2])}
			continue
		}
		if pending == nil {
			if m := scanNumberedRe.FindStringSubmatch(line); m != nil {
				pending = &pendingQuestion{num: m[1], text: strings.TrimSpace(m[2])}
				continue
			}
		}
		if pending != nil {
			if m := scanAnswerRe.FindStringSubmatch(line); m != nil {
				pairs = append(pairs, Pair{
					Num:      pending.num,
					Question: pending.text,
					Answer:   strings.TrimSpace(m[1]),
				})
				pending = nil
			}
		}
	}
	// An unanswered pending question at end of scan is dropped.
	return pairs
}
