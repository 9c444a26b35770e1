package qaextract

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestExtract_MarkerRoundTrip(t *testing.T) {
	questions := []string{"What is 2+2?", "Capital of France?", "Largest planet?"}
	answers := []string{"4", "Paris", "Jupiter"}
	var sb strings.Builder
	for i := range questions {
		fmt.Fprintf(&sb, "Q%d: %s\nA%d: %s\n", i+1, questions[i], i+1, answers[i])
	}

	pairs := Extract(sb.String())
	if len(pairs) != len(questions) {
		t.Fatalf("expected %d pairs, got %d: %v", len(questions), len(pairs), pairs)
	}
	for i, p := range pairs {
		want := Pair{Num: fmt.Sprintf("%d", i+1), Question: questions[i], Answer: answers[i]}
		if p != want {
			t.Errorf("pair %d: got %+v, want %+v", i, p, want)
		}
	}
}

func TestExtract_PositionalRoundTrip(t *testing.T) {
	questions := []string{"What is 2+2?", "Capital of France?"}
	answers := []string{"4", "Paris"}
	var sb strings.Builder
	for i := range questions {
		fmt.Fprintf(&sb, "%d. %s\nAnswer: %s\n", i+1, questions[i], answers[i])
	}

	pairs := Extract(sb.String())
	if len(pairs) != len(questions) {
		t.Fatalf("expected %d pairs, got %d: %v", len(questions), len(pairs), pairs)
	}
	for i, p := range pairs {
		want := Pair{Num: fmt.Sprintf("%d", i+1), Question: questions[i], Answer: answers[i]}
		if p != want {
			t.Errorf("pair %d: got %+v, want %+v", i, p, want)
		}
	}
}

func TestExtract_FirstStrategyWins(t *testing.T) {
	// Matches the marker strategy for one pair; the numbered item below would
	// yield a second, different pair under the positional strategy. Only the
	// marker result may be returned.
	text := "Q1: alpha\nA1: beta\n2. gamma\nAnswer: delta\n"
	pairs := Extract(text)
	if len(pairs) != 1 {
		t.Fatalf("expected exactly 1 pair from the marker strategy, got %d: %v", len(pairs), pairs)
	}
	if pairs[0].Num != "1" || pairs[0].Question != "alpha" {
		t.Fatalf("unexpected pair: %+v", pairs[0])
	}
	// The unmatched numbered item is swallowed into the answer span, proving
	// the positional strategy never ran.
	if !strings.Contains(pairs[0].Answer, "gamma") {
		t.Fatalf("expected answer to absorb trailing text, got %q", pairs[0].Answer)
	}
}

func TestExtract_DanglingQuestionDropped(t *testing.T) {
	text := "Q1: first?\nA1: yes\nQ5: orphan question"
	pairs := Extract(text)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d: %v", len(pairs), pairs)
	}
	for _, p := range pairs {
		if p.Num == "5" {
			t.Fatalf("orphan question must not be emitted: %+v", p)
		}
	}
}

func TestExtract_EmptyAndGarbageInput(t *testing.T) {
	for _, text := range []string{
		"",
		"the quick brown fox",
		"\x00\xff\xfe binary garbage \x01\x02",
		strings.Repeat("x", 3000),
	} {
		if pairs := Extract(text); len(pairs) != 0 {
			t.Errorf("Extract(%.20q) = %v, want empty", text, pairs)
		}
	}
}

func TestExtract_CaseInsensitiveMarkers(t *testing.T) {
	loose := Extract("question 1: X\nanswer 1: Y\n")
	tight := Extract("Q1:X\nA1:Y\n")
	if !reflect.DeepEqual(loose, tight) {
		t.Fatalf("case/punctuation variants disagree: %v vs %v", loose, tight)
	}
	if len(loose) != 1 || loose[0].Question != "X" || loose[0].Answer != "Y" {
		t.Fatalf("unexpected result: %v", loose)
	}
}

func TestExtract_EndToEnd(t *testing.T) {
	pairs := Extract("Q1: What is 2+2?\nA1: 4\nQ2: Capital of France?\nA2: Paris\n")
	want := []Pair{
		{Num: "1", Question: "What is 2+2?", Answer: "4"},
		{Num: "2", Question: "Capital of France?", Answer: "Paris"},
	}
	if !reflect.DeepEqual(pairs, want) {
		t.Fatalf("got %v, want %v", pairs, want)
	}
}

func TestExtract_DuplicateNumbersKept(t *testing.T) {
	text := "Q1: first version?\nA1: one\nQ1: second version?\nA1: two\n"
	pairs := Extract(text)
	if len(pairs) != 2 {
		t.Fatalf("duplicate numbers must not be deduplicated, got %v", pairs)
	}
	if pairs[0].Num != "1" || pairs[1].Num != "1" {
		t.Fatalf("expected both pairs numbered 1, got %v", pairs)
	}
	if pairs[0].Answer != "one" || pairs[1].Answer != "two" {
		t.Fatalf("expected document order preserved, got %v", pairs)
	}
}

func TestExtract_MarkerAllowsEmptyAnswer(t *testing.T) {
	text := "Q1: What?\nA1:\nQ2: More?\nA2: done\n"
	pairs := Extract(text)
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %v", pairs)
	}
	if pairs[0].Answer != "" {
		t.Fatalf("expected empty answer for first pair, got %q", pairs[0].Answer)
	}
}

func TestExtract_MismatchedAnswerNumberIgnored(t *testing.T) {
	// A3 does not pair with Q1; with no same-numbered answer anywhere the
	// marker strategy yields nothing and the line scan takes over. The bare
	// answer label line still satisfies the scan's answer transition.
	text := "Q1: What color is the sky?\nA3: blue\n"
	pairs := Extract(text)
	if len(pairs) != 1 {
		t.Fatalf("expected line-scan fallback to produce 1 pair, got %v", pairs)
	}
	if pairs[0].Num != "1" {
		t.Fatalf("expected question number from the question line, got %+v", pairs[0])
	}
}

func TestLineScan_OverwritesPendingQuestion(t *testing.T) {
	// No co-located numbered answers and no bare numbered lines, so the line
	// scan runs. The second question line replaces the first before any
	// answer arrives; only the second is emitted.
	text := "Q1: first?\nQ2: second?\nAnswer: yes\n"
	pairs := Extract(text)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %v", pairs)
	}
	want := Pair{Num: "2", Question: "second?", Answer: "yes"}
	if pairs[0] != want {
		t.Fatalf("got %+v, want %+v", pairs[0], want)
	}
}

func TestLineScan_TrailingPendingDiscarded(t *testing.T) {
	if pairs := Extract("Q3: lonely question?"); len(pairs) != 0 {
		t.Fatalf("unanswered trailing question must be discarded, got %v", pairs)
	}
}

func TestLineScan_BareNumberedLineOnlyWhenIdle(t *testing.T) {
	// The indented answer label defeats the whole-text strategies (both
	// require the label at a line start), so the line scan runs. While Q1 is
	// pending the bare numbered line must not overwrite it; the answer then
	// closes Q1.
	text := "Q1: real question?\n7. distractor item\n   Answer: forty-two\n"
	pairs := Extract(text)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %v", pairs)
	}
	if pairs[0].Num != "1" || pairs[0].Answer != "forty-two" {
		t.Fatalf("unexpected pair: %+v", pairs[0])
	}
}

func TestExtract_MalformedNumbersSkipped(t *testing.T) {
	if pairs := Extract("Qx: no number here\nAx: still none\n"); len(pairs) != 0 {
		t.Fatalf("non-numeric markers must not match, got %v", pairs)
	}
}

func TestPositional_ItemWithoutAnswerLabelDropped(t *testing.T) {
	text := "1. Where is Oslo?\nAnswer: Norway\n2. orphan item with no label\n"
	pairs := Extract(text)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %v", pairs)
	}
	if pairs[0].Num != "1" || pairs[0].Answer != "Norway" {
		t.Fatalf("unexpected pair: %+v", pairs[0])
	}
}

func TestPositional_MultilineQuestion(t *testing.T) {
	text := "1. Where is the city\nof Oslo located?\nAnswer: Norway\n"
	pairs := Extract(text)
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %v", pairs)
	}
	if !strings.Contains(pairs[0].Question, "Oslo") {
		t.Fatalf("expected question to span lines, got %q", pairs[0].Question)
	}
	if pairs[0].Answer != "Norway" {
		t.Fatalf("unexpected answer: %q", pairs[0].Answer)
	}
}

func TestExtract_LongAdversarialInputBounded(t *testing.T) {
	// One enormous line with marker-ish fragments; must neither hang nor
	// panic, and the cap keeps total work bounded.
	frag := "Q 12 almost a marker but never an answer "
	text := strings.Repeat(frag, (maxScanBytes/len(frag))+10)
	_ = Extract(text)
}
