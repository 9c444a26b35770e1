package qaextract

import (
	"github.com/rs/zerolog/log"
)

// Pair is one extracted question/answer unit. Num carries the explicit
// number from the source document when one was present; strategies that
// infer numbering assign ordinals in document order.
type Pair struct {
	Num      string `json:"question_num"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Strategy is a single self-contained extraction algorithm. Implementations
// must be deterministic, pure, and must never panic on any input; an empty
// slice signals "no recognizable structure" so the chain can move on.
type Strategy interface {
	Name() string
	TryExtract(text string) []Pair
}

// maxScanBytes caps the text handed to the strategies. Matching is already
// linear-time (RE2), the cap additionally bounds total work on pathological
// inputs such as megabyte-long single lines.
const maxScanBytes = 1 << 20

// chain lists the strategies in priority order. Only the first non-empty
// result is used; outputs are never merged across strategies because the
// source documents cannot support conflict resolution between overlapping
// matches.
var chain = []Strategy{
	markerStrategy{},
	positionalStrategy{},
	lineScanStrategy{},
}

// Extract recovers question/answer pairs from a linear text stream. It tries
// each strategy in order and returns the first non-empty result, in document
// order of the question. An empty slice is a valid result meaning the text
// has no recognizable question/answer structure; Extract never fails.
func Extract(text string) []Pair {
	if text == "" {
		return nil
	}
	if len(text) > maxScanBytes {
		text = text[:maxScanBytes]
	}
	for _, s := range chain {
		if pairs := s.TryExtract(text); len(pairs) > 0 {
			log.Debug().Str("strategy", s.Name()).Int("pairs", len(pairs)).Msg("extracted question/answer pairs")
			return pairs
		}
	}
	log.Debug().Msg("no question/answer structure recognized")
	return nil
}
