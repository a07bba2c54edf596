package rules

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
)

// Evaluator applies a Config to statement lines. It is safe for concurrent
// use; nothing is mutated after construction.
type Evaluator struct {
	threshold    float64
	amountReason string
	keywords     []keyword
}

type keyword struct {
	folded string
	reason string
}

// NewEvaluator copies cfg so later changes to the caller's slices have no
// effect. Blank keywords are ignored.
func NewEvaluator(cfg Config) *Evaluator {
	e := &Evaluator{}
	for _, r := range cfg.Rules() {
		switch r.Kind {
		case KindAmount:
			e.threshold = r.Threshold
			e.amountReason = r.Reason()
		case KindKeyword:
			if strings.TrimSpace(r.Keyword) == "" {
				continue
			}
			e.keywords = append(e.keywords, keyword{
				folded: Fold(r.Keyword),
				reason: r.Reason(),
			})
		}
	}
	return e
}

// Evaluate returns the flag reasons for a line. The amount reason, if any,
// comes before the keyword reason. An empty result means not flagged.
func (e *Evaluator) Evaluate(line string, amounts []float64) []string {
	var reasons []string

	for _, a := range amounts {
		if math.Abs(a) >= e.threshold {
			reasons = append(reasons, e.amountReason)
			break
		}
	}

	folded := Fold(line)
	for _, kw := range e.keywords {
		if strings.Contains(folded, kw.folded) {
			reasons = append(reasons, kw.reason)
			break
		}
	}

	return reasons
}

// Fold case-folds s for case-insensitive substring matching.
// cases.Caser is stateful, so a fresh one is built per call.
func Fold(s string) string {
	return cases.Fold().String(s)
}
