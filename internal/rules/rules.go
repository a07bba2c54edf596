// Package rules holds the flag rule configuration and the evaluator that
// turns a statement line and its amounts into human-readable flag reasons.
package rules

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// Kind names a rule category. At most one reason is emitted per kind.
type Kind string

const (
	KindAmount  Kind = "amount"
	KindKeyword Kind = "keyword"
)

const DefaultAmountThreshold = 10000

// DefaultKeywords are matched case-insensitively, first match wins.
var DefaultKeywords = []string{
	"life insurance",
	"pension",
	"annuity",
	"dividend",
	"unknown account",
}

// Rule is a single flag rule: an amount threshold or a keyword.
type Rule struct {
	Kind      Kind
	Threshold float64
	Keyword   string
}

// Config is the immutable rule set handed to NewEvaluator.
type Config struct {
	AmountThreshold float64
	Keywords        []string
}

// DefaultConfig returns the stock threshold and keyword list.
func DefaultConfig() Config {
	return Config{
		AmountThreshold: DefaultAmountThreshold,
		Keywords:        append([]string(nil), DefaultKeywords...),
	}
}

// Validate checks the threshold is a non-negative number and that no
// keyword is blank.
func (c Config) Validate() error {
	if math.IsNaN(c.AmountThreshold) || c.AmountThreshold < 0 {
		return fmt.Errorf("amount threshold must be non-negative, got %v", c.AmountThreshold)
	}
	for i, kw := range c.Keywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("keyword %d: %w", i, errEmptyKeyword)
		}
	}
	return nil
}

var errEmptyKeyword = errors.New("empty keyword")

// Rules lists the configured rules in evaluation order.
func (c Config) Rules() []Rule {
	out := make([]Rule, 0, len(c.Keywords)+1)
	out = append(out, Rule{Kind: KindAmount, Threshold: c.AmountThreshold})
	for _, kw := range c.Keywords {
		out = append(out, Rule{Kind: KindKeyword, Keyword: kw})
	}
	return out
}

// Reason renders the flag reason text for the rule.
func (r Rule) Reason() string {
	switch r.Kind {
	case KindAmount:
		return "Amount over $" + humanize.Commaf(r.Threshold)
	case KindKeyword:
		return fmt.Sprintf("Keyword: %q", r.Keyword)
	}
	return ""
}
