// Package scanner turns extracted statement text into flagged transaction
// records. A scan is a pure function of its input and the Scanner's
// configuration.
package scanner

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/statement-flagger/internal/models"
	"github.com/insightdelivered/statement-flagger/internal/parser"
	"github.com/insightdelivered/statement-flagger/internal/rules"
)

const (
	DefaultMaxDescription = 200
	ellipsis              = "..."
)

// DefaultSkipMarkers flag statement summary lines that are dropped before
// amount extraction. Matching is a case-insensitive substring test, so a
// transaction mentioning "total" is dropped as well.
var DefaultSkipMarkers = []string{
	"beginning balance",
	"ending balance",
	"total",
	"withdrawals",
	"deposits and additions",
}

// Options configures line filtering, description truncation and fan-out.
type Options struct {
	SkipMarkers    []string
	MaxDescription int
	Workers        int
}

// DefaultOptions returns the stock skip markers, a 200-character
// description limit and sequential scanning.
func DefaultOptions() Options {
	return Options{
		SkipMarkers:    append([]string(nil), DefaultSkipMarkers...),
		MaxDescription: DefaultMaxDescription,
		Workers:        1,
	}
}

// Scanner is safe for concurrent use.
type Scanner struct {
	evaluator      *rules.Evaluator
	skipMarkers    []string
	maxDescription int
	workers        int
	log            zerolog.Logger
}

// New builds a Scanner from a rule set and options. Zero-valued options
// fall back to the defaults.
func New(cfg rules.Config, opts Options) *Scanner {
	s := &Scanner{
		evaluator:      rules.NewEvaluator(cfg),
		maxDescription: opts.MaxDescription,
		workers:        opts.Workers,
		log:            zerolog.Nop(),
	}
	if s.maxDescription <= len(ellipsis) {
		s.maxDescription = DefaultMaxDescription
	}
	if s.workers < 1 {
		s.workers = 1
	}
	for _, m := range opts.SkipMarkers {
		if strings.TrimSpace(m) == "" {
			continue
		}
		s.skipMarkers = append(s.skipMarkers, rules.Fold(m))
	}
	return s
}

// NewDefault builds a Scanner with the stock rules and options.
func NewDefault() *Scanner {
	return New(rules.DefaultConfig(), DefaultOptions())
}

// WithLogger returns a copy of the scanner that logs a debug summary per scan.
func (s *Scanner) WithLogger(l zerolog.Logger) *Scanner {
	cp := *s
	cp.log = l
	return &cp
}

// Scan returns the flagged records of text in source line order. Empty text
// yields nil.
func (s *Scanner) Scan(text string) []models.TransactionRecord {
	return s.ScanDetailed(text).Records
}

// ScanDetailed is Scan plus per-line outcomes and counts.
func (s *Scanner) ScanDetailed(text string) models.ScanResult {
	lines := splitLines(text)
	outcomes := make([]lineOutcome, len(lines))
	for i, l := range lines {
		outcomes[i] = s.scanLine(l)
	}
	return s.assemble(text, outcomes)
}

// ScanContext spreads the per-line work over the configured number of
// workers. The result is identical to ScanDetailed; only cancellation of
// ctx produces an error.
func (s *Scanner) ScanContext(ctx context.Context, text string) (models.ScanResult, error) {
	lines := splitLines(text)
	outcomes := make([]lineOutcome, len(lines))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	chunk := (len(lines) + s.workers - 1) / s.workers
	for start := 0; start < len(lines); start += chunk {
		end := min(start+chunk, len(lines))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				outcomes[i] = s.scanLine(lines[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.ScanResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.ScanResult{}, err
	}
	return s.assemble(text, outcomes), nil
}

type lineOutcome struct {
	debug  models.DebugLine
	record *models.TransactionRecord
}

func (s *Scanner) scanLine(l line) lineOutcome {
	out := lineOutcome{debug: models.DebugLine{LineNum: l.num, Text: l.text}}

	if s.isSummaryLine(l.match) {
		out.debug.Result = models.ResultSummary
		return out
	}

	amounts := parser.ExtractAmounts(l.match)
	out.debug.Amounts = len(amounts)
	if len(amounts) == 0 {
		out.debug.Result = models.ResultNoAmount
		return out
	}

	reasons := s.evaluator.Evaluate(l.match, amounts)
	if len(reasons) == 0 {
		out.debug.Result = models.ResultNotFlagged
		return out
	}

	amount, _ := parser.MainAmount(amounts)
	out.debug.Result = models.ResultFlagged
	out.record = &models.TransactionRecord{
		Date:        parser.ExtractDate(l.match),
		Description: truncate(l.text, s.maxDescription),
		Amount:      amount,
		FlagReasons: reasons,
	}
	return out
}

func (s *Scanner) assemble(text string, outcomes []lineOutcome) models.ScanResult {
	res := models.ScanResult{
		Institution: parser.DetectInstitution(text),
		LinesTotal:  len(outcomes),
	}
	for _, o := range outcomes {
		res.DebugLines = append(res.DebugLines, o.debug)
		if o.record == nil {
			res.LinesSkipped++
			continue
		}
		res.Records = append(res.Records, *o.record)
	}

	s.log.Debug().
		Int("lines", res.LinesTotal).
		Int("skipped", res.LinesSkipped).
		Int("flagged", len(res.Records)).
		Msg("scan complete")
	return res
}

func (s *Scanner) isSummaryLine(text string) bool {
	folded := rules.Fold(text)
	for _, m := range s.skipMarkers {
		if strings.Contains(folded, m) {
			return true
		}
	}
	return false
}

// truncate cuts text to limit characters, the last three being an ellipsis.
func truncate(text string, limit int) string {
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:limit-len(ellipsis)]) + ellipsis
}
