package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/insightdelivered/statement-flagger/internal/extractor"
	"github.com/insightdelivered/statement-flagger/internal/logger"
	"github.com/insightdelivered/statement-flagger/internal/models"
	"github.com/insightdelivered/statement-flagger/internal/scanner"
	"github.com/insightdelivered/statement-flagger/internal/writer"
)

const stdinPath = "-"

var errInputTooLarge = errors.New("input exceeds server.max_input_bytes")

type scanOptions struct {
	output    string
	threshold float64
	keywords  []string
	workers   int
	header    bool
	debug     bool
	maxBytes  int
}

func newScanCommand(configPath *string) *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan <statement.pdf|statement.txt|-> [more files...]",
		Short: "Scan statements and write flagged transactions to CSV",
		Example: `  # Flag a PDF statement, writing statement.flagged.csv
  statement-flagger scan statement.pdf

  # Custom threshold and keywords
  statement-flagger scan --threshold 5000 --keyword royalty --keyword "trust fund" jan.txt

  # Read extracted text from stdin, CSV to stdout
  pdftotext -layout statement.pdf - | statement-flagger scan -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "" && len(args) > 1 {
				return errors.New("--output can only be used with a single input file")
			}

			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("threshold") {
				cfg.Rules.AmountThreshold = opts.threshold
			}
			if flags.Changed("keyword") {
				cfg.Rules.Keywords = opts.keywords
			}
			if flags.Changed("workers") {
				cfg.Scanner.Workers = opts.workers
			}
			if opts.debug {
				cfg.Log.Level = "debug"
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			opts.maxBytes = cfg.Server.MaxInputBytes

			log := newLogger(cfg)
			ctx := logger.WithContext(cmdContext(cmd), log)
			s := cfg.NewScanner().WithLogger(log)

			for _, path := range args {
				if err := processFile(ctx, cmd, s, path, opts); err != nil {
					return fmt.Errorf("processing %s: %w", path, err)
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output CSV path (defaults to <input>.flagged.csv; stdout for -)")
	f.Float64Var(&opts.threshold, "threshold", 0, "flag amounts at or above this absolute value")
	f.StringArrayVar(&opts.keywords, "keyword", nil, "review keyword, repeatable; replaces the configured list")
	f.IntVar(&opts.workers, "workers", 1, "goroutines used to scan lines")
	f.BoolVar(&opts.header, "header", true, "include scan summary rows in the CSV")
	f.BoolVar(&opts.debug, "debug", false, "print what happened to every line")

	return cmd
}

func processFile(ctx context.Context, cmd *cobra.Command, s *scanner.Scanner, path string, opts scanOptions) error {
	log := logger.FromContext(ctx)
	out := cmd.OutOrStdout()
	fromStdin := path == stdinPath

	var text string
	if fromStdin {
		data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), int64(opts.maxBytes)+1))
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		text = string(data)
	} else {
		fmt.Fprintf(out, "Processing: %s\n", path)
		extracted, err := extractor.ExtractText(path)
		if err != nil {
			return fmt.Errorf("text extraction failed: %w", err)
		}
		text = extracted
	}
	if len(text) > opts.maxBytes {
		return fmt.Errorf("%w (%d bytes)", errInputTooLarge, opts.maxBytes)
	}

	res, err := s.ScanContext(ctx, text)
	if err != nil {
		return err
	}
	res.ID = uuid.NewString()
	res.Source = filepath.Base(path)
	if fromStdin {
		res.Source = "stdin"
	}

	log.Info().
		Str("scan_id", res.ID).
		Str("source", res.Source).
		Int("lines", res.LinesTotal).
		Int("flagged", len(res.Records)).
		Msg("statement scanned")

	w := &writer.CSVWriter{IncludeHeader: opts.header}
	if fromStdin && opts.output == "" {
		return w.Write(out, &res)
	}

	outPath := opts.output
	if outPath == "" {
		outPath = strings.TrimSuffix(path, filepath.Ext(path)) + ".flagged.csv"
	}
	if err := w.WriteToFile(outPath, &res); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}

	fmt.Fprintf(out, "  Scanned %d line(s), flagged %d\n", res.LinesTotal, len(res.Records))
	if len(res.Records) > 0 {
		if err := writer.WriteTable(out, res.Records); err != nil {
			return err
		}
	}
	if opts.debug {
		printDebugLines(out, res.DebugLines)
	}
	fmt.Fprintf(out, "  Output: %s\n", outPath)
	return nil
}

func printDebugLines(out io.Writer, lines []models.DebugLine) {
	for _, l := range lines {
		fmt.Fprintf(out, "  [%4d] %-11s %s\n", l.LineNum, l.Result, l.Text)
	}
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
