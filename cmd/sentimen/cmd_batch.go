package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"sentimen/internal/logging"
	"sentimen/internal/predict"
	"sentimen/internal/report"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	batchJSON        bool
	batchConcurrency int
)

// maxLineBytes bounds one input line; longer lines fail on their own.
const maxLineBytes = 1 << 20

var errLineTooLong = errors.New("line is longer than 1 MiB")

// batchCmd analyzes one text per input line
var batchCmd = &cobra.Command{
	Use:   "batch FILE|-",
	Short: "Analyze every non-blank line of a file (or stdin)",
	Long: `Reads one text per line and analyzes each with both models. Blank lines are
skipped. Output keeps input order. A failed line is reported in place and the
command exits non-zero when any line failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "Print one JSON object per line")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "Parallel requests (default from config)")
}

// batchItem is the outcome of one input line.
type batchItem struct {
	Line   int
	Text   string
	Result *predict.Result
	Err    error
}

func runBatch(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	items, err := readBatch(in)
	if err != nil {
		return err
	}

	limit := cfg.GetConcurrency()
	if batchConcurrency > 0 {
		limit = batchConcurrency
	}

	client := newClient(cfg)
	defer client.CloseIdleConnections()

	analyzeBatch(cmd.Context(), client, items, limit)
	return writeBatch(cmd.OutOrStdout(), items, batchJSON)
}

// readBatch collects the non-blank lines of r, remembering line numbers.
// An over-long line becomes a failed item instead of stopping the read.
func readBatch(r io.Reader) ([]batchItem, error) {
	var items []batchItem
	br := bufio.NewReaderSize(r, 64*1024)
	n := 0
	for {
		line, tooLong, err := readLine(br, maxLineBytes)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		n++
		if tooLong {
			items = append(items, batchItem{Line: n, Err: errLineTooLong})
			continue
		}
		text := strings.TrimSpace(string(line))
		if text == "" {
			continue
		}
		items = append(items, batchItem{Line: n, Text: text})
	}
	return items, nil
}

// readLine returns the next line without its terminator. A line over limit
// bytes is drained and reported as too long with no content.
func readLine(br *bufio.Reader, limit int) ([]byte, bool, error) {
	var line []byte
	tooLong := false
	for {
		frag, isPrefix, err := br.ReadLine()
		if err != nil {
			return nil, false, err
		}
		if !tooLong {
			if len(line)+len(frag) > limit {
				tooLong, line = true, nil
			} else {
				line = append(line, frag...)
			}
		}
		if !isPrefix {
			return line, tooLong, nil
		}
	}
}

// analyzeBatch fills in every item's result, at most limit at a time.
// Workers write to disjoint indices.
func analyzeBatch(ctx context.Context, p predict.Predictor, items []batchItem, limit int) {
	log := logging.Get(logging.CategoryBatch)
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(limit)
	for i := range items {
		if items[i].Err != nil {
			continue
		}
		i := i
		g.Go(func() error {
			id := uuid.NewString()
			items[i].Result, items[i].Err = p.Predict(predict.WithRequestID(ctx, id), items[i].Text)
			if items[i].Err != nil {
				log.Warn("line failed", zap.Int("line", items[i].Line), zap.String("request_id", id), zap.Error(items[i].Err))
			}
			return nil
		})
	}
	_ = g.Wait()

	log.Info("batch finished",
		zap.Int("lines", len(items)),
		zap.Int("concurrency", limit),
		zap.Duration("elapsed", time.Since(start)))
}

type batchPanelJSON struct {
	Sentiment  string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
}

type batchLineJSON struct {
	Line         int             `json:"line"`
	Text         string          `json:"text"`
	Imbalanced   *batchPanelJSON `json:"imbalanced,omitempty"`
	Balanced     *batchPanelJSON `json:"balanced,omitempty"`
	Disagreement bool            `json:"disagreement,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// writeBatch prints items in input order and reports whether any failed.
func writeBatch(out io.Writer, items []batchItem, asJSON bool) error {
	failed := 0
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)

	for _, it := range items {
		if it.Err != nil {
			failed++
		}
		if asJSON {
			line := batchLineJSON{Line: it.Line, Text: it.Text}
			if it.Err != nil {
				line.Error = predict.UserMessage(it.Err)
			} else {
				r := report.Build(it.Result)
				line.Imbalanced = &batchPanelJSON{Sentiment: r.Imbalanced.Sentiment, Confidence: r.Imbalanced.Confidence}
				line.Balanced = &batchPanelJSON{Sentiment: r.Balanced.Sentiment, Confidence: r.Balanced.Confidence}
				line.Disagreement = r.Disagreement
			}
			if err := enc.Encode(line); err != nil {
				return err
			}
			continue
		}

		if _, err := fmt.Fprintln(out, formatBatchLine(it)); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d lines failed", failed, len(items))
	}
	return nil
}

func formatBatchLine(it batchItem) string {
	if it.Err != nil {
		return fmt.Sprintf("%4d  error: %s  | %s", it.Line, predict.UserMessage(it.Err), truncate(it.Text, 60))
	}
	r := report.Build(it.Result)
	mark := ""
	if r.Disagreement {
		mark = "  ⚠"
	}
	return fmt.Sprintf("%4d  imbalanced=%s (%s)  balanced=%s (%s)%s  | %s",
		it.Line,
		r.Imbalanced.Badge, r.Imbalanced.ConfidenceText,
		r.Balanced.Badge, r.Balanced.ConfidenceText,
		mark, truncate(it.Text, 60))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
