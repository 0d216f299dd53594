package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"sentimen/cmd/sentimen/ui"
	"sentimen/internal/analysis"
	"sentimen/internal/predict"
	"sentimen/internal/report"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	analyzeJSON  bool
	analyzeModel string
)

// analyzeCmd runs one analysis cycle and prints the result
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Analyze a piece of text with both models",
	Long: `Sends the text to the inference service and prints the imbalanced and
balanced model panels. With --model only that model's endpoint is used.

Example:
  sentimen analyze "pelayanannya sangat memuaskan"
  sentimen analyze --json --model balanced "barangnya rusak"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the service response verbatim")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Query a single model: imbalanced or balanced")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeModel != "" && !slices.Contains(predict.ValidModels, analyzeModel) {
		return fmt.Errorf("invalid --model %q (valid: %s)", analyzeModel, strings.Join(predict.ValidModels, ", "))
	}
	client := newClient(cfg)
	defer client.CloseIdleConnections()

	return analyzeText(cmd.Context(), cmd.OutOrStdout(), client, strings.Join(args, " "), analyzeOptions{
		Model: analyzeModel,
		JSON:  analyzeJSON,
		Theme: cfg.UI.Theme,
		Width: outputWidth(),
	})
}

type analyzeOptions struct {
	Model string
	JSON  bool
	Theme string
	Width int
}

// analyzeText validates, dispatches and prints one cycle.
func analyzeText(ctx context.Context, out io.Writer, client *predict.Client, raw string, opts analyzeOptions) error {
	var form analysis.Form
	text, err := form.Begin(raw)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	ctx = predict.WithRequestID(ctx, id)
	logger.Info("analyze", zap.String("request_id", id), zap.String("model", opts.Model))

	var res *predict.Result
	if opts.Model != "" {
		res, err = client.PredictModel(ctx, opts.Model, text)
	} else {
		res, err = client.Predict(ctx, text)
	}
	form.Finish(res, err)
	if err != nil {
		return err
	}

	if opts.JSON {
		_, err := fmt.Fprintln(out, strings.TrimSpace(string(res.Raw)))
		return err
	}

	styles := ui.NewStyles(ui.ThemeFor(opts.Theme))
	var rendered string
	switch opts.Model {
	case predict.ModelImbalanced:
		rendered = ui.RenderPanel(styles, report.ResolveSingle(res, report.SideImbalanced), opts.Width)
	case predict.ModelBalanced:
		rendered = ui.RenderPanel(styles, report.ResolveSingle(res, report.SideBalanced), opts.Width)
	default:
		rendered = ui.RenderReport(styles, report.Build(res), opts.Width)
	}
	_, err = fmt.Fprintln(out, rendered)
	return err
}

// outputWidth is the render width for non-interactive output.
func outputWidth() int {
	if cfg != nil && cfg.UI.Width > 0 {
		return cfg.UI.Width
	}
	return 100
}
