package analyzer

import (
	"context"
	"errors"
	"time"

	"sentimen/internal/config"
	"sentimen/internal/logging"
	"sentimen/internal/predict"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errNoPredictor = errors.New("no prediction backend configured")

// resultMsg carries the outcome of one dispatched analysis.
type resultMsg struct {
	id      string
	result  *predict.Result
	err     error
	elapsed time.Duration
}

// configReloadedMsg is delivered when the config file changed on disk.
type configReloadedMsg struct {
	cfg *config.Config
	err error
}

// ConfigReloaded wraps a reload outcome for tea.Program.Send.
func ConfigReloaded(cfg *config.Config, err error) tea.Msg {
	return configReloadedMsg{cfg: cfg, err: err}
}

// analyzeCmd issues a single prediction request off the Update loop.
func analyzeCmd(p predict.Predictor, id, text string) tea.Cmd {
	return func() tea.Msg {
		ctx := predict.WithRequestID(context.Background(), id)
		start := time.Now()
		res, err := p.Predict(ctx, text)
		return resultMsg{id: id, result: res, err: err, elapsed: time.Since(start)}
	}
}

// startAnalysis validates the input and, if it is usable, enters loading
// and returns the dispatch command. Blank input returns a nil command.
func (m Model) startAnalysis() (Model, tea.Cmd) {
	log := logging.Get(logging.CategoryUI)

	text, err := m.form.Begin(m.textarea.Value())
	if err != nil {
		log.Debug("analysis not started", zap.Error(err))
		m = m.refreshViewport()
		return m, nil
	}
	if m.predictor == nil {
		m.form.Finish(nil, errNoPredictor)
		m = m.refreshViewport()
		return m, nil
	}

	m.requestID = uuid.NewString()
	m.showHelp = false
	m.statusMessage = ""
	m.textarea.Blur()
	log.Info("analysis started", zap.String("request_id", m.requestID), zap.Int("chars", len(text)))

	m = m.refreshViewport()
	return m, tea.Batch(m.spinner.Tick, analyzeCmd(m.predictor, m.requestID, text))
}
