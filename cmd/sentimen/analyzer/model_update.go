package analyzer

import (
	"fmt"

	"sentimen/cmd/sentimen/ui"
	"sentimen/internal/logging"
	"sentimen/internal/report"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.resize(msg.Width, msg.Height), nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case resultMsg:
		return m.handleResult(msg)

	case configReloadedMsg:
		return m.handleConfigReload(msg), nil

	case spinner.TickMsg:
		if !m.form.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blink and friends; a blurred textarea ignores them.
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// handleResult settles the cycle started by startAnalysis.
func (m Model) handleResult(msg resultMsg) (Model, tea.Cmd) {
	log := logging.Get(logging.CategoryUI)

	if msg.id != m.requestID || !m.form.Loading() {
		log.Debug("dropping stale result", zap.String("request_id", msg.id))
		return m, nil
	}

	m.form.Finish(msg.result, msg.err)
	m.elapsed = msg.elapsed
	if msg.err != nil {
		log.Warn("analysis failed",
			zap.String("request_id", msg.id),
			zap.Int("chars", len(m.form.Text())),
			zap.Duration("elapsed", msg.elapsed),
			zap.Error(msg.err))
	} else {
		m.report = report.Build(msg.result)
		log.Info("analysis finished",
			zap.String("request_id", msg.id),
			zap.Int("chars", len(m.form.Text())),
			zap.Duration("elapsed", msg.elapsed),
			zap.String("imbalanced", m.report.Imbalanced.Sentiment),
			zap.String("balanced", m.report.Balanced.Sentiment),
			zap.Bool("disagreement", m.report.Disagreement))
	}

	var cmd tea.Cmd
	if m.focus == focusInput {
		cmd = m.textarea.Focus()
	}
	return m.refreshViewport(), cmd
}

// idleCloser is implemented by predictors that pool connections.
type idleCloser interface {
	CloseIdleConnections()
}

// handleConfigReload re-applies the theme, width and endpoint.
func (m Model) handleConfigReload(msg configReloadedMsg) Model {
	if msg.err != nil {
		m.statusMessage = fmt.Sprintf("Config reload failed: %v", msg.err)
		return m
	}
	cfg := msg.cfg
	m.styles = ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
	m.spinner.Style = m.styles.Spinner
	m.maxWidth = cfg.UI.Width
	if m.newPredictor != nil {
		if c, ok := m.predictor.(idleCloser); ok {
			c.CloseIdleConnections()
		}
		m.predictor = m.newPredictor(cfg)
		m.endpoint = cfg.Service.BaseURL
	}
	m.statusMessage = "Config reloaded"
	logging.Get(logging.CategoryConfig).Info("tui applied config",
		zap.String("theme", cfg.UI.Theme),
		zap.String("endpoint", m.endpoint))
	return m.resize(m.width, m.height)
}
