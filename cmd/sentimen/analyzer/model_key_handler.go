package analyzer

import (
	"sentimen/internal/report"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// handleKeyMsg routes a key press. While a request is outstanding only
// quitting, scrolling and the (inert) analyze shortcut get through.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Analyze):
		return m.startAnalysis()
	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.form.Loading() {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Focus):
		return m.toggleFocus()
	case key.Matches(msg, m.keys.Clear):
		return m.clear()
	}

	if m.focus == focusAnalyze {
		switch {
		case key.Matches(msg, m.keys.Submit):
			return m.startAnalysis()
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			m.help.ShowAll = m.showHelp
			return m.refreshViewport(), nil
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m Model) toggleFocus() (Model, tea.Cmd) {
	if m.focus == focusInput {
		m.focus = focusAnalyze
		m.textarea.Blur()
		return m, nil
	}
	m.focus = focusInput
	return m, m.textarea.Focus()
}

// clear drops the input, the result and any error.
func (m Model) clear() (Model, tea.Cmd) {
	m.form.Reset()
	m.textarea.Reset()
	m.report = report.Report{}
	m.requestID = ""
	m.elapsed = 0
	m.statusMessage = ""
	m.showHelp = false
	m.help.ShowAll = false
	return m.refreshViewport(), nil
}
