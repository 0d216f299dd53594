package analyzer

import (
	"fmt"
	"strings"
	"time"

	"sentimen/cmd/sentimen/ui"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	cw := m.contentWidth()

	sections := []string{
		m.renderHeader(cw),
		m.renderInput(),
		m.renderControls(cw),
	}
	if msg := m.form.ErrorMessage(); msg != "" {
		sections = append(sections, m.styles.Error.Width(cw-m.styles.Error.GetHorizontalBorderSize()).Render(msg))
	}
	sections = append(sections, m.styles.RenderDivider(cw), m.viewport.View(), m.renderFooter())

	return m.styles.Content.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) renderHeader(width int) string {
	title := m.styles.Header.Width(width).Render("Sentiment Analysis")
	sub := m.styles.Subtitle.Width(width).Align(lipgloss.Center).Render("Imbalanced vs balanced model comparison")
	lines := []string{title, sub}
	if m.endpoint != "" {
		lines = append(lines, m.styles.Muted.Render("backend: "+m.endpoint))
	} else {
		lines = append(lines, "")
	}
	return lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
}

func (m Model) renderInput() string {
	switch {
	case m.form.Loading():
		return m.styles.InputLocked.Render(m.textarea.View())
	case m.focus == focusInput:
		return m.styles.InputFocused.Render(m.textarea.View())
	default:
		return m.styles.InputBlurred.Render(m.textarea.View())
	}
}

// renderControls draws the Analyze control and the status line beside it.
func (m Model) renderControls(width int) string {
	var button string
	switch {
	case m.form.Loading():
		button = m.styles.ButtonDisabled.Render(m.spinner.View() + " Analyzing…")
	case m.focus == focusAnalyze:
		button = m.styles.ButtonFocused.Render("Analyze")
	default:
		button = m.styles.Button.Render("Analyze")
	}

	status := m.statusMessage
	if status == "" && m.form.Result() != nil && m.elapsed > 0 {
		status = fmt.Sprintf("answered in %s", m.elapsed.Round(time.Millisecond))
	}
	if status == "" {
		status = "alt+enter or ctrl+s to analyze"
	}
	right := m.styles.Muted.Render(status)

	gap := width - lipgloss.Width(button) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return "\n" + button + strings.Repeat(" ", gap) + right
}

func (m Model) renderFooter() string {
	return m.styles.Footer.Render(m.help.View(m.keys))
}

// refreshViewport puts the current result, help page or placeholder into
// the scrollable area.
func (m Model) refreshViewport() Model {
	m.viewport.SetContent(m.renderBody())
	m.viewport.GotoTop()
	return m
}

func (m Model) renderBody() string {
	cw := m.contentWidth()
	switch {
	case m.showHelp:
		return m.renderMarkdown(m.keys.helpMarkdown())
	case m.form.Loading():
		return m.styles.Muted.Render("Waiting for both models...")
	case m.form.Result() != nil:
		return ui.RenderReport(m.styles, m.report, cw)
	default:
		return m.styles.Muted.Render("Results from both models appear here.")
	}
}

// renderMarkdown renders with glamour, falling back to the raw text.
func (m Model) renderMarkdown(md string) (out string) {
	if m.renderer == nil {
		return md
	}
	defer func() {
		if r := recover(); r != nil {
			out = md
		}
	}()
	rendered, err := m.renderer.Render(md)
	if err != nil {
		return md
	}
	return rendered
}
