package ui

import (
	"strings"

	"sentimen/internal/report"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

const (
	panelGap      = 2
	minPanelWidth = 34
	percentWidth  = 6 // "100.0%"
)

// RenderBar draws a fill bar of the given width for a percentage in [0,100].
func RenderBar(color lipgloss.Color, percent float64, width int) string {
	if width < 1 {
		return ""
	}
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithoutPercentage(),
		progress.WithWidth(width),
	)
	return bar.ViewAs(percent / 100)
}

// RenderPanel draws one model's result card at the given outer width.
func RenderPanel(s Styles, p report.Panel, width int) string {
	frame := s.Panel.GetHorizontalFrameSize()
	inner := width - frame
	if inner < 10 {
		inner = 10
	}
	accent := ModelAccent(p.Side)

	var b strings.Builder

	title := s.PanelTitle.Render(p.Side.Title)
	tag := s.PanelTag.Background(accent).Render(p.Side.Tag)
	space := inner - lipgloss.Width(title) - lipgloss.Width(tag)
	if space < 1 {
		space = 1
	}
	b.WriteString(title + strings.Repeat(" ", space) + tag)
	b.WriteString("\n\n")

	b.WriteString(s.Muted.Render("Sentiment"))
	b.WriteString("\n")
	b.WriteString(s.ToneBadge(p.Tone).Render(p.Badge))
	b.WriteString("\n\n")

	label := s.Muted.Render("Confidence")
	value := s.Confidence.Render(p.ConfidenceText)
	space = inner - lipgloss.Width(label) - lipgloss.Width(value)
	if space < 1 {
		space = 1
	}
	b.WriteString(label + strings.Repeat(" ", space) + value)
	b.WriteString("\n")
	b.WriteString(RenderBar(accent, p.Fill, inner))

	if p.HasProbabilities {
		b.WriteString("\n\n")
		b.WriteString(s.Muted.Render("Probability detail"))
		for _, row := range p.Rows {
			b.WriteString("\n")
			b.WriteString(renderRow(s, row, labelWidth(p.Rows), inner))
		}
	}

	return s.Panel.
		BorderForeground(accent).
		Width(width - s.Panel.GetHorizontalBorderSize()).
		Render(b.String())
}

func labelWidth(rows []report.Row) int {
	w := 0
	for _, r := range rows {
		if lw := lipgloss.Width(r.Display); lw > w {
			w = lw
		}
	}
	return w
}

func renderRow(s Styles, row report.Row, lw, inner int) string {
	label := s.Body.Width(lw).Render(row.Display)
	text := s.Bold.Width(percentWidth).Align(lipgloss.Right).Render(row.Text)
	barWidth := inner - lw - percentWidth - 2
	if barWidth < 4 {
		return label + " " + text
	}
	bar := RenderBar(s.ToneColors(row.Tone).Bar, row.Percent, barWidth)
	return label + " " + bar + " " + text
}

// RenderDisagreement draws the mismatch notice.
func RenderDisagreement(s Styles, width int) string {
	w := width - s.Warning.GetHorizontalBorderSize()
	if w < 10 {
		w = 10
	}
	return s.Warning.Width(w).Render(report.DisagreementNotice)
}

// RenderReport draws both panels, side by side when the width allows and
// stacked otherwise, followed by the notice when the models disagree.
func RenderReport(s Styles, r report.Report, width int) string {
	var body string
	if width >= 2*minPanelWidth+panelGap {
		pw := (width - panelGap) / 2
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			RenderPanel(s, r.Imbalanced, pw),
			strings.Repeat(" ", panelGap),
			RenderPanel(s, r.Balanced, pw),
		)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left,
			RenderPanel(s, r.Imbalanced, width),
			RenderPanel(s, r.Balanced, width),
		)
	}

	if r.Disagreement {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "", RenderDisagreement(s, width))
	}
	return body
}
