package ui

import (
	"strings"
	"testing"

	"sentimen/internal/predict"
	"sentimen/internal/report"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const agreeBody = `{
  "input_text": "bagus sekali",
  "imbalanced": {"predicted_sentiment": "positif", "confidence": 0.8734,
    "probabilities": {"negatif": 0.05, "netral": 0.0766, "positif": 0.8734}},
  "balanced": {"predicted_sentiment": "positif", "confidence": 0.91,
    "probabilities": {"negatif": 0.03, "netral": 0.06, "positif": 0.91}}
}`

const disagreeBody = `{
  "imbalanced": {"predicted_sentiment": "netral", "confidence": 0.5},
  "balanced": {"predicted_sentiment": "negatif", "confidence": 0.6}
}`

func buildReport(t *testing.T, body string) report.Report {
	t.Helper()
	res, err := predict.ParseResult([]byte(body))
	require.NoError(t, err)
	return report.Build(res)
}

func TestRenderPanel_Content(t *testing.T) {
	s := NewStyles(LightTheme())
	r := buildReport(t, agreeBody)

	out := RenderPanel(s, r.Imbalanced, 60)

	assert.Contains(t, out, "Model Imbalanced")
	assert.Contains(t, out, "Model 1")
	assert.Contains(t, out, "POSITIF")
	assert.Contains(t, out, "87.34%")
	assert.Contains(t, out, "Probability detail")
	assert.Contains(t, out, "Negatif")
	assert.Contains(t, out, "7.7%")
}

func TestRenderPanel_RowsKeepReceivedOrder(t *testing.T) {
	s := NewStyles(LightTheme())
	r := buildReport(t, agreeBody)

	out := RenderPanel(s, r.Balanced, 60)

	neg := strings.Index(out, "Negatif")
	net := strings.Index(out, "Netral")
	pos := strings.LastIndex(out, "Positif")
	require.True(t, neg >= 0 && net >= 0 && pos >= 0, out)
	assert.Less(t, neg, net)
	assert.Less(t, net, pos)
}

func TestRenderPanel_NoProbabilitiesSection(t *testing.T) {
	s := NewStyles(LightTheme())
	r := buildReport(t, disagreeBody)

	out := RenderPanel(s, r.Imbalanced, 60)

	assert.NotContains(t, out, "Probability detail")
	assert.Contains(t, out, "NETRAL")
	assert.Contains(t, out, "50.00%")
}

func TestRenderPanel_Width(t *testing.T) {
	s := NewStyles(LightTheme())
	r := buildReport(t, agreeBody)

	out := RenderPanel(s, r.Imbalanced, 50)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 50)
	}
}

func TestRenderReport_Layout(t *testing.T) {
	s := NewStyles(LightTheme())
	r := buildReport(t, agreeBody)

	wide := RenderReport(s, r, 120)
	stacked := RenderReport(s, r, 50)

	wideLines := strings.Split(wide, "\n")
	stackedLines := strings.Split(stacked, "\n")
	assert.Greater(t, len(stackedLines), len(wideLines), "narrow layout stacks the panels")

	firstLine := wideLines[1]
	assert.Contains(t, firstLine, "Model Imbalanced")
	assert.Contains(t, firstLine, "Model Balanced")
}

func TestRenderReport_Disagreement(t *testing.T) {
	s := NewStyles(LightTheme())

	assert.NotContains(t, RenderReport(s, buildReport(t, agreeBody), 120), "Prediction mismatch")
	assert.Contains(t, RenderReport(s, buildReport(t, disagreeBody), 120), "Prediction mismatch")
}

func TestRenderBar(t *testing.T) {
	assert.Empty(t, RenderBar(BalancedAccent, 50, 0))
	assert.Equal(t, 20, lipgloss.Width(RenderBar(BalancedAccent, 50, 20)))
}
