// Package analyzer provides the interactive sentiment analysis TUI.
// The screen holds one text area, an Analyze control, and the two model
// panels. This file contains the Model type and its construction.
package analyzer

import (
	"time"

	"sentimen/cmd/sentimen/ui"
	"sentimen/internal/analysis"
	"sentimen/internal/config"
	"sentimen/internal/predict"
	"sentimen/internal/report"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// focusArea is the element that receives keystrokes.
type focusArea int

const (
	focusInput focusArea = iota
	focusAnalyze
)

const (
	defaultWidth  = 100
	defaultHeight = 40
	inputHeight   = 5
)

// Options configures a new analyzer Model.
type Options struct {
	// Predictor serves the analysis requests. Required.
	Predictor predict.Predictor

	// Endpoint is shown in the header. Optional.
	Endpoint string

	// Theme is a config theme name: auto, light, or dark.
	Theme string

	// MaxWidth caps the layout width; zero uses the full terminal.
	MaxWidth int

	// NewPredictor rebuilds the predictor after a config reload. When nil
	// a reload only re-applies the theme.
	NewPredictor func(*config.Config) predict.Predictor
}

// Model is the bubbletea model of the analyzer screen.
type Model struct {
	predictor    predict.Predictor
	newPredictor func(*config.Config) predict.Predictor
	endpoint     string

	// UI components
	textarea textarea.Model
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	styles   ui.Styles
	renderer *glamour.TermRenderer

	// Analysis cycle
	form      analysis.Form
	report    report.Report
	requestID string
	elapsed   time.Duration

	// Screen state
	focus         focusArea
	showHelp      bool
	statusMessage string
	width         int
	height        int
	maxWidth      int
	ready         bool
}

// New creates the analyzer model.
func New(opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = "Type or paste Indonesian text to analyze..."
	ta.ShowLineNumbers = false
	// No length or line cap: the request carries the whole input.
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetHeight(inputHeight)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	styles := ui.NewStyles(ui.ThemeFor(opts.Theme))
	sp.Style = styles.Spinner

	m := Model{
		predictor:    opts.Predictor,
		newPredictor: opts.NewPredictor,
		endpoint:     opts.Endpoint,
		textarea:     ta,
		spinner:      sp,
		viewport:     viewport.New(defaultWidth, defaultHeight/2),
		help:         help.New(),
		keys:         defaultKeyMap(),
		styles:       styles,
		focus:        focusInput,
		maxWidth:     opts.MaxWidth,
	}
	return m.resize(defaultWidth, defaultHeight)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Loading reports whether an analysis request is outstanding.
func (m Model) Loading() bool { return m.form.Loading() }

// Value returns the current contents of the text area.
func (m Model) Value() string { return m.textarea.Value() }

// contentWidth is the usable width inside the page padding.
func (m Model) contentWidth() int {
	w := m.width
	if m.maxWidth > 0 && w > m.maxWidth {
		w = m.maxWidth
	}
	w -= m.styles.Content.GetHorizontalFrameSize()
	if w < 20 {
		w = 20
	}
	return w
}

// resize lays the components out for a terminal of w x h cells.
func (m Model) resize(w, h int) Model {
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	m.width, m.height = w, h

	cw := m.contentWidth()
	m.textarea.SetWidth(cw - m.styles.InputFocused.GetHorizontalFrameSize())
	m.help.Width = cw

	// header (3) + input box + control row (2) + divider (1) + footer (2) + padding
	used := 3 + inputHeight + m.styles.InputFocused.GetVerticalFrameSize() + 2 + 1 + 2 +
		m.styles.Content.GetVerticalFrameSize()
	vh := h - used
	if vh < 5 {
		vh = 5
	}
	m.viewport.Width = cw
	m.viewport.Height = vh

	m.renderer = newRenderer(m.styles.Theme.IsDark, cw)
	m.ready = true
	return m.refreshViewport()
}

func newRenderer(dark bool, width int) *glamour.TermRenderer {
	style := "light"
	if dark {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}
