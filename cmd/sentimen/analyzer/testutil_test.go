// Test utilities for the analyzer package: a fake predictor, a model
// builder, and helpers for driving the Update loop.
package analyzer

import (
	"context"
	"sync"
	"testing"

	"sentimen/internal/config"
	"sentimen/internal/predict"

	tea "github.com/charmbracelet/bubbletea"
)

const dualBody = `{
  "input_text": "bagus sekali",
  "imbalanced": {"predicted_sentiment": "positif", "confidence": 0.8734,
    "probabilities": {"negatif": 0.05, "netral": 0.0766, "positif": 0.8734}},
  "balanced": {"predicted_sentiment": "netral", "confidence": 0.61,
    "probabilities": {"negatif": 0.1, "netral": 0.61, "positif": 0.29}}
}`

// fakePredictor records every request and replays a canned outcome.
type fakePredictor struct {
	mu     sync.Mutex
	texts  []string
	ids    []string
	result *predict.Result
	err    error
	closed int
}

func (f *fakePredictor) Predict(ctx context.Context, text string) (*predict.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	f.ids = append(f.ids, predict.RequestIDFrom(ctx))
	return f.result, f.err
}

func (f *fakePredictor) CloseIdleConnections() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
}

func (f *fakePredictor) closeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakePredictor) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.texts)
}

func (f *fakePredictor) set(res *predict.Result, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result, f.err = res, err
}

func mustResult(t *testing.T, body string) *predict.Result {
	t.Helper()
	res, err := predict.ParseResult([]byte(body))
	if err != nil {
		t.Fatalf("fixture does not parse: %v", err)
	}
	return res
}

// TestModelOption customizes a test model.
type TestModelOption func(*Options)

func withNewPredictor(fn func(*config.Config) predict.Predictor) TestModelOption {
	return func(o *Options) { o.NewPredictor = fn }
}

// NewTestModel builds a light-themed 100x40 model backed by p.
func NewTestModel(p predict.Predictor, opts ...TestModelOption) Model {
	o := Options{
		Predictor: p,
		Endpoint:  "http://127.0.0.1:8000",
		Theme:     "light",
	}
	for _, opt := range opts {
		opt(&o)
	}
	m := New(o)
	return m.resize(100, 40)
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	result, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return result, cmd
}

// findResult runs a dispatch command and returns the resultMsg it yields.
func findResult(t *testing.T, cmd tea.Cmd) resultMsg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	msg := cmd()
	if r, ok := msg.(resultMsg); ok {
		return r
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c == nil {
				continue
			}
			if r, ok := c().(resultMsg); ok {
				return r
			}
		}
	}
	t.Fatalf("no resultMsg produced (got %T)", msg)
	return resultMsg{}
}

var (
	keyAltEnter = tea.KeyMsg{Type: tea.KeyEnter, Alt: true}
	keyCtrlS    = tea.KeyMsg{Type: tea.KeyCtrlS}
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyCtrlL    = tea.KeyMsg{Type: tea.KeyCtrlL}
	keyEsc      = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
