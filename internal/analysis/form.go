// Package analysis holds the input state machine shared by every front end:
// validate the text, enter loading, then settle on a result or an error.
//
//	idle -> validating -> (invalid -> idle) | (loading -> succeeded | failed -> idle)
//
// A Form is not safe for concurrent use. The front ends serialize access
// (bubbletea's Update loop, or one Form per HTTP request).
package analysis

import (
	"errors"
	"strings"

	"sentimen/internal/predict"
)

// MsgEmptyInput is the validation message for blank input.
const MsgEmptyInput = "Enter some text first."

var (
	// ErrEmptyInput is returned by Begin when the trimmed text is empty.
	ErrEmptyInput = errors.New(MsgEmptyInput)

	// ErrBusy is returned by Begin while a request is outstanding.
	ErrBusy = errors.New("an analysis is already running")
)

// Phase is where the form sits in the analysis cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInvalid
	PhaseLoading
	PhaseSucceeded
	PhaseFailed
)

// String returns the display name of the phase.
func (p Phase) String() string {
	names := []string{"idle", "invalid", "loading", "succeeded", "failed"}
	if p >= 0 && int(p) < len(names) {
		return names[p]
	}
	return "unknown"
}

// Form is the input and outcome of the current analysis cycle.
type Form struct {
	phase  Phase
	text   string
	err    error
	result *predict.Result
}

// Begin validates raw input and enters loading. On success it returns the
// trimmed text to send and clears the previous error and result.
//
// Blank input records ErrEmptyInput and leaves the previous result shown.
func (f *Form) Begin(raw string) (string, error) {
	if f.phase == PhaseLoading {
		return "", ErrBusy
	}
	text := strings.TrimSpace(raw)
	if text == "" {
		f.err = ErrEmptyInput
		f.phase = PhaseInvalid
		return "", ErrEmptyInput
	}

	f.text = text
	f.err = nil
	f.result = nil
	f.phase = PhaseLoading
	return text, nil
}

// Finish settles a cycle started by Begin. Loading always ends; a failure
// replaces any result, a success replaces any error.
func (f *Form) Finish(res *predict.Result, err error) {
	if err != nil {
		f.err = err
		f.result = nil
		f.phase = PhaseFailed
		return
	}
	f.err = nil
	f.result = res
	f.phase = PhaseSucceeded
}

// Reset returns the form to idle, dropping the result and error. It is a
// no-op while loading.
func (f *Form) Reset() {
	if f.phase == PhaseLoading {
		return
	}
	*f = Form{}
}

// Phase returns the current phase.
func (f *Form) Phase() Phase { return f.phase }

// Loading reports whether a request is outstanding.
func (f *Form) Loading() bool { return f.phase == PhaseLoading }

// Ready reports whether the input and trigger are enabled.
func (f *Form) Ready() bool { return f.phase != PhaseLoading }

// Text returns the trimmed text of the last accepted submission.
func (f *Form) Text() string { return f.text }

// Err returns the current error, if any.
func (f *Form) Err() error { return f.err }

// Result returns the last successful result, if any.
func (f *Form) Result() *predict.Result { return f.result }

// ErrorMessage returns the user-visible error text, or "".
func (f *Form) ErrorMessage() string {
	if f.err == nil {
		return ""
	}
	if errors.Is(f.err, ErrEmptyInput) {
		return MsgEmptyInput
	}
	return predict.UserMessage(f.err)
}
