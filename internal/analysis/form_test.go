package analysis

import (
	"errors"
	"testing"

	"sentimen/internal/predict"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okResult(t *testing.T) *predict.Result {
	t.Helper()
	res, err := predict.ParseResult([]byte(`{"predicted_sentiment": "positif", "confidence": 0.9}`))
	require.NoError(t, err)
	return res
}

func TestBegin_RejectsBlankInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t  \n"} {
		var f Form
		text, err := f.Begin(raw)
		assert.ErrorIs(t, err, ErrEmptyInput)
		assert.Empty(t, text)
		assert.Equal(t, PhaseInvalid, f.Phase())
		assert.Equal(t, MsgEmptyInput, f.ErrorMessage())
		assert.True(t, f.Ready(), "validation never enters loading")
	}
}

func TestBegin_TrimsAndEntersLoading(t *testing.T) {
	var f Form
	text, err := f.Begin("  produk bagus \n")
	require.NoError(t, err)
	assert.Equal(t, "produk bagus", text)
	assert.Equal(t, "produk bagus", f.Text())
	assert.True(t, f.Loading())
	assert.False(t, f.Ready())
	assert.Equal(t, PhaseLoading, f.Phase())
}

func TestBegin_BusyWhileLoading(t *testing.T) {
	var f Form
	_, err := f.Begin("first")
	require.NoError(t, err)

	_, err = f.Begin("second")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, "first", f.Text())
	assert.True(t, f.Loading())
}

func TestFinish_Success(t *testing.T) {
	var f Form
	_, _ = f.Begin("text")
	res := okResult(t)

	f.Finish(res, nil)
	assert.False(t, f.Loading())
	assert.Equal(t, PhaseSucceeded, f.Phase())
	assert.Same(t, res, f.Result())
	assert.NoError(t, f.Err())
	assert.Empty(t, f.ErrorMessage())
}

func TestFinish_FailureClearsResult_RetryClearsError(t *testing.T) {
	var f Form
	_, _ = f.Begin("text")
	f.Finish(okResult(t), nil)
	require.NotNil(t, f.Result())

	_, err := f.Begin("text again")
	require.NoError(t, err)
	assert.Nil(t, f.Result(), "a new cycle clears the previous result")

	f.Finish(nil, &predict.RequestError{Kind: predict.KindStatus, StatusCode: 500})
	assert.False(t, f.Loading())
	assert.Equal(t, PhaseFailed, f.Phase())
	assert.Nil(t, f.Result())
	assert.Equal(t, predict.MsgStatusFallback, f.ErrorMessage())

	_, err = f.Begin("retry")
	require.NoError(t, err)
	assert.Empty(t, f.ErrorMessage(), "a new cycle clears the previous error")
	f.Finish(okResult(t), nil)
	assert.Equal(t, PhaseSucceeded, f.Phase())
	assert.NotNil(t, f.Result())
}

func TestBlankInputKeepsPreviousResult(t *testing.T) {
	var f Form
	_, _ = f.Begin("text")
	res := okResult(t)
	f.Finish(res, nil)

	_, err := f.Begin("  ")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Same(t, res, f.Result())
	assert.Equal(t, MsgEmptyInput, f.ErrorMessage())
}

func TestErrorMessage_PlainError(t *testing.T) {
	var f Form
	_, _ = f.Begin("x")
	f.Finish(nil, errors.New("connection refused"))
	assert.Equal(t, "connection refused", f.ErrorMessage())
}

func TestReset(t *testing.T) {
	var f Form
	_, _ = f.Begin("x")
	f.Reset()
	assert.True(t, f.Loading(), "reset is ignored while loading")

	f.Finish(okResult(t), nil)
	f.Reset()
	assert.Equal(t, PhaseIdle, f.Phase())
	assert.Nil(t, f.Result())
	assert.Empty(t, f.Text())
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "loading", PhaseLoading.String())
	assert.Equal(t, "unknown", Phase(42).String())
	assert.Equal(t, "unknown", Phase(-1).String())
}
