package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"sentimen/internal/analysis"
	"sentimen/internal/predict"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

const dualBody = `{
  "imbalanced": {"predicted_sentiment": "positif", "confidence": 0.8734,
    "probabilities": {"negatif": 0.05, "netral": 0.0766, "positif": 0.8734}},
  "balanced": {"predicted_sentiment": "negatif", "confidence": 0.7,
    "probabilities": {"negatif": 0.7, "netral": 0.2, "positif": 0.1}}
}`

type fakePredictor struct {
	mu    sync.Mutex
	texts []string
	ids   []string
	body  string
	err   error
}

func (f *fakePredictor) Predict(ctx context.Context, text string) (*predict.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	f.ids = append(f.ids, predict.RequestIDFrom(ctx))
	if f.err != nil {
		return nil, f.err
	}
	return predict.ParseResult([]byte(f.body))
}

func newTestServer(t *testing.T, p predict.Predictor) *Server {
	t.Helper()
	s, err := NewServer(p, Config{Addr: "127.0.0.1:0", Endpoint: "http://127.0.0.1:8000"})
	require.NoError(t, err)
	return s
}

func postAnalyze(s *Server, text string, header http.Header) *httptest.ResponseRecorder {
	form := url.Values{"text": {text}}
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestNewServer_RequiresPredictor(t *testing.T) {
	_, err := NewServer(nil, Config{})
	assert.Error(t, err)
}

func TestIndex(t *testing.T) {
	s := newTestServer(t, &fakePredictor{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `id="analyze-button"`)
	assert.Contains(t, body, "e.ctrlKey || e.metaKey")
	assert.NotContains(t, body, "Model Imbalanced")
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, &fakePredictor{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestAnalyze_BlankInput(t *testing.T) {
	fake := &fakePredictor{body: dualBody}
	s := newTestServer(t, fake)

	rec := postAnalyze(s, "  \n\t ", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), analysis.MsgEmptyInput)
	assert.Empty(t, fake.texts, "no backend call for blank input")
}

func TestAnalyze_Success(t *testing.T) {
	fake := &fakePredictor{body: dualBody}
	s := newTestServer(t, fake)

	rec := postAnalyze(s, "  bagus sekali ", http.Header{"X-Request-Id": {"req-42"}})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"bagus sekali"}, fake.texts)
	assert.Equal(t, []string{"req-42"}, fake.ids)

	body := rec.Body.String()
	assert.Contains(t, body, "Model Imbalanced")
	assert.Contains(t, body, "Model Balanced")
	assert.Contains(t, body, `class="badge green">POSITIF`)
	assert.Contains(t, body, `class="badge red">NEGATIF`)
	assert.Contains(t, body, "87.34%")
	assert.Contains(t, body, "7.7%")
	assert.Contains(t, body, "Prediction mismatch")

	neg := strings.Index(body, "<span>Negatif</span>")
	net := strings.Index(body, "<span>Netral</span>")
	pos := strings.Index(body, "<span>Positif</span>")
	require.True(t, neg >= 0 && net >= 0 && pos >= 0)
	assert.Less(t, neg, net)
	assert.Less(t, net, pos)
}

func TestAnalyze_GeneratesRequestID(t *testing.T) {
	fake := &fakePredictor{body: dualBody}
	s := newTestServer(t, fake)

	postAnalyze(s, "bagus", nil)

	require.Len(t, fake.ids, 1)
	assert.Len(t, fake.ids[0], 36)
}

func TestAnalyze_ReplacesUnsafeRequestID(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"newline", "req-1\nlevel=error forged"},
		{"spaces", "req 1"},
		{"too long", strings.Repeat("a", maxRequestIDLen+1)},
		{"non ascii", "req-ü"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakePredictor{body: dualBody}
			s := newTestServer(t, fake)

			rec := postAnalyze(s, "bagus", http.Header{"X-Request-Id": {tt.id}})

			require.Equal(t, http.StatusOK, rec.Code)
			require.Len(t, fake.ids, 1)
			assert.NotEqual(t, tt.id, fake.ids[0])
			assert.Len(t, fake.ids[0], 36)
		})
	}
}

func TestValidRequestID(t *testing.T) {
	assert.True(t, validRequestID("req-42"))
	assert.True(t, validRequestID("3f2b8c1e-0a4d-4c9e-9b1a-2d7f6e5c4b3a"))
	assert.True(t, validRequestID(strings.Repeat("a", maxRequestIDLen)))
	assert.False(t, validRequestID(""))
	assert.False(t, validRequestID("a/b"))
}

func TestAnalyze_Failure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "status without detail",
			err:  &predict.RequestError{Kind: predict.KindStatus, Op: "POST /predict", StatusCode: 500},
			want: predict.MsgStatusFallback,
		},
		{
			name: "status with detail",
			err:  &predict.RequestError{Kind: predict.KindStatus, Op: "POST /predict", StatusCode: 503, Message: "Model not loaded"},
			want: "Model not loaded",
		},
		{
			name: "plain error",
			err:  errors.New("dial tcp: connection refused"),
			want: "dial tcp: connection refused",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, &fakePredictor{err: tt.err})

			rec := postAnalyze(s, "bagus", nil)

			assert.Equal(t, http.StatusBadGateway, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, tt.want)
			assert.NotContains(t, body, "Model Imbalanced")
			assert.Contains(t, body, ">bagus</textarea>", "input is kept for a retry")
		})
	}
}

func TestAnalyze_EscapesInput(t *testing.T) {
	s := newTestServer(t, &fakePredictor{body: dualBody})

	rec := postAnalyze(s, "<script>alert(1)</script>", nil)

	assert.NotContains(t, rec.Body.String(), "<script>alert(1)</script>")
	assert.Contains(t, rec.Body.String(), "&lt;script&gt;")
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := newTestServer(t, &fakePredictor{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
