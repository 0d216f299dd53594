// Package web serves the browser version of the analyzer: one page with a
// text area and the two model panels, rendered on the server with gin.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"sentimen/internal/analysis"
	"sentimen/internal/logging"
	"sentimen/internal/predict"
	"sentimen/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	requestIDHeader = "X-Request-ID"
	maxRequestIDLen = 64
	shutdownTimeout = 5 * time.Second
)

// Config configures the page server.
type Config struct {
	Addr     string
	Endpoint string // shown in the page subtitle
}

// Server is the gin-backed page server.
type Server struct {
	predictor predict.Predictor
	cfg       Config
	engine    *gin.Engine
}

// pageData feeds templates/index.html.
type pageData struct {
	Endpoint     string
	Text         string
	Error        string
	Report       *report.Report
	Notice       string
	EmptyMessage string
}

// NewServer builds the engine and its routes.
func NewServer(p predict.Predictor, cfg Config) (*Server, error) {
	if p == nil {
		return nil, errors.New("web: predictor is required")
	}
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	engine.SetHTMLTemplate(tmpl)

	s := &Server{predictor: p, cfg: cfg, engine: engine}
	engine.GET("/", s.handleIndex)
	engine.POST("/analyze", s.handleAnalyze)
	engine.GET("/analyze", func(c *gin.Context) { c.Redirect(http.StatusSeeOther, "/") })
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return s, nil
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	log := logging.Get(logging.CategoryServer)
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web: serve %s: %w", s.cfg.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	log.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web: shutdown: %w", err)
	}
	return nil
}

func (s *Server) page() pageData {
	return pageData{
		Endpoint:     s.cfg.Endpoint,
		Notice:       report.DisagreementNotice,
		EmptyMessage: analysis.MsgEmptyInput,
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", s.page())
}

// handleAnalyze runs one cycle on a fresh Form.
func (s *Server) handleAnalyze(c *gin.Context) {
	log := logging.Get(logging.CategoryServer)
	data := s.page()
	data.Text = c.PostForm("text")

	var form analysis.Form
	text, err := form.Begin(data.Text)
	if err != nil {
		data.Error = form.ErrorMessage()
		c.HTML(http.StatusUnprocessableEntity, "index.html", data)
		return
	}

	id := c.GetHeader(requestIDHeader)
	if !validRequestID(id) {
		id = uuid.NewString()
	}
	ctx := predict.WithRequestID(c.Request.Context(), id)

	res, err := s.predictor.Predict(ctx, text)
	form.Finish(res, err)
	if err != nil {
		log.Warn("analysis failed", zap.String("request_id", id), zap.Error(err))
		data.Error = form.ErrorMessage()
		c.HTML(http.StatusBadGateway, "index.html", data)
		return
	}

	r := report.Build(form.Result())
	data.Report = &r
	log.Debug("analysis finished",
		zap.String("request_id", id),
		zap.Int("chars", len(form.Text())),
		zap.String("imbalanced", r.Imbalanced.Sentiment),
		zap.String("balanced", r.Balanced.Sentiment))
	c.HTML(http.StatusOK, "index.html", data)
}

// validRequestID accepts a caller-supplied ID only when it is short and made
// of letters, digits, '.', '_', ':' or '-'. Anything else is replaced before
// it reaches the logs or the backend.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.', r == '_', r == ':', r == '-':
		default:
			return false
		}
	}
	return true
}

// requestLogger logs each request through the server category.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.Get(logging.CategoryServer).Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)))
	}
}
