package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/joseph-ayodele/findoc-reader/internal/common"
	"github.com/joseph-ayodele/findoc-reader/internal/export"
	"github.com/joseph-ayodele/findoc-reader/internal/metrics"
	processor "github.com/joseph-ayodele/findoc-reader/internal/pipeline"
)

// multipartOverhead is the slack allowed on top of the file limit for
// multipart boundaries and headers.
const multipartOverhead = 64 << 10

// HTTPServer exposes the upload API.
type HTTPServer struct {
	echo      *echo.Echo
	processor *processor.Processor
	export    *export.Service
	metrics   *metrics.Metrics
	cfg       common.ServerConfig
	logger    *slog.Logger
}

// NewHTTPServer builds the echo instance and registers the routes. m may be
// nil, in which case /metrics is not served.
func NewHTTPServer(proc *processor.Processor, m *metrics.Metrics, cfg common.ServerConfig, logger *slog.Logger) (*HTTPServer, error) {
	if proc == nil {
		return nil, errors.New("processor cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = common.DefaultConfig().Server.MaxUploadBytes
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			reqID := c.Response().Header().Get(echo.HeaderXRequestID)
			req := c.Request()
			c.SetRequest(req.WithContext(common.WithRequestID(req.Context(), reqID)))

			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.Info("http.request",
				"method", req.Method,
				"uri", req.RequestURI,
				"status", c.Response().Status,
				"elapsed_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)
			return nil
		}
	})
	e.Use(validateRequestID)

	s := &HTTPServer{
		echo:      e,
		processor: proc,
		export:    export.NewService(logger),
		metrics:   m,
		cfg:       cfg,
		logger:    logger,
	}
	s.registerRoutes()
	return s, nil
}

func (s *HTTPServer) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	upload := s.echo.Group("/upload", s.limitBody)
	upload.POST("/docx", s.handleUploadDocument)
	upload.POST("/chat", s.handleUploadChat)
}

// Handler exposes the router for tests and embedding.
func (s *HTTPServer) Handler() http.Handler { return s.echo }

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *HTTPServer) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// validateRequestID rejects a caller-supplied X-Request-ID that is not a UUID.
func validateRequestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
			v := common.NewValidator().Field(echo.HeaderXRequestID, id, common.UUID)
			if err := common.ValidateAndReturnError(v); err != nil {
				return err
			}
		}
		return next(c)
	}
}

// limitBody caps the request body so oversized uploads fail while parsing.
func (s *HTTPServer) limitBody(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if req.ContentLength > s.cfg.MaxUploadBytes+multipartOverhead {
			return common.TooLargeError(fmt.Sprintf("upload exceeds %d bytes", s.cfg.MaxUploadBytes))
		}
		req.Body = http.MaxBytesReader(c.Response(), req.Body, s.cfg.MaxUploadBytes+multipartOverhead)
		return next(c)
	}
}

// Start serves on addr until Shutdown.
func (s *HTTPServer) Start(addr string) error {
	s.logger.Info("http.start", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.logger.Info("http.shutdown")
	return s.echo.Shutdown(ctx)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func errorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		var (
			status  int
			msg     = common.PublicMessage(err)
			httpErr *echo.HTTPError
			maxErr  *http.MaxBytesError
		)
		switch {
		case errors.As(err, &httpErr):
			status = httpErr.Code
			msg = fmt.Sprint(httpErr.Message)
		case errors.As(err, &maxErr):
			status = http.StatusRequestEntityTooLarge
			msg = fmt.Sprintf("upload exceeds %d bytes", maxErr.Limit-multipartOverhead)
		default:
			status = common.HTTPStatus(err)
		}
		if status >= http.StatusInternalServerError {
			logger.Error("http.failed", "uri", c.Request().RequestURI, "err", err)
		}

		body := ErrorResponse{Error: msg, RequestID: c.Response().Header().Get(echo.HeaderXRequestID)}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, body)
	}
}
