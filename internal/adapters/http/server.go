// Package http exposes the editor over a small JSON API.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/ensureline"
	"github.com/aretw0/ensureline/internal/logging"
	"github.com/aretw0/ensureline/pkg/domain"
	"github.com/aretw0/ensureline/pkg/observability"
	"github.com/aretw0/ensureline/pkg/params"
)

//go:embed openapi.yaml
var specYAML []byte

// Applier runs one edit from raw parameters.
type Applier interface {
	ApplyMap(ctx context.Context, raw map[string]any, dryRun bool) (*ensureline.Result, error)
}

// Server serves the API.
type Server struct {
	applier Applier
	router  routers.Router
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(specYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}
	return doc, nil
}

// NewHandler creates the HTTP handler for applier.
func NewHandler(applier Applier, opts ...Option) (http.Handler, error) {
	s := &Server{applier: applier, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	doc, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}
	if s.router, err = legacy.NewRouter(doc); err != nil {
		return nil, fmt.Errorf("failed to build OpenAPI router: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(specYAML)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Post("/v1/apply", s.Apply)

	return r, nil
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>ensureline API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// ErrorResponse is the body of every non-2xx answer from /v1/apply.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

// Apply handles POST /v1/apply.
func (s *Server) Apply(w http.ResponseWriter, r *http.Request) {
	route, pathParams, err := s.router.FindRoute(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	input := &openapi3filter.RequestValidationInput{
		Request:    r,
		PathParams: pathParams,
		Route:      route,
	}
	if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
		s.logger.Warn("Apply: request rejected by schema", "err", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "validation"})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "failed to read body"})
		return
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	dryRun := r.URL.Query().Get("check") == "true"
	res, err := s.applier.ApplyMap(r.Context(), raw, dryRun)
	if err != nil {
		status, resp := errorResponse(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("Apply failed", "err", err)
		}
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func errorResponse(err error) (int, ErrorResponse) {
	resp := ErrorResponse{Error: err.Error(), Kind: observability.ErrorKind(err)}

	var verr *params.ValidationError
	switch {
	case errors.As(err, &verr):
		resp.Field = verr.Field
		return http.StatusBadRequest, resp
	case errors.Is(err, domain.ErrInvalidPattern),
		errors.Is(err, domain.ErrMissingLine),
		errors.Is(err, domain.ErrMissingCriterion),
		errors.Is(err, domain.ErrConflictingPlacement),
		errors.Is(err, domain.ErrBackrefExpansion),
		errors.Is(err, domain.ErrRecordTooLong):
		return http.StatusUnprocessableEntity, resp
	case errors.Is(err, domain.ErrResourceNotFound):
		return http.StatusNotFound, resp
	case errors.Is(err, domain.ErrPermission):
		return http.StatusForbidden, resp
	}
	return http.StatusInternalServerError, resp
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "ensureline-http",
		"version": ensureline.Version,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
