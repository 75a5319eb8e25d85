package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/GalacticGlum/FreeCell/pkg/errors"
	"github.com/GalacticGlum/FreeCell/pkg/pipeline"
)

// shutdownTimeout bounds graceful server shutdown.
const shutdownTimeout = 5 * time.Second

// serveCommand creates the serve command exposing layout computation over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stack layouts over HTTP",
		Long: `Serve stack layouts over HTTP.

Exposes GET /v1/layout?cards=N returning the layout artifact as JSON.
Geometry and visibility can be overridden per request with query
parameters (viewport_height, card_height, visibility, max_cards,
group_size, compression_factor); refresh=true bypasses the cache.

GET /healthz reports liveness.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runServe starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	cfg, err := loadDefaultConfig()
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache, cfg)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           c.newServeHandler(runner, cfg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			c.Logger.Error("server shutdown failed", "err", err)
		}
	}()

	c.Logger.Info("serving layouts", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// newServeHandler builds the HTTP routing tree.
func (c *CLI) newServeHandler(runner *pipeline.Runner, cfg Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/layout", c.handleLayout(runner, cfg))

	return r
}

// handleLayout computes a layout from query parameters.
func (c *CLI) handleLayout(runner *pipeline.Runner, cfg Config) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		opts, err := layoutOptsFromQuery(req)
		if err != nil {
			writeError(w, err)
			return
		}
		cfg.applyTo(&opts)
		opts.Logger = c.Logger

		layout, err := runner.ComputeLayout(req.Context(), opts)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, layout)
	}
}

// layoutOptsFromQuery parses pipeline options from URL query parameters.
func layoutOptsFromQuery(req *http.Request) (pipeline.Options, error) {
	q := req.URL.Query()
	var opts pipeline.Options

	cards := q.Get("cards")
	if cards == "" {
		return opts, errors.New(errors.ErrCodeInvalidCardCount, "missing required parameter: cards")
	}
	count, err := strconv.Atoi(cards)
	if err != nil {
		return opts, errors.New(errors.ErrCodeInvalidCardCount, "cards must be an integer, got %q", cards)
	}
	opts.CardCount = count

	floats := map[string]*float64{
		"viewport_height":    &opts.ViewportHeight,
		"card_height":        &opts.CardHeight,
		"visibility":         &opts.DefaultVisibility,
		"compression_factor": &opts.CompressionFactor,
	}
	for name, dst := range floats {
		if raw := q.Get(name); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be a number, got %q", name, raw)
			}
			*dst = v
		}
	}

	ints := map[string]*int{
		"max_cards":  &opts.MaxCards,
		"group_size": &opts.CompressedGroupSize,
	}
	for name, dst := range ints {
		if raw := q.Get(name); raw != "" {
			v, err := strconv.Atoi(raw)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", name, raw)
			}
			*dst = v
		}
	}

	opts.Refresh = q.Get("refresh") == "true"

	return opts, nil
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeError maps structured error codes to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput,
		errors.ErrCodeInvalidGeometry,
		errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidCardCount,
		errors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}

	var body errorResponse
	body.Error.Code = string(errors.GetCode(err))
	if body.Error.Code == "" {
		body.Error.Code = string(errors.ErrCodeInternal)
	}
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
