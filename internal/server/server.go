// Package server serves timelane charts over HTTP for live previews.
//
// Every request reloads the items from the configured source, so editing
// an item file and refreshing the browser shows the new layout. Query
// parameters override the chart options the server was started with:
//
//	GET /healthz
//	GET /version
//	GET /items
//	GET /chart.svg?start=2024-03-01&end=2024-03-31&unit=day&width=1200
//	GET /chart.json?viewport=400&scroll=0.5
//	GET /chart.txt?columns=120
//	GET /layout.json
package server

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/timelane/pkg/buildinfo"
	"github.com/matzehuels/timelane/pkg/errors"
	"github.com/matzehuels/timelane/pkg/itemio"
	"github.com/matzehuels/timelane/pkg/observability"
	"github.com/matzehuels/timelane/pkg/pipeline"
	"github.com/matzehuels/timelane/pkg/render"
	"github.com/matzehuels/timelane/pkg/source"
)

// requestTimeout bounds a single chart request, source load included.
const requestTimeout = 30 * time.Second

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatJSON: "application/json",
	pipeline.FormatText: "text/plain; charset=utf-8",
}

// Server renders charts from one item source.
type Server struct {
	runner *pipeline.Runner
	src    source.Source
	opts   pipeline.Options
	logger *log.Logger
}

// New returns a server rendering items from src with base options opts.
func New(runner *pipeline.Runner, src source.Source, opts pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{runner: runner, src: src, opts: opts, logger: logger}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Get("/items", s.handleItems)
	r.Get("/layout.json", s.handleLayout)
	r.Get("/chart.{format}", s.handleChart)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(buildinfo.String() + "\n"))
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.runner.Load(r.Context(), s.src, s.opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := itemio.WriteJSON(items, &buf); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode items"))
		return
	}
	s.write(w, contentTypes[pipeline.FormatJSON], buf.Bytes())
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	chart, err := s.chart(r, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	data, err := render.MarshalChart(chart)
	if err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode layout"))
		return
	}
	s.write(w, contentTypes[pipeline.FormatJSON], data)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(chi.URLParam(r, "format"))
	if err := pipeline.ValidateFormat(format); err != nil {
		s.fail(w, r, errors.Wrap(errors.ErrCodeNotFound, err, "no chart format %q", format))
		return
	}
	opts, err := s.options(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Render.Formats = []string{format}

	chart, err := s.chart(r, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	artifacts, err := s.runner.Render(r.Context(), chart, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.write(w, contentTypes[format], artifacts[format])
}

func (s *Server) chart(r *http.Request, opts pipeline.Options) (*render.Chart, error) {
	items, err := s.runner.Load(r.Context(), s.src, opts)
	if err != nil {
		return nil, err
	}
	return s.runner.Layout(r.Context(), items, opts)
}

// options applies query parameters to a copy of the base options.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.opts
	opts.Render.Formats = nil
	q := r.URL.Query()

	str := func(name string, dst *string) {
		if v := q.Get(name); v != "" {
			*dst = v
		}
	}
	var firstErr error
	num := func(name string, dst *float64) {
		v := q.Get(name)
		if v == "" || firstErr != nil {
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			firstErr = errors.New(errors.ErrCodeInvalidInput, "query %s: %q is not a number", name, v)
			return
		}
		*dst = f
	}
	flag := func(name string, dst *bool) {
		v := q.Get(name)
		if v == "" || firstErr != nil {
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			firstErr = errors.New(errors.ErrCodeInvalidInput, "query %s: %q is not a boolean", name, v)
			return
		}
		*dst = b
	}

	str("start", &opts.Window.Start)
	str("end", &opts.Window.End)
	str("unit", &opts.Window.Unit)
	str("grouping", &opts.Lane.Grouping)
	str("style", &opts.Render.Style)
	num("width", &opts.Lane.Width)
	num("item_height", &opts.Lane.ItemHeight)
	num("viewport", &opts.Render.ViewportHeight)
	num("viewport_width", &opts.Render.ViewportWidth)
	num("scroll", &opts.Render.Scroll)
	flag("tooltips", &opts.Render.Tooltips)
	flag("color", &opts.Render.Color)

	packing := !opts.Lane.NoPacking
	flag("packing", &packing)
	opts.Lane.NoPacking = !packing

	if v := q.Get("columns"); v != "" && firstErr == nil {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			firstErr = errors.New(errors.ErrCodeInvalidInput, "query columns: %q is not a positive integer", v)
		} else {
			opts.Render.Columns = n
		}
	}
	if firstErr != nil {
		return opts, firstErr
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

func (s *Server) write(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	http.Error(w, errors.UserMessage(err), status)
}

// logRequests reports every request to the HTTP hooks and the debug log.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		began := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(began)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		s.logger.Debug("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", elapsed.Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
