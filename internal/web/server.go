// Package web serves the asset detail page over HTTP.
//
// Each GET /detail/{cripto} request drives its own detail.View. A ready view is
// rendered as HTML; any failure is answered with a redirect to "/", the
// application root.
package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/rshade/coinfocus/internal/asset"
	"github.com/rshade/coinfocus/internal/detail"
	"github.com/rshade/coinfocus/internal/logging"
)

// RootPath is where every failed detail request is sent.
const RootPath = "/"

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 15 * time.Second
)

//go:embed templates/*.html
var templateFS embed.FS

// Server is the HTTP front-end.
type Server struct {
	router   chi.Router
	fetcher  detail.Fetcher
	viewOpts []detail.Option
	origins  []string
	version  string
	// base goes into request contexts; logger is base tagged "web".
	base     zerolog.Logger
	logger   zerolog.Logger
	pages    map[string]*template.Template
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the base logger. It must not already carry a component field.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) { s.base = logger }
}

// WithCORSOrigins restricts cross-origin requests to origins. The default allows any origin.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithViewOptions forwards options to every detail.View the server creates.
func WithViewOptions(opts ...detail.Option) Option {
	return func(s *Server) { s.viewOpts = append(s.viewOpts, opts...) }
}

// WithVersion sets the version reported by /health.
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// NewServer creates a Server that fetches assets through fetcher.
func NewServer(fetcher detail.Fetcher, opts ...Option) (*Server, error) {
	if fetcher == nil {
		return nil, errors.New("web: nil fetcher")
	}
	s := &Server{
		fetcher: fetcher,
		version: "dev",
		base:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.ComponentLogger(s.base, "web")

	pages, err := parsePages("home", "detail")
	if err != nil {
		return nil, err
	}
	s.pages = pages
	s.router = s.buildRouter()
	return s, nil
}

func parsePages(names ...string) (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// Router returns the HTTP handler.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("http server listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	origins := []string{"*"}
	if len(s.origins) > 0 {
		origins = s.origins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Get(RootPath, s.handleHome)
	r.Get("/detail", s.handleDetailQuery)
	r.Get("/detail/{cripto}", s.handleDetail)

	return r
}

// requestLogger attaches a trace-scoped zerolog logger to the request context
// and logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		traceID := middleware.GetReqID(ctx)
		if traceID == "" {
			traceID = logging.GenerateTraceID()
		}
		ctx = logging.ContextWithTraceID(ctx, traceID)
		ctx = s.base.WithContext(ctx)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		s.logger.Info().
			Str(logging.FieldTraceID, traceID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "home", map[string]string{"Title": "coinfocus"})
}

// handleDetailQuery turns the home form's ?cripto= into a detail path.
func (s *Server) handleDetailQuery(w http.ResponseWriter, r *http.Request) {
	identifier := strings.TrimSpace(r.URL.Query().Get("cripto"))
	if identifier == "" {
		http.Redirect(w, r, RootPath, http.StatusFound)
		return
	}
	http.Redirect(w, r, "/detail/"+url.PathEscape(identifier), http.StatusFound)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "cripto")
	// chi matches on RawPath when it is set; only then is the segment still escaped.
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(identifier); err == nil {
			identifier = unescaped
		}
	}

	redirect := false
	view := detail.New(s.fetcher, detail.NavigatorFunc(func() { redirect = true }), s.viewOpts...)
	defer view.Close()

	view.Load(r.Context(), identifier)

	a, ok := view.Asset()
	if redirect || !ok {
		http.Redirect(w, r, RootPath, http.StatusFound)
		return
	}
	s.render(w, r, "detail", newDetailPage(a))
}

// detailPage is the detail template's data.
type detailPage struct {
	Title       string
	Name        string
	Symbol      string
	IconURL     string
	Price       string
	MarketCap   string
	Volume      string
	Change      string
	ChangeClass string
}

func newDetailPage(a asset.DisplayAsset) detailPage {
	change := a.Change()
	return detailPage{
		Title:       a.Name() + " | coinfocus",
		Name:        a.Name(),
		Symbol:      a.Symbol(),
		IconURL:     a.IconURL(),
		Price:       a.FormattedPrice(),
		MarketCap:   a.FormattedMarketCap(),
		Volume:      a.FormattedVolume(),
		Change:      change.Text,
		ChangeClass: string(change.Style),
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, data any) {
	tmpl, ok := s.pages[page]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		logging.FromContext(r.Context()).Error().Err(err).Str("page", page).Msg("template render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
