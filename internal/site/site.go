// Package site serves the demo application: a home page listing the store
// buckets and one page per demo form. Pages render server side with the
// vanilla renderer, validate submissions per field timing mode and commit
// accepted values to the form store.
package site

import (
	"embed"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-genform/pkg/model"
	"github.com/goliatone/go-genform/pkg/render"
	rendertemplate "github.com/goliatone/go-genform/pkg/render/template"
	gotemplate "github.com/goliatone/go-genform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-genform/pkg/renderers/vanilla"
	"github.com/goliatone/go-genform/pkg/store"
	"github.com/goliatone/go-genform/pkg/validation"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// Option configures a Site.
type Option func(*Site)

// WithBasePath mounts every route under base.
func WithBasePath(base string) Option {
	return func(s *Site) {
		s.basePath = base
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *Site) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore shares a form store with the site.
func WithStore(st *store.Store) Option {
	return func(s *Site) {
		if st != nil {
			s.store = st
		}
	}
}

// WithForms replaces the embedded demo forms.
func WithForms(forms map[string]model.Form) Option {
	return func(s *Site) {
		if forms != nil {
			s.forms = forms
		}
	}
}

// WithTheme sets the resolved theme configuration.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Site) {
		if cfg != nil {
			s.theme = cfg
		}
	}
}

// WithMetrics sets the metrics collectors.
func WithMetrics(metrics *Metrics) Option {
	return func(s *Site) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithSubmitHandler installs a custom handler for accepted submissions of
// the named form.
func WithSubmitHandler(form string, handler SubmitHandler) Option {
	return func(s *Site) {
		if handler != nil {
			s.handlers[form] = handler
		}
	}
}

// WithIDGenerator overrides receipt id generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Site) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithClock overrides the time source.
func WithClock(fn func() time.Time) Option {
	return func(s *Site) {
		if fn != nil {
			s.now = fn
		}
	}
}

// Site is the demo application.
type Site struct {
	basePath string
	logger   logrus.FieldLogger
	store    *store.Store
	forms    map[string]model.Form
	theme    *theme.RendererConfig
	metrics  *Metrics
	engine   *validation.Engine
	renderer render.Renderer
	pages    rendertemplate.TemplateRenderer
	handlers map[string]SubmitHandler
	newID    func() string
	now      func() time.Time
}

// New builds a site with the demo forms, the default theme and a fresh store
// unless options say otherwise.
func New(options ...Option) (*Site, error) {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Site{
		basePath: "/",
		logger:   discard,
		handlers: map[string]SubmitHandler{},
		newID:    uuid.NewString,
		now:      time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.basePath = normalizeBase(s.basePath)

	if s.store == nil {
		s.store = store.NewDefault()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.forms == nil {
		forms, err := LoadDemoForms(nil, nil)
		if err != nil {
			return nil, err
		}
		s.forms = forms
	}
	if s.theme == nil {
		themes, err := NewThemes(DefaultManifest())
		if err != nil {
			return nil, err
		}
		selection, err := themes.Select(DefaultThemeName, DefaultThemeVariant)
		if err != nil {
			return nil, err
		}
		s.theme = RendererConfig(selection, s.basePath)
	}
	if _, ok := s.handlers[store.FormSubmitHandler]; !ok {
		s.handlers[store.FormSubmitHandler] = s.receiptHandler
	}
	s.engine = validation.NewEngine(validation.WithLogger(s.logger))

	renderer, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	s.renderer = renderer

	pages, err := gotemplate.New(
		gotemplate.WithName("site"),
		gotemplate.WithFS(embeddedTemplates),
	)
	if err != nil {
		return nil, fmt.Errorf("site: %w", err)
	}
	s.pages = pages

	s.store.Subscribe(s.logMutation)
	s.store.Subscribe(s.metrics.ObserveMutation)
	return s, nil
}

// Store returns the form store backing the site.
func (s *Site) Store() *store.Store {
	return s.store
}

// BasePath returns the normalised base path.
func (s *Site) BasePath() string {
	return s.basePath
}

// Handler builds the router.
func (s *Site) Handler() http.Handler {
	root := mux.NewRouter()
	router := root
	if prefix := strings.TrimSuffix(s.basePath, "/"); prefix != "" {
		root.Handle(prefix, http.RedirectHandler(s.basePath, http.StatusMovedPermanently))
		router = root.PathPrefix(prefix).Subrouter()
	}
	router.Use(recoverPanics(s.logger), s.metrics.Middleware, logRequests(s.logger))

	router.HandleFunc("/", s.handleHome).Methods(http.MethodGet, http.MethodHead)
	for _, route := range Routes() {
		if route.Form == "" {
			continue
		}
		route := route
		router.HandleFunc("/"+route.Path, s.handlePage(route)).Methods(http.MethodGet, http.MethodHead)
		router.HandleFunc("/"+route.Path, s.handleSubmit(route)).Methods(http.MethodPost)
	}
	router.HandleFunc("/{page}/validate", s.handleValidate).Methods(http.MethodPost)
	router.HandleFunc("/{page}/reset", s.handleReset).Methods(http.MethodPost)
	router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	router.PathPrefix("/assets/").Handler(
		http.StripPrefix(s.basePath+"assets/", http.FileServer(http.FS(vanilla.AssetsFS()))),
	).Methods(http.MethodGet, http.MethodHead)
	return root
}

func (s *Site) href(path string) string {
	return s.basePath + strings.TrimPrefix(path, "/")
}

func (s *Site) logMutation(mutation store.Mutation) {
	s.logger.WithFields(logrus.Fields{
		"mutation": mutation.Type,
		"form":     mutation.FormName,
		"fields":   len(mutation.Data),
	}).Info("store mutation committed")
}

func normalizeBase(base string) string {
	base = "/" + strings.Trim(strings.TrimSpace(base), "/")
	if base != "/" {
		base += "/"
	}
	return base
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
