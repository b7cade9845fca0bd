package httpapi

import (
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"cardapio-virtual/internal/apierr"
	"cardapio-virtual/internal/metrics"
)

type RouterConfig struct {
	Logger          *logrus.Logger
	ImagesDir       string
	ImagesURLPrefix string
	// RateLimitRPS of zero disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int
}

// NewRouter mounts the API, the image directory and /metrics behind CORS.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	r := mux.NewRouter()
	r.Use(LoggingMiddleware(cfg.Logger), MetricsMiddleware)
	if cfg.RateLimitRPS > 0 {
		r.Use(NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).Handler)
	}

	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	if cfg.ImagesDir != "" {
		prefix := strings.TrimSuffix(cfg.ImagesURLPrefix, "/") + "/"
		r.PathPrefix(prefix).Handler(http.StripPrefix(prefix, http.FileServer(imageFS{http.Dir(cfg.ImagesDir)}))).Methods("GET", "HEAD")
	}

	h.RegisterRoutes(r)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.Write(w, apierr.NotFound("Recurso não encontrado."))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		apierr.Write(w, apierr.New(http.StatusMethodNotAllowed, "Método não permitido."))
	})

	return cors.AllowAll().Handler(r)
}

// imageFS exposes only regular files. Directories and dotfiles, such as
// in-flight uploads, are reported as missing.
type imageFS struct {
	root http.FileSystem
}

func (fsys imageFS) Open(name string) (http.File, error) {
	if strings.HasPrefix(path.Base(name), ".") {
		return nil, fs.ErrNotExist
	}
	f, err := fsys.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
