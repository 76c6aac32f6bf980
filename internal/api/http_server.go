package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"reflect"
	"strconv"
	"time"

	"kashika/internal/config"
	"kashika/internal/domain"
	"kashika/internal/metrics"
	"kashika/internal/models"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/rs/zerolog"
)

const formContentType = "application/x-www-form-urlencoded"

// HTTPServer serves the booking endpoint, a health probe and the static site.
type HTTPServer struct {
	cfg      config.HTTPConfig
	notifier domain.BookingNotifier
	logger   *zerolog.Logger
	decoder  *schema.Decoder
	server   *http.Server
}

func NewHTTPServer(cfg config.HTTPConfig, notifier domain.BookingNotifier, logger *zerolog.Logger) *HTTPServer {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	decoder.RegisterConverter(models.Text(""), func(v string) reflect.Value {
		return reflect.ValueOf(models.Text(v))
	})

	srv := &HTTPServer{cfg: cfg, notifier: notifier, logger: logger, decoder: decoder}

	r := mux.NewRouter()
	r.HandleFunc(models.BookPackagePath, srv.handleBookPackage).Methods(http.MethodPost)
	r.HandleFunc("/healthz", srv.handleHealth).Methods(http.MethodGet)
	if dir := cfg.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			r.PathPrefix("/").Handler(http.FileServer(http.Dir(dir))).Methods(http.MethodGet, http.MethodHead)
		} else {
			logger.Warn().Str("static_dir", dir).Msg("static directory not found, not serving files")
		}
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.CORSOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           cors(srv.loggingMiddleware(r)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleBookPackage(w http.ResponseWriter, r *http.Request) {
	sub, err := s.decodeSubmission(r)
	if err != nil {
		s.logger.Warn().Err(err).Msg("decode booking submission")
		writeJSON(w, http.StatusBadRequest, models.BookingResponse{Success: false, Message: models.MsgInvalidBody})
		return
	}

	// Mail delivery is not abandoned when the browser goes away.
	outcome := s.notifier.Notify(context.WithoutCancel(r.Context()), sub)

	status := http.StatusOK
	if !outcome.Succeeded() {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, models.BookingResponse{Success: outcome.Succeeded(), Message: outcome.Message()})
}

func (s *HTTPServer) decodeSubmission(r *http.Request) (models.Submission, error) {
	var sub models.Submission

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == formContentType {
		if err := r.ParseForm(); err != nil {
			return sub, fmt.Errorf("parse form: %w", err)
		}
		if err := s.decoder.Decode(&sub, r.PostForm); err != nil {
			return sub, fmt.Errorf("decode form: %w", err)
		}
		return sub, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		if errors.Is(err, io.EOF) {
			return sub, nil
		}
		return sub, fmt.Errorf("decode json: %w", err)
	}
	return sub, nil
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// loggingMiddleware wraps the whole router so unmatched requests are logged and counted too.
func (s *HTTPServer) loggingMiddleware(router *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		router.ServeHTTP(recorder, r)

		metrics.IncHTTP(endpointLabel(router, r), strconv.Itoa(recorder.status))

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

// endpointLabel keeps metric cardinality bounded: route templates for known routes, a
// fixed label for everything else.
func endpointLabel(router *mux.Router, r *http.Request) string {
	var match mux.RouteMatch
	if router.Match(r, &match) && match.Route != nil {
		if tpl, err := match.Route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	if errors.Is(match.MatchErr, mux.ErrMethodMismatch) {
		return "method_not_allowed"
	}
	return "unmatched"
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
