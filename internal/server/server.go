package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/cloud-ru/mcp-mortgage-go/internal/calculations"
	"github.com/cloud-ru/mcp-mortgage-go/internal/metrics"
	"github.com/cloud-ru/mcp-mortgage-go/internal/reviews"
	"github.com/cloud-ru/mcp-mortgage-go/internal/tools"
)

const maxBodyBytes = 1 << 20

// WebAPI обслуживает инструменты по HTTP
type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server
	config Config
}

// Dependencies содержит зависимости обработчиков
type Dependencies struct {
	Tools   map[string]tools.Tool
	Reviews reviews.Provider
}

// Config содержит параметры HTTP сервера
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Dependencies    Dependencies
}

type errorResponse struct {
	Error string `json:"error"`
	Param string `json:"param,omitempty"`
}

// NewWebAPI создает сервер и настраивает маршруты
func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	w := &WebAPI{logger: &logger, config: config}

	router := chi.NewRouter()
	router.Use(requestLogger(&logger))
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		writeJSON(rw, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/tools", w.listTools)
		r.Post("/tools/{tool}", w.callTool)
		r.Get("/reviews", w.lookupReviews)
	})

	w.router = router
	w.server = &http.Server{
		Addr:              config.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return w
}

// Handler возвращает корневой обработчик
func (w *WebAPI) Handler() http.Handler {
	return w.router
}

// Start запускает сервер и ждет SIGINT/SIGTERM для плавной остановки
func (w *WebAPI) Start() error {
	serverErrors := make(chan error, 1)
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-shutdown:
		w.logger.Info().Msg("shutdown initiated")

		ctx, cancel := context.WithTimeout(context.Background(), w.config.ShutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(ctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}
		return err
	}
}

func (w *WebAPI) listTools(rw http.ResponseWriter, _ *http.Request) {
	list := make([]tools.Tool, 0, len(w.config.Dependencies.Tools))
	for _, tool := range w.config.Dependencies.Tools {
		list = append(list, tool)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	writeJSON(rw, http.StatusOK, list)
}

func (w *WebAPI) callTool(rw http.ResponseWriter, req *http.Request) {
	name := chi.URLParam(req, "tool")
	logger := zerolog.Ctx(req.Context())

	tool, ok := w.config.Dependencies.Tools[name]
	if !ok {
		metrics.APICalls.WithLabelValues("http", "unknown", "not_found").Inc()
		writeJSON(rw, http.StatusNotFound, errorResponse{Error: "unknown tool: " + name})
		return
	}

	params := map[string]interface{}{}
	if req.ContentLength != 0 {
		decoder := json.NewDecoder(http.MaxBytesReader(rw, req.Body, maxBodyBytes))
		if err := decoder.Decode(&params); err != nil {
			writeJSON(rw, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
			return
		}
	}

	result, err := tool.Handler(req.Context(), params)
	if err != nil {
		var inputErr *calculations.InputError
		if errors.As(err, &inputErr) {
			writeJSON(rw, http.StatusBadRequest, errorResponse{Error: err.Error(), Param: inputErr.Param})
			return
		}
		logger.Error().Err(err).Str("tool_name", name).Msg("tool call failed")
		writeJSON(rw, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(rw, http.StatusOK, result)
}

func (w *WebAPI) lookupReviews(rw http.ResponseWriter, req *http.Request) {
	provider := w.config.Dependencies.Reviews
	if provider == nil {
		writeJSON(rw, http.StatusServiceUnavailable, errorResponse{Error: "reviews are not configured"})
		return
	}

	building := req.URL.Query().Get("building")
	if building == "" {
		writeJSON(rw, http.StatusBadRequest, errorResponse{Error: "building is required", Param: "building"})
		return
	}

	result, err := provider.Lookup(req.Context(), building)
	if err != nil {
		if errors.Is(err, reviews.ErrNotFound) {
			writeJSON(rw, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		zerolog.Ctx(req.Context()).Error().Err(err).Str("building", building).Msg("review lookup failed")
		writeJSON(rw, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(rw, http.StatusOK, result)
}

func writeJSON(rw http.ResponseWriter, status int, body interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(body)
}

func requestLogger(logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			reqLogger := logger.With().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Str("remote_ip", req.RemoteAddr).
				Logger()

			started := time.Now()
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			next.ServeHTTP(ww, req.WithContext(reqLogger.WithContext(req.Context())))

			reqLogger.Debug().
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(started)).
				Msg("request served")
		})
	}
}
