// Package server exposes the month, day and threshold operations over
// HTTP with a websocket push channel.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ankushthakur2007/sqp/internal/domain"
	"github.com/ankushthakur2007/sqp/internal/install"
	"github.com/ankushthakur2007/sqp/internal/layout"
	"github.com/ankushthakur2007/sqp/internal/service"
	"github.com/ankushthakur2007/sqp/internal/thresholds"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Version is reported by /api/version.
var Version = "dev"

const shutdownTimeout = 5 * time.Second

// Server wires the HTTP surface to the services.
type Server struct {
	Readings   service.ReadingService
	Thresholds *thresholds.Controller
	Install    *install.Affordance
	Metrics    *service.Metrics
	Layouts    layout.Registry
	Hub        *Hub
	Log        *zap.Logger

	// baseCtx ends websocket streams on shutdown.
	baseCtx context.Context
}

// New returns a server with a fresh hub. Threshold changes, including ones
// picked up from disk, are pushed to websocket clients.
func New(readings service.ReadingService, th *thresholds.Controller, inst *install.Affordance, metrics *service.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = service.NewMetrics()
	}
	s := &Server{
		Readings:   readings,
		Thresholds: th,
		Install:    inst,
		Metrics:    metrics,
		Layouts:    layout.DefaultRegistry(),
		Hub:        NewHub(logger),
		Log:        logger.Named("http"),
		baseCtx:    context.Background(),
	}
	th.OnChange(func(domain.Thresholds) {
		s.Hub.Broadcast(Event{Type: EventThresholds})
	})
	return s
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", s.Metrics.Handler())
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		s.Hub.ServeWS(s.baseCtx, w, req)
	})

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.statsMiddleware)
	api.HandleFunc("/version", s.handleVersion).Methods(http.MethodGet)
	api.HandleFunc("/months/{year:[0-9]{4}}/{month:[0-9]{1,2}}", s.handleGetMonth).Methods(http.MethodGet)
	api.HandleFunc("/days/{date}", s.handleGetDay).Methods(http.MethodGet)
	api.HandleFunc("/days/{date}", s.handlePutDay).Methods(http.MethodPut)
	api.HandleFunc("/thresholds", s.handleGetThresholds).Methods(http.MethodGet)
	api.HandleFunc("/thresholds", s.handlePatchThresholds).Methods(http.MethodPatch)
	api.HandleFunc("/install", s.handleGetInstall).Methods(http.MethodGet)
	api.HandleFunc("/install", s.handleTriggerInstall).Methods(http.MethodPost)
	api.HandleFunc("/install/offer", s.handleOfferInstall).Methods(http.MethodPost)

	return r
}

// Handler wraps the router with OpenTelemetry instrumentation.
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.Router(), "sqp",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			if route := mux.CurrentRoute(r); route != nil {
				if tmpl, err := route.GetPathTemplate(); err == nil {
					return r.Method + " " + tmpl
				}
			}
			return r.Method + " " + r.URL.Path
		}))
}

// Run serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)
	s.baseCtx = gctx

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		s.Log.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		err := srv.Shutdown(shutdownCtx)
		s.Hub.Wait()
		return err
	})
	return g.Wait()
}

// RespWriter records the status code for the stats middleware.
type RespWriter struct {
	http.ResponseWriter
	Status int
}

func (w *RespWriter) WriteHeader(status int) {
	w.Status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *RespWriter) Write(b []byte) (int, error) {
	return w.ResponseWriter.Write(b)
}

func (s *Server) statsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &RespWriter{ResponseWriter: w, Status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		s.Metrics.RecHTTP(strconv.Itoa(wrapped.Status), r.Method)
	})
}
