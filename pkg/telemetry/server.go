package telemetry

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rpi-dashboard/pkg/version"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Server exposes /metrics, /status and /healthz for the running dashboard.
type Server struct {
	addr   string
	reader TelemetryReader
	prom   *PrometheusPublisher
	logger *log.Logger

	srv *http.Server
	ln  net.Listener
}

func NewServer(addr string, reader TelemetryReader, prom *PrometheusPublisher, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.Writer(), "[METRICS] ", log.LstdFlags)
	}
	s := &Server{
		addr:   addr,
		reader: reader,
		prom:   prom,
		logger: logger,
	}
	s.srv = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Router builds the route table. Exposed for handler tests.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	if s.prom != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.prom.Registry(), promhttp.HandlerOpts{})).Methods("GET")
	}
	r.HandleFunc("/status", s.handleStatus).Methods("GET")
	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")
	return r
}

type statusResponse struct {
	Build     version.BuildInfo `json:"build"`
	Telemetry *Snapshot         `json:"telemetry,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Build: version.Info()}
	if s.reader != nil {
		snap := s.reader.Snapshot()
		resp.Telemetry = &snap
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Printf("status encode failed: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.logger.Printf("serving metrics on %s", ln.Addr())

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("metrics server stopped: %v", err)
		}
	}()
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.addr
	}
	return s.ln.Addr().String()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
