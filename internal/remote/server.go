// Package remote implements the local control socket through which other
// processes drive a running wayfinder host. Clients send length-prefixed
// JSON command frames; each frame is answered with a one byte ACK once the
// host has applied (or rejected) the commands.
//
//	wayfinder send ──► unix socket ──► Server ──► Handler ──► Router
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"
)

// Handler applies decoded commands. A non-nil error is reported to the
// client as AckError.
type Handler func(msgs []CommandMessage) error

// Config holds the listener addresses of the control server.
type Config struct {
	// ListenAddr is a socket path on Unix and host:port on Windows.
	ListenAddr string

	// MetricsAddr is the HTTP address for health and metrics.
	// Empty disables the metrics server.
	MetricsAddr string
}

// Metrics tracks control traffic.
type Metrics struct {
	Connections     int64 `json:"connections"`
	FramesReceived  int64 `json:"frames_received"`
	CommandsApplied int64 `json:"commands_applied"`
	CommandsFailed  int64 `json:"commands_failed"`
	ProtocolErrors  int64 `json:"protocol_errors"`
	Uptime          int64 `json:"uptime_seconds"`
}

// Server accepts control connections and feeds their commands to a Handler.
type Server struct {
	config  Config
	handler Handler
	logger  zerolog.Logger

	connections     atomic.Int64
	framesReceived  atomic.Int64
	commandsApplied atomic.Int64
	commandsFailed  atomic.Int64
	protocolErrors  atomic.Int64

	listener net.Listener
	http     *http.Server
	wg       sync.WaitGroup
	started  time.Time
	cancel   context.CancelFunc
}

// NewServer creates a control server. It does not listen until Start.
func NewServer(config Config, handler Handler, logger zerolog.Logger) *Server {
	return &Server{
		config:  config,
		handler: handler,
		logger:  logger.With().Str("component", "remote").Logger(),
	}
}

// Start listens on the control socket and, when configured, the metrics
// address.
func (s *Server) Start(ctx context.Context) error {
	s.started = time.Now()

	network := Network()
	if network == "unix" {
		// Stale socket from a previous run.
		os.Remove(s.config.ListenAddr)
	}

	listener, err := net.Listen(network, s.config.ListenAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.config.ListenAddr, err)
	}
	s.listener = listener

	ctx, s.cancel = context.WithCancel(ctx)

	if s.config.MetricsAddr != "" {
		s.http = &http.Server{Addr: s.config.MetricsAddr, Handler: s.MetricsHandler()}
		s.wg.Add(1)
		go s.serveMetrics()
	}

	s.wg.Add(1)
	go s.acceptLoop(ctx)

	s.logger.Info().Str("addr", s.config.ListenAddr).Str("network", network).Msg("control socket listening")
	return nil
}

// Addr returns the bound control address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop closes the listeners and waits for open connections to finish.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.listener != nil {
		s.listener.Close()
	}
	if s.http != nil {
		s.http.Shutdown(context.Background())
	}
	s.wg.Wait()
	if Network() == "unix" && s.listener != nil {
		os.Remove(s.config.ListenAddr)
	}
	s.logger.Info().Msg("control socket stopped")
	return nil
}

// Metrics returns a snapshot of the control counters.
func (s *Server) Metrics() Metrics {
	var uptime int64
	if !s.started.IsZero() {
		uptime = int64(time.Since(s.started).Seconds())
	}
	return Metrics{
		Connections:     s.connections.Load(),
		FramesReceived:  s.framesReceived.Load(),
		CommandsApplied: s.commandsApplied.Load(),
		CommandsFailed:  s.commandsFailed.Load(),
		ProtocolErrors:  s.protocolErrors.Load(),
		Uptime:          uptime,
	}
}

func (s *Server) acceptLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.logger.Error().Err(err).Msg("accept failed")
			continue
		}

		s.connections.Inc()
		s.wg.Add(1)
		go s.handleConnection(ctx, conn)
	}
}

// handleConnection answers every frame on conn with one ACK byte until the
// client hangs up.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		t, payload, err := ReadFrame(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				s.logger.Debug().Err(err).Msg("connection read error")
				s.protocolErrors.Inc()
			}
			return
		}
		s.framesReceived.Inc()

		ack := AckOK
		if err := s.process(t, payload); err != nil {
			s.logger.Warn().Err(err).Msg("control command rejected")
			ack = AckError
		}
		if _, err := conn.Write([]byte{ack}); err != nil {
			return
		}
	}
}

func (s *Server) process(t MessageType, payload []byte) error {
	msgs, err := Decode(t, payload)
	if err != nil {
		s.protocolErrors.Inc()
		return err
	}
	if err := s.handler(msgs); err != nil {
		s.commandsFailed.Inc()
		return err
	}
	s.commandsApplied.Add(int64(len(msgs)))
	return nil
}

// MetricsHandler serves /health, /metrics (Prometheus text) and
// /api/metrics (JSON).
func (s *Server) MetricsHandler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		m := s.Metrics()
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		writeMetric(w, "wayfinder_control_connections_total", "Total control connections", "counter", m.Connections)
		writeMetric(w, "wayfinder_control_frames_total", "Total frames received", "counter", m.FramesReceived)
		writeMetric(w, "wayfinder_commands_applied_total", "Total commands applied", "counter", m.CommandsApplied)
		writeMetric(w, "wayfinder_commands_failed_total", "Total frames rejected by the host", "counter", m.CommandsFailed)
		writeMetric(w, "wayfinder_protocol_errors_total", "Total malformed frames", "counter", m.ProtocolErrors)
		writeMetric(w, "wayfinder_uptime_seconds", "Uptime in seconds", "gauge", m.Uptime)
	})

	mux.HandleFunc("/api/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.Metrics())
	})

	return mux
}

func writeMetric(w io.Writer, name, help, kind string, v int64) {
	fmt.Fprintf(w, "# HELP %s %s\n", name, help)
	fmt.Fprintf(w, "# TYPE %s %s\n", name, kind)
	fmt.Fprintf(w, "%s %d\n", name, v)
}

func (s *Server) serveMetrics() {
	defer s.wg.Done()

	s.logger.Info().Msgf("metrics server listening on http://%s/metrics", s.config.MetricsAddr)
	if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error().Err(err).Msg("metrics server")
	}
}
