// Package remote serves a browser touch pad that drives the car over a
// WebSocket, plus a small JSON API with the live pose.
package remote

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/carview/internal/engine/keys"
	"github.com/Faultbox/carview/internal/logger"
	"github.com/Faultbox/carview/internal/telemetry"
)

//go:embed pad.html
var padFS embed.FS

var padTemplate = template.Must(template.ParseFS(padFS, "pad.html"))

const (
	maxKeyLen    = 32
	sendTimeout  = time.Second
	poseInterval = 200 * time.Millisecond
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// KeySink receives key events from pad clients.
type KeySink interface {
	Send(ctx context.Context, ev keys.KeyEvent) error
}

// PoseSource provides the latest telemetry sample.
type PoseSource interface {
	Latest() telemetry.Sample
}

// Server is the touch pad HTTP server.
type Server struct {
	sink  KeySink
	poses PoseSource
	log   *zap.Logger

	upgrader websocket.Upgrader
	handler  http.Handler

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
	clients  sync.WaitGroup
	closing  chan struct{}
}

// New creates a server. Nothing listens until Start.
func New(sink KeySink, poses PoseSource) *Server {
	s := &Server{
		sink:    sink,
		poses:   poses,
		log:     logger.Named("remote"),
		closing: make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The pad is opened from phones on the LAN
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/api/buttons", s.handleButtons).Methods(http.MethodGet)
	r.HandleFunc("/api/pose", s.handlePose).Methods(http.MethodGet)
	r.HandleFunc("/ws/pad", s.handlePad)

	stdLog := zap.NewStdLog(s.log)
	var h http.Handler = r
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(stdLog), handlers.PrintRecoveryStack(true))(h)
	h = handlers.LoggingHandler(stdLog.Writer(), h)
	s.handler = h

	return s
}

// Handler returns the routed and wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on addr and serves in the background.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = ln
	s.srv = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv := s.srv
	s.mu.Unlock()

	s.log.Info("touch pad listening", zap.String("url", "http://"+ln.Addr().String()+"/"))

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("touch pad server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the listening address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops the server and waits for pad connections to release their keys.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	select {
	case <-s.closing:
	default:
		close(s.closing)
	}
	s.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}

	done := make(chan struct{})
	go func() {
		s.clients.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}
	return err
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := padTemplate.Execute(w, keys.TouchButtons); err != nil {
		s.log.Error("render pad page", zap.Error(err))
	}
}

func (s *Server) handleButtons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, keys.TouchButtons)
}

func (s *Server) handlePose(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.poses.Latest())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(v)
}

// ValidateEvent checks a pad message before it reaches the key table.
func ValidateEvent(ev keys.KeyEvent) error {
	if ev.Key == "" {
		return errors.New("empty key")
	}
	if len(ev.Key) > maxKeyLen {
		return errors.New("key name too long")
	}
	return nil
}
