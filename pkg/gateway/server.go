package gateway

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/harun/agentbuilder/internal/tracing"
	"github.com/harun/agentbuilder/pkg/action"
	"github.com/harun/agentbuilder/pkg/agent"
	"github.com/harun/agentbuilder/pkg/fault"
	"github.com/harun/agentbuilder/pkg/memory"
)

// SecretHeader carries the shared secret when one is configured.
const SecretHeader = "X-Agentbuilder-Secret"

// TraceHeader lets callers supply their own trace ID.
const TraceHeader = "X-Trace-Id"

// Agent is the part of *agent.Agent the gateway drives.
type Agent interface {
	Act(ctx context.Context, input string, opts ...agent.ActOption) agent.Reply
	Reset()
	Memory() *memory.Buffer
}

// Observer receives request and state metrics.
type Observer interface {
	ObserveRequest(route string, code int)
	SetMemoryTurns(n int)
	SetConnections(n int)
}

// Config holds server configuration
type Config struct {
	Host         string
	Port         int
	SharedSecret string

	Agent Agent

	// Defaults applied when a request leaves the flag unset.
	FormatResponse  bool
	ShowFullDetails bool

	Observer       Observer
	MetricsHandler http.Handler
	Logger         zerolog.Logger
}

// Server exposes one agent over HTTP and websocket. Agent calls are serialized.
type Server struct {
	cfg      Config
	agent    Agent
	router   *RPCRouter
	upgrader websocket.Upgrader
	logger   zerolog.Logger

	// mu serializes every call into the agent.
	mu sync.Mutex

	clientsMu sync.Mutex
	clients   map[string]*websocket.Conn

	server *http.Server
}

// NewServer creates a new gateway server
func NewServer(cfg Config) (*Server, error) {
	if cfg.Agent == nil {
		return nil, fmt.Errorf("agent is required")
	}
	if cfg.Port < 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port: %d", cfg.Port)
	}

	s := &Server{
		cfg:     cfg,
		agent:   cfg.Agent,
		router:  NewRPCRouter(),
		logger:  cfg.Logger.With().Str("component", "gateway").Logger(),
		clients: make(map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	s.registerMethods()

	return s, nil
}

func (s *Server) registerMethods() {
	_ = s.router.RegisterMethod(MethodAct, func(ctx context.Context, params ActRequest) (any, error) {
		return s.act(ctx, params), nil
	})
	_ = s.router.RegisterMethod(MethodReset, func(ctx context.Context, _ ActRequest) (any, error) {
		s.reset(ctx)
		return StatusResponse{Status: "ok"}, nil
	})
	_ = s.router.RegisterMethod(MethodHistory, func(context.Context, ActRequest) (any, error) {
		return s.history(), nil
	})
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /act", s.instrument("/act", s.authorize(http.HandlerFunc(s.handleAct))))
	mux.Handle("POST /reset", s.instrument("/reset", s.authorize(http.HandlerFunc(s.handleReset))))
	mux.Handle("GET /history", s.instrument("/history", s.authorize(http.HandlerFunc(s.handleHistory))))
	mux.Handle("GET /ws", s.authorize(http.HandlerFunc(s.handleWebSocket)))
	if s.cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", s.cfg.MetricsHandler)
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
	})
	return mux
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.server.Addr).Msg("Starting gateway server")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	return s.Stop()
}

// Stop closes websocket clients and shuts the HTTP server down.
func (s *Server) Stop() error {
	s.logger.Info().Msg("Shutting down gateway server")

	s.clientsMu.Lock()
	for id, conn := range s.clients {
		_ = conn.Close()
		delete(s.clients, id)
	}
	s.clientsMu.Unlock()

	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	s.logger.Info().Msg("Gateway server stopped")
	return nil
}

func (s *Server) act(ctx context.Context, req ActRequest) ActResponse {
	format := s.cfg.FormatResponse
	if req.FormatResponse != nil {
		format = *req.FormatResponse
	}
	fullDetails := s.cfg.ShowFullDetails
	if req.ShowFullDetails != nil {
		fullDetails = *req.ShowFullDetails
	}

	s.mu.Lock()
	reply := s.agent.Act(ctx, req.Input, agent.WithFormatting(format), agent.WithFullDetails(fullDetails))
	turns := s.agent.Memory().Len()
	s.mu.Unlock()

	if s.cfg.Observer != nil {
		s.cfg.Observer.SetMemoryTurns(turns)
	}

	resp := ActResponse{
		Text:      reply.Text,
		ErrorKind: string(fault.KindOf(reply.Err)),
		TraceID:   tracing.GetTraceID(ctx),
	}
	if reply.Action != nil {
		resp.Action = action.Variant(reply.Action)
	}
	return resp
}

func (s *Server) reset(ctx context.Context) {
	s.mu.Lock()
	s.agent.Reset()
	s.mu.Unlock()

	if s.cfg.Observer != nil {
		s.cfg.Observer.SetMemoryTurns(0)
	}
	logger := tracing.LoggerFromContext(ctx, s.logger)
	logger.Info().Msg("Memory reset")
}

func (s *Server) history() HistoryResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	mem := s.agent.Memory()
	return HistoryResponse{
		MaxTurns:     mem.MaxTurns(),
		Interactions: mem.History(),
	}
}

func (s *Server) handleAct(w http.ResponseWriter, r *http.Request) {
	var req ActRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	ctx := requestContext(r)
	logger := tracing.LoggerFromContext(ctx, s.logger)
	logger.Debug().
		Int("input_length", len(req.Input)).
		Msg("Gateway received act request")

	writeJSON(w, http.StatusOK, s.act(ctx, req))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.reset(requestContext(r))
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.history())
}

// handleWebSocket serves one client; each text message is one RPCRequest.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to upgrade connection")
		return
	}

	clientID, err := gonanoid.New()
	if err != nil {
		clientID = tracing.NewRunID()
	}
	s.addClient(clientID, conn)
	defer s.removeClient(clientID)

	ctx := tracing.WithClientID(r.Context(), clientID)
	logger := tracing.LoggerFromContext(ctx, s.logger)
	logger.Info().Str("ip", r.RemoteAddr).Msg("Client connected")

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Error().Err(err).Msg("WebSocket error")
			}
			break
		}

		resp := s.handleMessage(ctx, message)
		if err := conn.WriteJSON(resp); err != nil {
			logger.Error().Err(err).Str("request_id", resp.ID).Msg("Failed to send response")
			break
		}
	}

	logger.Info().Msg("Client disconnected")
}

func (s *Server) handleMessage(ctx context.Context, message []byte) *RPCResponse {
	req, err := s.router.ParseRequest(message)
	if err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			return errorResponse("", rpcErr.Code, rpcErr.Message)
		}
		return errorResponse("", ParseError, err.Error())
	}

	ctx = tracing.WithTraceID(ctx, tracing.NewTraceID())
	resp := s.router.RouteRequest(ctx, req)
	if s.cfg.Observer != nil {
		code := http.StatusOK
		if resp.Error != nil {
			code = http.StatusBadRequest
		}
		s.cfg.Observer.ObserveRequest("/ws:"+req.Method, code)
	}
	return resp
}

func (s *Server) addClient(id string, conn *websocket.Conn) {
	s.clientsMu.Lock()
	s.clients[id] = conn
	n := len(s.clients)
	s.clientsMu.Unlock()

	if s.cfg.Observer != nil {
		s.cfg.Observer.SetConnections(n)
	}
}

func (s *Server) removeClient(id string) {
	s.clientsMu.Lock()
	if conn, ok := s.clients[id]; ok {
		_ = conn.Close()
		delete(s.clients, id)
	}
	n := len(s.clients)
	s.clientsMu.Unlock()

	if s.cfg.Observer != nil {
		s.cfg.Observer.SetConnections(n)
	}
}

// authorize rejects requests without the shared secret when one is configured.
func (s *Server) authorize(next http.Handler) http.Handler {
	if s.cfg.SharedSecret == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(SecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.cfg.SharedSecret)) != 1 {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) instrument(route string, next http.Handler) http.Handler {
	if s.cfg.Observer == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.cfg.Observer.ObserveRequest(route, rec.status)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestContext carries the caller's trace ID, or a new one. Acts run to
// completion even if the client disconnects.
func requestContext(r *http.Request) context.Context {
	traceID := r.Header.Get(TraceHeader)
	if traceID == "" {
		traceID = tracing.NewTraceID()
	}
	return tracing.WithTraceID(context.WithoutCancel(r.Context()), traceID)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
