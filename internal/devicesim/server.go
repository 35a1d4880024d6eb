package devicesim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"spooltag/internal/form"
	"spooltag/internal/logging"
	"spooltag/internal/tags"
)

// DefaultBasePath is where Moonraker mounts the RFID component.
const DefaultBasePath = "/server/rfid"

// Result is the body of a write or erase response.
type Result struct {
	Success  bool                `json:"success"`
	Verified bool                `json:"verified,omitempty"`
	Error    string              `json:"error,omitempty"`
	Message  string              `json:"message,omitempty"`
	TagData  *tags.ChannelRecord `json:"tag_data,omitempty"`
}

func failed(msg string) Result {
	return Result{Success: false, Error: msg}
}

// Options configures the HTTP front end.
type Options struct {
	BasePath string
	// Token, when set, is required as a bearer token or X-Api-Key.
	Token string
	// Bare disables the {"result": ...} envelope.
	Bare   bool
	Logger *slog.Logger
}

// Server exposes a Device over HTTP.
type Server struct {
	device *Device
	opts   Options
	logger *slog.Logger
	mux    *http.ServeMux

	listener net.Listener
	server   *http.Server
}

// NewServer builds the HTTP front end for device.
func NewServer(device *Device, opts Options) *Server {
	opts.BasePath = strings.TrimRight(strings.TrimSpace(opts.BasePath), "/")
	if opts.BasePath == "" {
		opts.BasePath = DefaultBasePath
	}
	s := &Server{
		device: device,
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "devicesim"),
		mux:    http.NewServeMux(),
	}
	base := opts.BasePath
	s.mux.HandleFunc("GET "+base+"/tags", authMiddleware(opts.Token, s.handleTags))
	s.mux.HandleFunc("GET "+base+"/tags/{channel}", authMiddleware(opts.Token, s.handleTag))
	s.mux.HandleFunc("POST "+base+"/write_openspool", authMiddleware(opts.Token, s.handleWrite))
	s.mux.HandleFunc("POST "+base+"/erase", authMiddleware(opts.Token, s.handleErase))
	return s
}

// ServeHTTP lets the server be mounted on httptest or another mux.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Start listens on bind until ctx is cancelled. It returns the bound address.
func (s *Server) Start(ctx context.Context, bind string) (string, error) {
	listener, err := net.Listen("tcp", bind)
	if err != nil {
		return "", fmt.Errorf("simulator listen: %w", err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("simulator server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	addr := listener.Addr().String()
	s.logger.Info("simulator listening",
		logging.String("address", addr),
		logging.String("base_path", s.opts.BasePath),
		logging.Int("channels", s.device.Channels()),
	)
	return addr, nil
}

// Stop shuts the listener down.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleTags(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, "tags") {
		return
	}
	s.writeResult(w, map[string]any{"channels": s.device.Records()})
}

func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, "tag") {
		return
	}
	channel, err := strconv.Atoi(r.PathValue("channel"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid channel: %s", r.PathValue("channel")))
		return
	}
	rec, err := s.device.Record(channel)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeResult(w, rec)
}

func (s *Server) handleWrite(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, "write") {
		return
	}
	var payload form.WritePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result := s.device.Write(payload)
	s.logOperation(r, "write", payload.Channel, result)
	s.writeResult(w, result)
}

func (s *Server) handleErase(w http.ResponseWriter, r *http.Request) {
	if s.injected(w, "erase") {
		return
	}
	var payload form.ErasePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result := s.device.Erase(payload)
	s.logOperation(r, "erase", payload.Channel, result)
	s.writeResult(w, result)
}

func (s *Server) injected(w http.ResponseWriter, endpoint string) bool {
	f, ok := s.device.takeFailure(endpoint)
	if !ok {
		return false
	}
	if f.Status == 0 || f.Status == http.StatusOK {
		s.writeResult(w, failed(f.Message))
		return true
	}
	s.writeError(w, f.Status, f.Message)
	return true
}

func (s *Server) logOperation(r *http.Request, op string, channel int, result Result) {
	attrs := []logging.Attr{
		logging.String(logging.FieldOperation, op),
		logging.Int(logging.FieldChannel, channel),
		logging.String(logging.FieldCorrelationID, r.Header.Get("X-Request-ID")),
		logging.Bool("success", result.Success),
	}
	if !result.Success {
		logging.WarnWithContext(s.logger, "simulated operation failed", "device_operation_failed",
			append(attrs, logging.String("reason", result.Error),
				logging.String(logging.FieldImpact, "tag left unchanged"))...)
		return
	}
	s.logger.Info("simulated operation", logging.Args(attrs...)...)
}

func (s *Server) writeResult(w http.ResponseWriter, payload any) {
	if s.opts.Bare {
		s.writeJSON(w, http.StatusOK, payload)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"result": payload})
}

// writeError mirrors Moonraker's error body.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]any{
		"error": map[string]any{"code": status, "message": message},
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}
