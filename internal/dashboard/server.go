// Package dashboard serves campaign runs over HTTP and pushes completed runs
// to WebSocket subscribers.
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"retail-promo-lab/internal/campaign"
	"retail-promo-lab/internal/config"
	"retail-promo-lab/internal/observability"
	"retail-promo-lab/internal/storage"
)

// ErrRunInProgress is returned when a run is requested while another is active.
var ErrRunInProgress = errors.New("campaign run already in progress")

// maxBodyBytes bounds POST /runs payloads.
const maxBodyBytes = 1 << 20

// CampaignRunner executes one campaign. *campaign.Runner satisfies it.
type CampaignRunner interface {
	Run(ctx context.Context, c *config.Campaign) (*campaign.Result, error)
}

// Options for creating a Server.
type Options struct {
	Runner CampaignRunner

	// Default is used when POST /runs has an empty body. Nil means
	// config defaults.
	Default *config.Campaign

	Hub    *Hub
	Logger zerolog.Logger
}

// Server holds dashboard state. One run executes at a time.
type Server struct {
	runner   CampaignRunner
	defaults *config.Campaign
	hub      *Hub
	logger   zerolog.Logger
	started  time.Time

	mu      sync.Mutex
	running bool
	runs    int
	failed  int
	latest  *campaign.Result
}

// NewServer creates a Server. A nil Hub gets a default one.
func NewServer(opts Options) *Server {
	logger := opts.Logger.With().Str("component", "dashboard").Logger()
	hub := opts.Hub
	if hub == nil {
		hub = NewHub(nil, logger)
	}
	return &Server{
		runner:   opts.Runner,
		defaults: opts.Default,
		hub:      hub,
		logger:   logger,
		started:  time.Now(),
	}
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /health", instrument("/health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})))
	mux.Handle("GET /metrics", observability.Handler())
	mux.Handle("GET /status", instrument("/status", http.HandlerFunc(s.handleStatus)))
	mux.Handle("POST /runs", instrument("/runs", http.HandlerFunc(s.handleCreateRun)))
	mux.Handle("GET /runs/latest", instrument("/runs/latest", http.HandlerFunc(s.handleLatest)))
	mux.Handle("GET /ws", s.hub)

	return mux
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status     string `json:"status"`
	Uptime     string `json:"uptime"`
	Runs       int    `json:"runs"`
	FailedRuns int    `json:"failed_runs"`
	Running    bool   `json:"running"`
	LastRunID  string `json:"last_run_id,omitempty"`
	WSClients  int    `json:"ws_clients"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := StatusResponse{
		Status:     "running",
		Uptime:     time.Since(s.started).Round(time.Second).String(),
		Runs:       s.runs,
		FailedRuns: s.failed,
		Running:    s.running,
	}
	if s.latest != nil && s.latest.Run != nil {
		resp.LastRunID = s.latest.Run.RunID
	}
	s.mu.Unlock()

	resp.WSClients = s.hub.Clients()
	writeJSON(w, http.StatusOK, resp)
}

// RunMessage is pushed to WebSocket subscribers after each completed run.
type RunMessage struct {
	Type   string           `json:"type"`
	RunID  string           `json:"run_id"`
	Result *campaign.Result `json:"result"`
}

// MessageRunCompleted is the RunMessage type for finished runs.
const MessageRunCompleted = "run_completed"

func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	c, err := s.decodeCampaign(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.Execute(r.Context(), c)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, res)
	case errors.Is(err, ErrRunInProgress):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, campaign.ErrNoRegions):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

// decodeCampaign reads a JSON campaign from the body. An empty body yields
// the server default. Unknown keys are rejected.
func (s *Server) decodeCampaign(r *http.Request) (*config.Campaign, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var c config.Campaign
	if len(body) == 0 {
		if s.defaults != nil {
			c = *s.defaults
		}
	} else {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&c); err != nil {
			return nil, fmt.Errorf("%w: decode campaign: %v", config.ErrInvalidConfig, err)
		}
	}
	c.ApplyDefaults()
	return &c, nil
}

// Execute runs c unless a run is already active, stores the result and
// broadcasts it.
func (s *Server) Execute(ctx context.Context, c *config.Campaign) (*campaign.Result, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrRunInProgress
	}
	s.running = true
	s.mu.Unlock()

	res, err := s.runner.Run(ctx, c)

	s.mu.Lock()
	s.running = false
	if err != nil {
		s.failed++
	} else {
		s.runs++
		s.latest = res
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Msg("campaign run failed")
		return nil, err
	}

	s.broadcast(res)
	return res, nil
}

func (s *Server) broadcast(res *campaign.Result) {
	msg := RunMessage{Type: MessageRunCompleted, Result: res}
	if res.Run != nil {
		msg.RunID = res.Run.RunID
	}
	data, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error().Err(err).Msg("encode run message")
		return
	}
	s.hub.Broadcast(data)
	s.logger.Info().Str("run_id", msg.RunID).Int("subscribers", s.hub.Clients()).Msg("run broadcast")
}

// Latest returns the most recent successful run.
func (s *Server) Latest() (*campaign.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return nil, storage.ErrNotFound
	}
	return s.latest, nil
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	res, err := s.Latest()
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, errors.New("no completed runs"))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

// statusRecorder captures the response code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		observability.RecordHTTPRequest(route, strconv.Itoa(rec.code))
	})
}
