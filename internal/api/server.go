// Package api exposes the token workflows over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"spl-token-creator/internal/domain"
	"spl-token-creator/internal/observability"
	"spl-token-creator/internal/orchestrator"
	"spl-token-creator/internal/reporting"
	"spl-token-creator/internal/revoke"
	"spl-token-creator/internal/solana"
	"spl-token-creator/internal/status"
	"spl-token-creator/internal/storage"
	"spl-token-creator/internal/verification"
)

// maxUploadBytes bounds the multipart form of a creation request.
const maxUploadBytes = 10 << 20

// eventWindow is the default lookback of /api/events.
const eventWindow = 24 * time.Hour

// Server serves the HTTP API.
type Server struct {
	collector *orchestrator.Collector
	revoker   *revoke.Service
	reporter  *status.Reporter
	reports   *reporting.Generator
	verifier  verification.Verifier
	fees      domain.FeePolicy
	wallet    solana.Wallet
	logger    *zap.Logger

	// baseCtx outlives requests so a started workflow is not cut off when the
	// client disconnects.
	baseCtx  context.Context
	busy     atomic.Bool
	upgrader websocket.Upgrader
}

// Options for creating Server.
type Options struct {
	Collector *orchestrator.Collector
	Revoker   *revoke.Service
	Reporter  *status.Reporter
	Reports   *reporting.Generator
	Verifier  verification.Verifier
	Fees      domain.FeePolicy
	Wallet    solana.Wallet
	Logger    *zap.Logger
	// BaseContext carries process shutdown into background workflows.
	BaseContext context.Context
}

// NewServer creates a new Server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	baseCtx := opts.BaseContext
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Server{
		collector: opts.Collector,
		revoker:   opts.Revoker,
		reporter:  opts.Reporter,
		reports:   opts.Reports,
		verifier:  opts.Verifier,
		fees:      opts.Fees,
		wallet:    opts.Wallet,
		logger:    logger.Named("api"),
		baseCtx:   baseCtx,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", observability.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/status/ws", s.handleStatusStream)
		r.Get("/fees", s.handleFees)

		r.Post("/tokens", s.handleCreate)
		r.Get("/tokens", s.handleListTokens)
		r.Post("/tokens/{mint}/revoke-mint", s.handleRevoke)
		r.Get("/tokens/{mint}/run", s.handleGetMintRun)

		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{runID}", s.handleGetRun)
		r.Get("/runs/{runID}/verify", s.handleVerifyRun)
		r.Get("/events", s.handleListEvents)
	})

	return r
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	resp := ErrorResponse{Error: err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	writeJSON(w, code, resp)
}

// errorCode maps workflow errors to HTTP status codes.
func errorCode(err error) int {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, revoke.ErrNoSelection), errors.Is(err, solana.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, orchestrator.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, solana.ErrWalletNotConnected):
		return http.StatusServiceUnavailable
	case solana.IsRejected(err):
		return http.StatusForbidden
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, verification.ErrRunNotFound):
		return http.StatusNotFound
	case errors.Is(err, verification.ErrNoMint):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.reporter.Current())
}

// handleStatusStream pushes every status transition over a websocket until
// the client goes away.
func (s *Server) handleStatusStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, cancel := s.reporter.Subscribe()
	defer cancel()

	// Reader goroutine detects client close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case <-s.baseCtx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(time.Second))
			return
		case st, ok := <-updates:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(st); err != nil {
				s.logger.Debug("websocket write", zap.Error(err))
				return
			}
		}
	}
}

// FeesResponse is the price breakdown of a creation request.
type FeesResponse struct {
	BaseCost         string `json:"baseCost"`
	RevokeFreeze     string `json:"revokeFreeze"`
	RevokeMint       string `json:"revokeMint"`
	NetworkFeeBuffer string `json:"networkFeeBuffer"`
	Total            string `json:"total"`
	RequiredLamports uint64 `json:"requiredLamports"`
}

func (s *Server) handleFees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	revokeFreeze := parseBool(q.Get("revokeFreeze"), true)
	revokeMint := parseBool(q.Get("revokeMint"), false)

	fs := s.fees.Schedule(revokeFreeze, revokeMint)
	writeJSON(w, http.StatusOK, FeesResponse{
		BaseCost:         fs.BaseCost.String(),
		RevokeFreeze:     fs.RevokeFreeze.String(),
		RevokeMint:       fs.RevokeMint.String(),
		NetworkFeeBuffer: fs.NetworkFeeBuffer.String(),
		Total:            fs.Total().String(),
		RequiredLamports: fs.RequiredLamports(),
	})
}

// CreateResponse acknowledges a started workflow.
type CreateResponse struct {
	Status string `json:"status"`
}

// handleCreate validates the form and starts the workflow in the background.
// Progress is reported through /api/status and /api/status/ws.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	req, err := parseCreateForm(r, maxUploadBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := req.Validate(); err != nil {
		s.reporter.Set(domain.StatusError, err.Error())
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !s.busy.CompareAndSwap(false, true) {
		writeError(w, http.StatusConflict, orchestrator.ErrBusy)
		return
	}

	go func() {
		defer s.busy.Store(false)
		run, err := s.collector.Submit(s.baseCtx, req)
		if err != nil {
			s.logger.Warn("token creation failed", zap.Error(err))
			return
		}
		s.logger.Info("token created", zap.String("mint", run.Mint))
	}()

	writeJSON(w, http.StatusAccepted, CreateResponse{Status: "started"})
}

func (s *Server) handleListTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := s.revoker.ListOwnedTokens(r.Context())
	if err != nil {
		writeError(w, errorCode(err), err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (s *Server) handleRevoke(w http.ResponseWriter, r *http.Request) {
	tokens, err := s.revoker.Revoke(r.Context(), chi.URLParam(r, "mint"))
	if err != nil {
		writeError(w, errorCode(err), err)
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	owner := q.Get("owner")
	if owner == "" && s.wallet != nil && s.wallet.Connected() {
		owner = s.wallet.PublicKey().ToBase58()
	}
	limit := parseInt(q.Get("limit"), 50)

	report, err := s.reports.Generate(r.Context(), owner, limit)
	if err != nil {
		writeError(w, errorCode(err), err)
		return
	}

	switch q.Get("format") {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(reporting.RenderCSV(report.Runs)))
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown")
		_, _ = w.Write([]byte(reporting.RenderMarkdown(report)))
	default:
		writeJSON(w, http.StatusOK, report)
	}
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.reports.Receipt(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, errorCode(err), err)
		return
	}
	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown")
		_, _ = w.Write([]byte(reporting.RenderReceiptMarkdown(receipt)))
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// handleGetMintRun returns the receipt of the run that created a mint.
func (s *Server) handleGetMintRun(w http.ResponseWriter, r *http.Request) {
	receipt, err := s.reports.ReceiptForMint(r.Context(), chi.URLParam(r, "mint"))
	if err != nil {
		writeError(w, errorCode(err), err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// handleListEvents returns status transitions within [from, to] (Unix ms).
// The window defaults to the last 24 hours.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	to, err := parseMillis(q.Get("to"), time.Now().UnixMilli())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	from, err := parseMillis(q.Get("from"), to-eventWindow.Milliseconds())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if from > to {
		writeError(w, http.StatusBadRequest, errors.New("from must not be after to"))
		return
	}

	events, err := s.reports.Events(r.Context(), from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// handleVerifyRun compares a run record with the current chain state.
func (s *Server) handleVerifyRun(w http.ResponseWriter, r *http.Request) {
	result, err := s.verifier.VerifyRun(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		writeError(w, errorCode(err), err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
