// File: api/server.go
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vote-ledger/encryption"
	"vote-ledger/models"
	"vote-ledger/service"
)

type Server struct {
	ledger *service.Ledger
	queue  *service.QueueProcessor
	signer *encryption.CryptoService
}

type CastVoteResponse struct {
	Success bool            `json:"success"`
	Receipt *models.Receipt `json:"receipt"`
}

type BlockchainResponse struct {
	BlockCount int                 `json:"block_count"`
	Difficulty uint8               `json:"difficulty"`
	Blocks     []models.ChainBlock `json:"blocks"`
	IsValid    bool                `json:"is_valid"`
	LastHash   string              `json:"last_hash"`
}

type MerkleResponse struct {
	Root   string `json:"root"`
	Leaves int    `json:"leaves"`
	Tree   string `json:"tree"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func NewServer(ledger *service.Ledger, queue *service.QueueProcessor, signer *encryption.CryptoService) *Server {
	return &Server{
		ledger: ledger,
		queue:  queue,
		signer: signer,
	}
}

// Handler returns the routes of the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/vote", s.handleCastVote)
	mux.HandleFunc("/api/verify", s.handleVerifyVote)
	mux.HandleFunc("/api/results", s.handleGetResults)
	mux.HandleFunc("/api/status", s.handleGetStatus)

	// Chain
	mux.HandleFunc("/api/blockchain", s.handleGetBlockchain)
	mux.HandleFunc("/api/merkle", s.handleGetMerkle)
	mux.HandleFunc("/api/proof", s.handleGetProof)
	mux.HandleFunc("/api/validate", s.handleValidate)
	mux.HandleFunc("/api/checkpoint", s.handleCheckpoint)

	// Metrics
	mux.HandleFunc("/api/metrics/summary", s.handleMetricsSummary)
	mux.Handle("/metrics", promhttp.HandlerFor(s.ledger.Metrics().Registry(), promhttp.HandlerOpts{}))

	return withCORS(mux)
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Message: message})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrDuplicateVoter):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrMiningTimeout),
		errors.Is(err, service.ErrQueueFull),
		errors.Is(err, service.ErrQueueClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var ballot models.Ballot
	if err := json.NewDecoder(r.Body).Decode(&ballot); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if ballot.VoterID == "" {
		writeError(w, http.StatusBadRequest, "voter_id is required")
		return
	}

	receipt, err := s.queue.Submit(r.Context(), ballot)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, CastVoteResponse{Success: true, Receipt: receipt})
}

func (s *Server) handleVerifyVote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	voterID := r.URL.Query().Get("voter_id")
	if voterID == "" {
		writeError(w, http.StatusBadRequest, "Missing voter_id")
		return
	}

	report, err := s.ledger.Verify(voterID)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, s.ledger.Tally())
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, s.ledger.Status())
}

func (s *Server) handleGetBlockchain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	blocks := s.ledger.Blocks()
	response := BlockchainResponse{
		BlockCount: len(blocks),
		Difficulty: s.ledger.Difficulty(),
		Blocks:     blocks,
		IsValid:    s.ledger.Audit().Valid,
		LastHash:   s.ledger.Status().LastBlockDigest,
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleGetMerkle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	status := s.ledger.Status()
	writeJSON(w, http.StatusOK, MerkleResponse{
		Root:   status.MerkleRoot,
		Leaves: status.TotalVotes,
		Tree:   s.ledger.MerkleTree(),
	})
}

func (s *Server) handleGetProof(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	voterID := r.URL.Query().Get("voter_id")
	if voterID == "" {
		writeError(w, http.StatusBadRequest, "Missing voter_id")
		return
	}

	proof, err := s.ledger.InclusionProof(voterID)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, proof)
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, s.ledger.Audit())
}

func (s *Server) handleCheckpoint(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	cp, err := s.ledger.Checkpoint(s.signer)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, cp)
}

func (s *Server) handleMetricsSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, s.ledger.Metrics().GetMetrics())
}
