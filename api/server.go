// Package api - Thin HTTP layer over a loaded price book
// The API decodes requests, serializes access to the book and encodes
// responses. Lookup logic lives in core/pricebook.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"operator-pricing/core/pricebook"
)

// Server is the API server
type Server struct {
	mu       sync.Mutex
	book     *pricebook.PriceBook
	mux      *http.ServeMux
	validate *validator.Validate
	logger   *zap.Logger
	version  string
}

// NewServer creates a server answering lookups against book.
// The server takes ownership of book.
func NewServer(version string, book *pricebook.PriceBook, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		book:     book,
		mux:      http.NewServeMux(),
		validate: validator.New(),
		logger:   logger,
		version:  version,
	}

	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /cheapest", s.handleCheapest)
	s.mux.HandleFunc("GET /operators", s.handleOperators)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)
}

// handleCheapest handles POST /cheapest
func (s *Server) handleCheapest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()

	var req CheapestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, ErrorResponse{Code: "INVALID_JSON", Message: err.Error(), RequestID: requestID}, http.StatusBadRequest)
		return
	}

	if err := s.validate.Struct(&req); err != nil {
		resp := ErrorResponse{Code: "VALIDATION_ERROR", Message: "invalid request", RequestID: requestID}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				resp.Fields = append(resp.Fields, FieldError{Field: fe.Field(), Message: "failed on " + fe.Tag()})
			}
		}
		s.writeError(w, resp, http.StatusBadRequest)
		return
	}

	// SetDialNumber and the query must not interleave with another request.
	s.mu.Lock()
	result := s.book.Lookup(req.Number)
	s.mu.Unlock()

	resp := CheapestResponse{
		RequestID:  requestID,
		Number:     result.Number,
		Operators:  result.Cheapest,
		Price:      result.Price,
		Quotes:     result.Quotes,
		DurationMs: time.Since(start).Milliseconds(),
	}

	s.logger.Debug("lookup",
		zap.String("request_id", requestID),
		zap.String("number", result.Number),
		zap.Int("matches", len(result.Quotes)),
		zap.Int("cheapest", len(result.Cheapest)))

	s.writeJSON(w, resp, http.StatusOK)
}

// handleOperators handles GET /operators
func (s *Server) handleOperators(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	ids := s.book.Operators()
	infos := make([]OperatorInfo, 0, len(ids))
	for _, id := range ids {
		table, _ := s.book.Table(id)
		infos = append(infos, OperatorInfo{ID: id, Prefixes: len(table)})
	}
	s.mu.Unlock()

	s.writeJSON(w, OperatorsResponse{Operators: infos}, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	n := s.book.Len()
	s.mu.Unlock()

	s.writeJSON(w, map[string]interface{}{
		"status":    "ok",
		"operators": n,
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"version": s.version}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, resp ErrorResponse, status int) {
	s.logger.Info("request rejected",
		zap.String("request_id", resp.RequestID),
		zap.String("code", resp.Code),
		zap.Int("status", status))
	s.writeJSON(w, resp, status)
}
