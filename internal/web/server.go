package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/conorfennell/apkgen/internal/anki"
	"github.com/conorfennell/apkgen/internal/domain"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	encoder  *anki.Encoder
	router   *http.ServeMux
	validate *validator.Validate
}

// NewServer creates and configures a new server around the given encoder.
func NewServer(encoder *anki.Encoder) *Server {
	s := &Server{
		encoder:  encoder,
		router:   http.NewServeMux(),
		validate: validator.New(),
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	s.router.HandleFunc("/decks", s.handleCreateDeck())
	s.router.HandleFunc("/health", s.handleHealth())
}

type pairRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

type deckRequest struct {
	Title string        `json:"title" validate:"required"`
	Pairs []pairRequest `json:"pairs" validate:"min=1,dive"`
}

// handleCreateDeck encodes the posted pairs into a package and returns it as
// a file download.
func (s *Server) handleCreateDeck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req deckRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON body", http.StatusBadRequest)
			return
		}
		if err := s.validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		pairs := make([]domain.Pair, len(req.Pairs))
		for i, p := range req.Pairs {
			pairs[i] = domain.Pair{Question: p.Question, Answer: p.Answer}
		}

		pkg, err := s.encoder.Encode(req.Title, pairs)
		if err != nil {
			if errors.Is(err, anki.ErrValidation) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			slog.Error("Failed to encode deck", "title", req.Title, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", anki.Filename(req.Title)))
		if _, err := w.Write(pkg); err != nil {
			slog.Error("Failed to write package response", "title", req.Title, "error", err)
		}
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
