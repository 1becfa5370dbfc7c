package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"findash/internal/auth"
	"findash/internal/core"
	"findash/internal/ingest"
	"findash/internal/store"
)

// maxUploadBytes bounds statement uploads; a year of exports fits with room
// to spare.
const maxUploadBytes = 10 << 20

type registerRequest struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	UserID   string `json:"user_id"`
	Password string `json:"password"`
}

// entryView is the listing shape for one history entry: the aggregates
// without the raw rows, which nothing on the dashboard renders.
type entryView struct {
	ID           string    `json:"id"`
	TotalBalance float64   `json:"total_balance"`
	TotalCredit  float64   `json:"total_credit"`
	TotalDebit   float64   `json:"total_debit"`
	RowCount     int       `json:"row_count"`
	CreatedAt    time.Time `json:"created_at"`
}

func newEntryView(e core.HistoryEntry) entryView {
	return entryView{
		ID:           e.ID,
		TotalBalance: e.TotalBalance,
		TotalCredit:  e.TotalCredit,
		TotalDebit:   e.TotalDebit,
		RowCount:     len(e.Rows),
		CreatedAt:    e.CreatedAt,
	}
}

// summaryView backs the profile page: identity plus the latest aggregates.
type summaryView struct {
	UserID       string  `json:"user_id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	TotalBalance float64 `json:"total_balance"`
	TotalCredit  float64 `json:"total_credit"`
	TotalDebit   float64 `json:"total_debit"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := s.auth.Register(r.Context(), req.UserID, req.Name, req.Email, req.Password)
	switch {
	case errors.Is(err, store.ErrUserExists):
		respondError(w, http.StatusConflict, "User ID already exists.")
		return
	case isProfileValidationError(err):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Failed to register user", "error", err, "user_id", req.UserID)
		respondError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	slog.InfoContext(r.Context(), "User registered", "user_id", profile.ID)
	respondJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := s.auth.Verify(r.Context(), req.UserID, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		// Unknown id and wrong password answer identically.
		respondError(w, http.StatusUnauthorized, "Invalid User ID or Password.")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to verify credentials", "error", err, "user_id", req.UserID)
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	slog.InfoContext(r.Context(), "User logged in", "user_id", profile.ID)
	respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart request")
		return
	}

	userID := strings.TrimSpace(r.FormValue("user_id"))
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer func() { _ = file.Close() }()

	if _, err := s.auth.Profile(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "Unknown user")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to load profile", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	ds, err := ingest.Decode(header.Filename, file)
	if errors.Is(err, ingest.ErrUnsupportedFormat) {
		respondError(w, http.StatusUnsupportedMediaType, err.Error())
		return
	}
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, err := s.history.RecordUpload(r.Context(), userID, ds)
	var schemaErr *core.SchemaError
	switch {
	case errors.As(err, &schemaErr):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Failed to record upload",
			"error", err,
			"user_id", userID,
			"filename", header.Filename)
		respondError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	slog.InfoContext(r.Context(), "Upload recorded",
		"user_id", userID,
		"entry_id", entry.ID,
		"filename", header.Filename,
		"rows", len(entry.Rows))
	respondJSON(w, http.StatusCreated, newEntryView(entry))
}

// handleUserResource dispatches /api/users/{id}/{summary|history|recommendation}.
func (s *Server) handleUserResource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/users/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}
	userID := parts[0]

	switch parts[1] {
	case "summary":
		s.handleSummary(w, r, userID)
	case "history":
		s.handleHistory(w, r, userID)
	case "recommendation":
		s.handleRecommendation(w, r, userID)
	default:
		respondError(w, http.StatusNotFound, "Not found")
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, userID string) {
	profile, err := s.auth.Profile(r.Context(), userID)
	if errors.Is(err, store.ErrUserNotFound) {
		respondError(w, http.StatusNotFound, "Unknown user")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to load profile", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, "Failed to load summary")
		return
	}

	view := summaryView{
		UserID: profile.ID,
		Name:   profile.Name,
		Email:  profile.Email,
	}

	latest, err := s.history.Latest(r.Context(), userID)
	switch {
	case errors.Is(err, store.ErrNoHistory):
		// First visit before any upload: the figures stay zero.
	case err != nil:
		slog.ErrorContext(r.Context(), "Failed to load latest entry", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, "Failed to load summary")
		return
	default:
		view.TotalBalance = latest.TotalBalance
		view.TotalCredit = latest.TotalCredit
		view.TotalDebit = latest.TotalDebit
	}

	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, userID string) {
	entries, err := s.history.History(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list history", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, "Failed to load history")
		return
	}

	views := make([]entryView, len(entries))
	for i, e := range entries {
		views[i] = newEntryView(e)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"entries": views,
		"count":   len(views),
	})
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request, userID string) {
	rec, err := s.history.Recommendation(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to evaluate recommendation", "error", err, "user_id", userID)
		respondError(w, http.StatusInternalServerError, "Failed to load recommendation")
		return
	}
	respondJSON(w, http.StatusOK, rec)
}

func isProfileValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyUserID) ||
		errors.Is(err, core.ErrEmptyName) ||
		errors.Is(err, core.ErrEmptyEmail) ||
		errors.Is(err, core.ErrEmptyPassword)
}
