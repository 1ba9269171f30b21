// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pdiddy/knowmap/internal/accounts"
	"github.com/pdiddy/knowmap/pkg/types"
)

// sourceAliases maps provider names accepted in /api/search/{source} to
// registry keys.
var sourceAliases = map[string]string{
	"wikipedia": "encyclopedia",
	"arxiv":     "papers",
	"newsapi":   "news",
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func failure(msg string) errorBody {
	return errorBody{Message: msg}
}

type sourcesBody struct {
	Success bool `json:"success"`
	Data    struct {
		Sources []string `json:"sources"`
		Message string   `json:"message"`
	} `json:"data"`
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	var body sourcesBody
	body.Success = true
	body.Data.Sources = s.orch.SupportedSources()
	body.Data.Message = "Available data sources"
	writeJSON(w, http.StatusOK, body)
}

type searchRequest struct {
	Source  string              `json:"source"`
	Query   string              `json:"query"`
	Options types.SearchOptions `json:"options"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Source == "" {
		writeJSON(w, http.StatusBadRequest, failure("Source parameter is required"))
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, failure("Query parameter is required"))
		return
	}
	writeJSON(w, http.StatusOK, s.orch.Search(r.Context(), req.Source, req.Query, req.Options))
}

type multiRequest struct {
	Sources json.RawMessage     `json:"sources"`
	Query   string              `json:"query"`
	Options types.SearchOptions `json:"options"`
}

func (s *Server) handleSearchMultiple(w http.ResponseWriter, r *http.Request) {
	var req multiRequest
	if !s.decode(w, r, &req) {
		return
	}

	var sources []string
	raw := strings.TrimSpace(string(req.Sources))
	if !strings.HasPrefix(raw, "[") || json.Unmarshal(req.Sources, &sources) != nil {
		writeJSON(w, http.StatusBadRequest, failure("Sources parameter must be an array"))
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, failure("Query parameter is required"))
		return
	}
	writeJSON(w, http.StatusOK, s.orch.SearchMultiple(r.Context(), sources, req.Query, req.Options))
}

func (s *Server) handleSearchSource(w http.ResponseWriter, r *http.Request) {
	source := strings.ToLower(chi.URLParam(r, "source"))
	if key, ok := sourceAliases[source]; ok {
		source = key
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, failure("Query parameter (q) is required"))
		return
	}
	opts := types.SearchOptions{PageSize: intParam(r, "pageSize")}
	writeJSON(w, http.StatusOK, s.orch.Search(r.Context(), source, query, opts))
}

func (s *Server) handleHeadlines(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	writeJSON(w, http.StatusOK, s.orch.Headlines(r.Context(), category, intParam(r, "pageSize")))
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type accountError struct {
	Error string `json:"error"`
}

type accountBody struct {
	Status string         `json:"status"`
	User   *accounts.User `json:"user,omitempty"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	c, ok := s.credentials(w, r)
	if !ok {
		return
	}

	u, err := s.accounts.Register(r.Context(), c.Username, c.Password)
	switch {
	case err == nil:
		s.logger.Info("account registered", "user_id", u.ID)
		writeJSON(w, http.StatusCreated, accountBody{Status: "success", User: &u})
	case isClientError(err):
		writeJSON(w, http.StatusBadRequest, accountError{Error: err.Error()})
	default:
		s.logger.Error("registration failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, accountError{Error: "Database error"})
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	c, ok := s.credentials(w, r)
	if !ok {
		return
	}

	u, err := s.accounts.Authenticate(r.Context(), c.Username, c.Password)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, accountBody{Status: "success", User: &u})
	case errors.Is(err, accounts.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, accountBody{Status: "failure"})
	case isClientError(err):
		writeJSON(w, http.StatusBadRequest, accountError{Error: err.Error()})
	default:
		s.logger.Error("login failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, accountError{Error: "Database error"})
	}
}

func isClientError(err error) bool {
	return errors.Is(err, accounts.ErrMissingCredentials) ||
		errors.Is(err, accounts.ErrInvalidEmail) ||
		errors.Is(err, accounts.ErrPasswordSpaces) ||
		errors.Is(err, accounts.ErrUserExists)
}

// credentials reads a username and password from a JSON or form body.
func (s *Server) credentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var c credentials
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/x-www-form-urlencoded" {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseForm(); err != nil {
			writeJSON(w, http.StatusBadRequest, accountError{Error: "invalid form body"})
			return c, false
		}
		c.Username = r.PostForm.Get("username")
		c.Password = r.PostForm.Get("password")
	} else if !s.decode(w, r, &c) {
		return c, false
	}

	if c.Username == "" || c.Password == "" {
		writeJSON(w, http.StatusBadRequest, accountError{Error: accounts.ErrMissingCredentials.Error()})
		return c, false
	}
	return c, true
}

// decode reads a JSON body into v, answering 400 when it is malformed.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		msg := "invalid JSON: " + err.Error()
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			msg = "request body too large (max 1MB)"
		}
		writeJSON(w, http.StatusBadRequest, failure(msg))
		return false
	}
	return true
}

// intParam parses a positive integer query parameter; anything else is 0.
func intParam(r *http.Request, name string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
