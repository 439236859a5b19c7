package fakeapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jrsteele09/neuroguard/apimodel"
	apierrors "github.com/jrsteele09/neuroguard/internal/errors"
	"github.com/rs/zerolog/log"
)

const minPasswordLength = 8

// ValidationIssue is one entry of a 422 detail list.
type ValidationIssue struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to encode response")
	}
}

func writeDetail(w http.ResponseWriter, status int, detail any) {
	writeJSON(w, status, map[string]any{"detail": detail})
}

func writeUnauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeDetail(w, http.StatusUnauthorized, detail)
}

func fieldIssue(loc, field, msg string) ValidationIssue {
	return ValidationIssue{Loc: []string{loc, field}, Msg: msg, Type: "value_error"}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req apimodel.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, []ValidationIssue{fieldIssue("body", "", "Invalid JSON body")})
		return
	}

	var issues []ValidationIssue
	if _, err := mail.ParseAddress(req.Email); err != nil {
		issues = append(issues, fieldIssue("body", "email", "value is not a valid email address"))
	}
	if len(req.Password) < minPasswordLength {
		issues = append(issues, fieldIssue("body", "password", fmt.Sprintf("String should have at least %d characters", minPasswordLength)))
	}
	if req.FullName == "" {
		issues = append(issues, fieldIssue("body", "full_name", "Field required"))
	}
	if len(issues) > 0 {
		writeDetail(w, http.StatusUnprocessableEntity, issues)
		return
	}

	user, err := s.accounts.create(req)
	if apierrors.Is(err, apierrors.ErrInvalidRequest) {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		log.Err(err).Msg("Failed to register user")
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, []ValidationIssue{fieldIssue("body", "", "Invalid form body")})
		return
	}
	username, password := r.PostForm.Get("username"), r.PostForm.Get("password")

	var issues []ValidationIssue
	if username == "" {
		issues = append(issues, fieldIssue("body", "username", "Field required"))
	}
	if password == "" {
		issues = append(issues, fieldIssue("body", "password", "Field required"))
	}
	if len(issues) > 0 {
		writeDetail(w, http.StatusUnprocessableEntity, issues)
		return
	}

	user, ok := s.accounts.authenticate(username, password)
	if !ok {
		writeUnauthorized(w, "Incorrect username or password")
		return
	}
	raw, err := s.signer.Issue(user.Email)
	if err != nil {
		log.Err(err).Msg("Failed to issue token")
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, apimodel.AuthResponse{AccessToken: raw, TokenType: "bearer"})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.accounts.user(subject(r))
	if err != nil {
		writeUnauthorized(w, "Could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	var d apimodel.PersonalDefaults
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, []ValidationIssue{fieldIssue("body", "", "Invalid JSON body")})
		return
	}

	var issues []ValidationIssue
	if d.Age != nil && (*d.Age < 0 || *d.Age > 150) {
		issues = append(issues, fieldIssue("body", "age", "Input should be between 0 and 150"))
	}
	if d.HighBloodPressure != nil && *d.HighBloodPressure != 0 && *d.HighBloodPressure != 1 {
		issues = append(issues, fieldIssue("body", "high_blood_pressure", "Input should be 0 or 1"))
	}
	if len(issues) > 0 {
		writeDetail(w, http.StatusUnprocessableEntity, issues)
		return
	}

	if err := s.accounts.setDefaults(subject(r), d); err != nil {
		writeUnauthorized(w, "Could not validate credentials")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "model")
	model, err := apimodel.ParseModelType(name)
	if err != nil {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("Model '%s' not found", name))
		return
	}

	var in apimodel.PredictionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, []ValidationIssue{fieldIssue("body", "", "Invalid JSON body")})
		return
	}
	if in.StrokeRiskPercentage < 0 || in.StrokeRiskPercentage > 100 {
		writeDetail(w, http.StatusUnprocessableEntity, []ValidationIssue{
			fieldIssue("body", "stroke_risk_percentage", "Input should be between 0 and 100"),
		})
		return
	}

	res := score(model, in)
	if _, err := s.accounts.record(subject(r), in, res, s.now().UTC()); err != nil {
		writeUnauthorized(w, "Could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func queryInt(r *http.Request, name string, def int) (int, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	var issues []ValidationIssue
	skip, ok := queryInt(r, "skip", 0)
	if !ok {
		issues = append(issues, fieldIssue("query", "skip", "Input should be a valid integer"))
	}
	limit, ok := queryInt(r, "limit", apimodel.DefaultHistoryLimit)
	if !ok {
		issues = append(issues, fieldIssue("query", "limit", "Input should be a valid integer"))
	}
	if len(issues) > 0 {
		writeDetail(w, http.StatusUnprocessableEntity, issues)
		return
	}

	items, err := s.accounts.list(subject(r), skip, limit)
	if err != nil {
		writeUnauthorized(w, "Could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleHistoryDetail(w http.ResponseWriter, r *http.Request) {
	d, err := s.accounts.detail(subject(r), chi.URLParam(r, "id"))
	if err != nil {
		writeDetail(w, http.StatusNotFound, "Prediction not found")
		return
	}
	writeJSON(w, http.StatusOK, d)
}
