package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/classpad/classpad-lms/internal/auth/middleware"
	"github.com/classpad/classpad-lms/internal/roster"
)

// POST /classes/{classID}/assignments  { "title": "...", "description": "...", "points": 100 }
func CreateAssignmentHandler(store *roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classID := chi.URLParam(r, "classID")
		sub := authmw.SubjectFromContext(r.Context())
		if !isClassTeacher(r.Context(), store, classID, sub) {
			http.Error(w, "not the owner of this class", http.StatusForbidden)
			return
		}
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Points      int    `json:"points"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Title) == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		a, err := store.CreateAssignment(r.Context(), classID,
			strings.TrimSpace(req.Title), strings.TrimSpace(req.Description), req.Points)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

// GET /classes/{classID}/assignments: for the owning teacher or a member.
func ListAssignmentsHandler(store *roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classID := chi.URLParam(r, "classID")
		sub := authmw.SubjectFromContext(r.Context())
		if !isClassTeacher(r.Context(), store, classID, sub) && !isClassMember(r.Context(), store, classID, sub) {
			http.Error(w, "not a member of this class", http.StatusForbidden)
			return
		}
		out, err := store.ListAssignments(r.Context(), classID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}
