package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/classpad/classpad-lms/internal/auth/middleware"
	"github.com/classpad/classpad-lms/internal/rbac"
	"github.com/classpad/classpad-lms/internal/roster"
)

// POST /classes  { "name": "..." }
func CreateClassHandler(store *roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		c, err := store.CreateClass(r.Context(), strings.TrimSpace(req.Name), sub)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// GET /classes: classes the caller owns (teacher) or joined (student).
func ListClassesHandler(store *roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		role := rbac.RoleFromContext(r.Context())
		var (
			out []roster.Class
			err error
		)
		if role == "teacher" || role == "admin" {
			out, err = store.ListForTeacher(r.Context(), sub)
		} else {
			out, err = store.ListForStudent(r.Context(), sub)
		}
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// POST /classes/join  { "code": "..." }
func JoinClassHandler(store *roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := authmw.SubjectFromContext(r.Context())
		var req struct {
			Code string `json:"code"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Code) == "" {
			http.Error(w, "code required", http.StatusBadRequest)
			return
		}
		c, err := store.JoinByCode(r.Context(), req.Code, sub)
		switch {
		case errors.Is(err, roster.ErrInvalidCode):
			http.Error(w, "invalid class code", http.StatusNotFound)
			return
		case errors.Is(err, roster.ErrAlreadyMember):
			http.Error(w, "already a member of this class", http.StatusConflict)
			return
		case err != nil:
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// GET /classes/{classID}: class detail with assignments and materials,
// for the owning teacher or an enrolled student.
func GetClassHandler(store *roster.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classID := chi.URLParam(r, "classID")
		sub := authmw.SubjectFromContext(r.Context())
		c, err := store.GetClass(r.Context(), classID)
		if errors.Is(err, roster.ErrNotFound) {
			http.Error(w, "class not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if !isClassTeacher(r.Context(), store, classID, sub) && !isClassMember(r.Context(), store, classID, sub) {
			http.Error(w, "not a member of this class", http.StatusForbidden)
			return
		}
		assignments, err := store.ListAssignments(r.Context(), classID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		files, err := store.ListFiles(r.Context(), classID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"class":       c,
			"assignments": assignments,
			"files":       files,
		})
	}
}
