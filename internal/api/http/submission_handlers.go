package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/classpad/classpad-lms/internal/auth/middleware"
	"github.com/classpad/classpad-lms/internal/roster"
	"github.com/classpad/classpad-lms/internal/storage"
	"github.com/classpad/classpad-lms/internal/submission"
)

// POST /assignments/{assignmentID}/submissions: multipart form with an
// optional "text" field and an optional "file". Resubmitting replaces the
// previous submission and clears its grade.
func SubmitHandler(store *roster.Store, ledger *submission.Ledger, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assignmentID := chi.URLParam(r, "assignmentID")
		sub := authmw.SubjectFromContext(r.Context())
		asg, err := store.GetAssignment(r.Context(), assignmentID)
		if errors.Is(err, roster.ErrNotFound) {
			http.Error(w, "assignment not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if !isClassMember(r.Context(), store, asg.ClassID, sub) {
			http.Error(w, "not a member of this class", http.StatusForbidden)
			return
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		text := strings.TrimSpace(r.FormValue("text"))

		// Attachments live under submissions/, outside the material
		// namespace the corpus builder reads.
		var fileKey *string
		if f, hdr, err := r.FormFile("file"); err == nil {
			defer f.Close()
			if !allowedFile(hdr.Filename) {
				http.Error(w, "file type not allowed", http.StatusBadRequest)
				return
			}
			key := storage.NewKey("submissions/"+assignmentID, hdr.Filename)
			if _, err := bs.Put(key, f); err != nil {
				http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
				return
			}
			fileKey = &key
		}

		out, err := ledger.Submit(r.Context(), assignmentID, sub, text, fileKey)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GET /assignments/{assignmentID}/submissions: owning teacher only.
func ListSubmissionsHandler(store *roster.Store, ledger *submission.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assignmentID := chi.URLParam(r, "assignmentID")
		sub := authmw.SubjectFromContext(r.Context())
		asg, err := store.GetAssignment(r.Context(), assignmentID)
		if errors.Is(err, roster.ErrNotFound) {
			http.Error(w, "assignment not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if !isClassTeacher(r.Context(), store, asg.ClassID, sub) {
			http.Error(w, "not the owner of this class", http.StatusForbidden)
			return
		}
		out, err := ledger.ListForAssignment(r.Context(), assignmentID)
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// PUT /submissions/{assignmentID}/{studentID}/grade  { "grade": 95, "feedback": "..." }
func SetGradeHandler(store *roster.Store, ledger *submission.Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assignmentID := chi.URLParam(r, "assignmentID")
		studentID := chi.URLParam(r, "studentID")
		sub := authmw.SubjectFromContext(r.Context())
		asg, err := store.GetAssignment(r.Context(), assignmentID)
		if errors.Is(err, roster.ErrNotFound) {
			http.Error(w, "assignment not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		if !isClassTeacher(r.Context(), store, asg.ClassID, sub) {
			http.Error(w, "not the owner of this class", http.StatusForbidden)
			return
		}
		var req struct {
			Grade    float64 `json:"grade"`
			Feedback string  `json:"feedback"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		out, err := ledger.SetGrade(r.Context(), assignmentID, studentID, req.Grade, req.Feedback)
		if errors.Is(err, submission.ErrNotFound) {
			http.Error(w, "submission not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}
