package http

import (
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	authmw "github.com/classpad/classpad-lms/internal/auth/middleware"
	"github.com/classpad/classpad-lms/internal/quiz"
	"github.com/classpad/classpad-lms/internal/roster"
	"github.com/classpad/classpad-lms/internal/storage"
)

// POST /classes/{classID}/files: multipart upload of a course material by
// the owning teacher. The blob key is generated; the original filename is
// recorded for display only.
func UploadMaterialHandler(store *roster.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classID := chi.URLParam(r, "classID")
		sub := authmw.SubjectFromContext(r.Context())
		if !isClassTeacher(r.Context(), store, classID, sub) {
			http.Error(w, "not the owner of this class", http.StatusForbidden)
			return
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()
		if !allowedFile(hdr.Filename) {
			http.Error(w, "file type not allowed", http.StatusBadRequest)
			return
		}
		key := storage.NewKey(quiz.MaterialPrefix+classID, hdr.Filename)
		if _, err := bs.Put(key, f); err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		sf := roster.StoredFile{
			Key:         key,
			ClassID:     classID,
			DisplayName: path.Base(hdr.Filename),
			UploadedBy:  sub,
			UploadedAt:  time.Now().Unix(),
		}
		if err := store.AddFile(r.Context(), sf); err != nil {
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, sf)
	}
}

// GET /classes/{classID}/files/{name}: download a stored material. The key
// is rebuilt from the class namespace, so a caller can only reach blobs of
// the class it is authorized for.
func DownloadMaterialHandler(store *roster.Store, bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classID := chi.URLParam(r, "classID")
		name := chi.URLParam(r, "name")
		sub := authmw.SubjectFromContext(r.Context())
		if !isClassTeacher(r.Context(), store, classID, sub) && !isClassMember(r.Context(), store, classID, sub) {
			http.Error(w, "not a member of this class", http.StatusForbidden)
			return
		}
		if name == "" || strings.ContainsAny(name, "/\\") || name == ".." {
			http.Error(w, "bad file name", http.StatusBadRequest)
			return
		}
		rc, err := bs.Get(quiz.MaterialPrefix + classID + "/" + name)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = io.Copy(w, rc)
	}
}
