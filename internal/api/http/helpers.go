package http

import (
	"context"
	"encoding/json"
	"net/http"
	"path"
	"strings"

	"github.com/classpad/classpad-lms/internal/roster"
)

// Upload types accepted for storage. Only pdf and txt are ever extracted
// for the quiz corpus; the rest are kept for download.
var allowedUploadExt = map[string]bool{
	".pdf": true, ".docx": true, ".txt": true,
	".png": true, ".jpg": true, ".jpeg": true,
}

func allowedFile(name string) bool {
	return allowedUploadExt[strings.ToLower(path.Ext(name))]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// isClassTeacher / isClassMember wrap the roster gates; lookup errors deny.

func isClassTeacher(ctx context.Context, store *roster.Store, classID, userID string) bool {
	ok, err := store.IsTeacherOwner(ctx, classID, userID)
	return err == nil && ok
}

func isClassMember(ctx context.Context, store *roster.Store, classID, userID string) bool {
	ok, err := store.IsMember(ctx, classID, userID)
	return err == nil && ok
}
