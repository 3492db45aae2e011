package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/classpad/classpad-lms/internal/auth/middleware"
	"github.com/classpad/classpad-lms/internal/quiz"
)

// POST /classes/{classID}/quiz  { "topic": "..." }
//
// Responses use the {"response": ...} / {"error": ...} envelope. The backend
// text is passed through untouched.
func GenerateQuizHandler(svc *quiz.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		classID := chi.URLParam(r, "classID")
		var req struct {
			Topic string `json:"topic"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
			return
		}
		userID := authmw.SubjectFromContext(r.Context())
		out, err := svc.Generate(r.Context(), classID, userID, req.Topic)
		if err != nil {
			writeJSON(w, quizStatus(err), map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"response": out})
	}
}

func quizStatus(err error) int {
	switch {
	case errors.Is(err, quiz.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, quiz.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, quiz.ErrEmptyTopic), errors.Is(err, quiz.ErrNoMaterials):
		return http.StatusBadRequest
	case errors.Is(err, quiz.ErrGenerationFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
