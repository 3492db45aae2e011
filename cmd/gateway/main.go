package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/classpad/classpad-lms/internal/api/http"
	auth "github.com/classpad/classpad-lms/internal/auth/middleware"
	"github.com/classpad/classpad-lms/internal/config"
	"github.com/classpad/classpad-lms/internal/db"
	"github.com/classpad/classpad-lms/internal/quiz"
	"github.com/classpad/classpad-lms/internal/rbac"
	"github.com/classpad/classpad-lms/internal/roster"
	"github.com/classpad/classpad-lms/internal/storage"
	"github.com/classpad/classpad-lms/internal/submission"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	rosterStore := roster.NewStore(dbh)
	ledger := submission.NewLedger(dbh)

	gen, err := quiz.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("gemini client: %v", err)
	}
	quizSvc := quiz.NewService(rosterStore, quiz.NewCorpusBuilder(bs), gen)

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/signup", auth.SignupHandler(dbh))
	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Protected API (JWT → subject/role in context → RBAC → per-class gates)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("class:create")).
			Post("/classes", api.CreateClassHandler(rosterStore))
		pr.With(rbac.Require("class:view")).
			Get("/classes", api.ListClassesHandler(rosterStore))
		pr.With(rbac.Require("class:join")).
			Post("/classes/join", api.JoinClassHandler(rosterStore))
		pr.With(rbac.Require("class:view")).
			Get("/classes/{classID}", api.GetClassHandler(rosterStore))

		pr.With(rbac.Require("material:upload")).
			Post("/classes/{classID}/files", api.UploadMaterialHandler(rosterStore, bs))
		pr.With(rbac.Require("material:view")).
			Get("/classes/{classID}/files/{name}", api.DownloadMaterialHandler(rosterStore, bs))

		pr.With(rbac.Require("assignment:create")).
			Post("/classes/{classID}/assignments", api.CreateAssignmentHandler(rosterStore))
		pr.With(rbac.Require("class:view")).
			Get("/classes/{classID}/assignments", api.ListAssignmentsHandler(rosterStore))

		pr.With(rbac.Require("submission:create")).
			Post("/assignments/{assignmentID}/submissions", api.SubmitHandler(rosterStore, ledger, bs))
		pr.With(rbac.Require("submission:view-all")).
			Get("/assignments/{assignmentID}/submissions", api.ListSubmissionsHandler(rosterStore, ledger))
		pr.With(rbac.Require("submission:grade")).
			Put("/submissions/{assignmentID}/{studentID}/grade", api.SetGradeHandler(rosterStore, ledger))

		pr.With(rbac.Require("quiz:generate")).
			Post("/classes/{classID}/quiz", api.GenerateQuizHandler(quizSvc))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
