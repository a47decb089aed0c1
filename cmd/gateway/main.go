package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/crypto/bcrypt"

	"github.com/edu-bridge/edubridge-lms/internal/ai"
	api "github.com/edu-bridge/edubridge-lms/internal/api/http"
	"github.com/edu-bridge/edubridge-lms/internal/assignment"
	auth "github.com/edu-bridge/edubridge-lms/internal/auth/middleware"
	"github.com/edu-bridge/edubridge-lms/internal/config"
	"github.com/edu-bridge/edubridge-lms/internal/db"
	"github.com/edu-bridge/edubridge-lms/internal/rbac"
	"github.com/edu-bridge/edubridge-lms/internal/store"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	docs := store.NewSQLStore(dbh)
	repo := assignment.NewRepo(docs)
	attempts := assignment.NewAttemptService(repo)

	if err := seedAdmin(ctx, docs, cfg); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	// --- AI collaborator (optional) ---
	var textSvc ai.TextService = ai.Disabled{}
	if cfg.GeminiAPIKey != "" {
		g, err := ai.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatalf("gemini init: %v", err)
		}
		textSvc = g
	}

	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsLocal
	if cfg.Mode == config.ModeCloud {
		origins = cfg.CORSOriginsCloud
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, repo))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Textbooks
		pr.With(rbac.Require("textbook:view")).
			Get("/textbooks", api.ListTextbooksHandler(repo))
		pr.With(rbac.Require("textbook:create")).
			Post("/textbooks", api.CreateTextbookHandler(repo))
		pr.With(rbac.Require("textbook:update")).
			Put("/textbooks/{textbookID}", api.UpdateTextbookHandler(repo))
		pr.With(rbac.Require("textbook:delete")).
			Delete("/textbooks/{textbookID}", api.DeleteTextbookHandler(repo))
		pr.With(rbac.Require("textbook:assign")).
			Post("/textbooks/{textbookID}/assign", api.AssignTextbookHandler(repo))

		// Assignments
		pr.With(rbac.Require("assignment:view")).
			Get("/textbooks/{textbookID}/assignments", api.ListAssignmentsHandler(repo))
		pr.With(rbac.Require("assignment:create")).
			Post("/textbooks/{textbookID}/assignments", api.CreateAssignmentHandler(repo))
		pr.With(rbac.Require("assignment:update")).
			Put("/assignments/{assignmentID}", api.UpdateAssignmentHandler(repo))
		pr.With(rbac.Require("assignment:delete")).
			Delete("/assignments/{assignmentID}", api.DeleteAssignmentHandler(repo))

		// Student flow
		pr.With(rbac.Require("attempt:create")).
			Post("/assignments/{assignmentID}/attempts", api.StartAttemptHandler(attempts))
		pr.With(rbac.Require("attempt:save")).
			Post("/attempts/{attemptID}/answer", api.SaveAnswerHandler(attempts))
		pr.With(rbac.Require("attempt:save")).
			Post("/attempts/{attemptID}/next", api.NextItemHandler(attempts))
		pr.With(rbac.Require("attempt:save")).
			Post("/attempts/{attemptID}/prev", api.PrevItemHandler(attempts))
		pr.With(rbac.Require("attempt:submit")).
			Post("/attempts/{attemptID}/submit", api.SubmitAttemptHandler(attempts))

		// Submissions / review
		pr.With(rbac.RequireAny("submission:view-own", "submission:view")).
			Get("/submissions", api.ListSubmissionsHandler(repo))
		pr.With(rbac.Require("submission:review")).
			Put("/submissions/{submissionID}/review", api.ReviewSubmissionHandler(repo))
		pr.With(rbac.Require("ai:feedback")).
			Post("/submissions/{submissionID}/feedback/ai", api.AIFeedbackHandler(repo, textSvc))

		// Authoring helpers
		pr.With(rbac.Require("ai:translate")).
			Post("/ai/translate", api.TranslateHandler(textSvc))

		// Users (teacher/admin)
		pr.With(rbac.Require("users:manage")).
			Get("/users", api.ListUsersHandler(repo))
		pr.With(rbac.Require("users:manage")).
			Post("/users", api.CreateUserHandler(repo))
		pr.With(rbac.Require("users:manage")).
			Put("/users/{userID}", api.UpdateUserHandler(repo))
		pr.With(rbac.Require("users:manage")).
			Delete("/users/{userID}", api.DeleteUserHandler(repo))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}

// seedAdmin creates the bootstrap teacher account when the users collection
// is empty, so a fresh install has someone who can log in.
func seedAdmin(ctx context.Context, docs store.Store, cfg config.Config) error {
	users, err := docs.GetAll(ctx, store.ColUsers)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}
	hash := cfg.AdminPassHash
	if hash == "" {
		buf, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		hash = string(buf)
	}
	_, err = docs.Add(ctx, store.ColUsers, assignment.User{
		Username:     cfg.AdminUser,
		Name:         cfg.AdminName,
		Role:         assignment.RoleAdmin,
		PasswordHash: hash,
	})
	if err == nil {
		log.Printf("seeded admin user %q", cfg.AdminUser)
	}
	return err
}
