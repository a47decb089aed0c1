package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/edu-bridge/edubridge-lms/internal/ai"
	"github.com/edu-bridge/edubridge-lms/internal/assignment"
	auth "github.com/edu-bridge/edubridge-lms/internal/auth/middleware"
	"github.com/edu-bridge/edubridge-lms/internal/rbac"
	"github.com/edu-bridge/edubridge-lms/internal/store"
)

// GET /submissions?student=  — teachers see all (optionally filtered by
// student name), students only their own.
func ListSubmissionsHandler(repo *assignment.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var subs []assignment.Submission
		var err error
		if rbac.IsTeacher(rbac.RoleFromContext(ctx)) {
			var raws []json.RawMessage
			raws, err = repo.DB.GetAll(ctx, store.ColSubmissions)
			if err == nil {
				subs, err = store.DecodeAll[assignment.Submission](raws)
			}
			if q := strings.ToLower(r.URL.Query().Get("student")); err == nil && q != "" {
				filtered := subs[:0]
				for _, s := range subs {
					if strings.Contains(strings.ToLower(s.StudentName), q) {
						filtered = append(filtered, s)
					}
				}
				subs = filtered
			}
		} else {
			subs, err = repo.SubmissionsForStudent(ctx, auth.SubjectFromContext(ctx))
		}
		if err != nil {
			http.Error(w, "load submissions: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if subs == nil {
			subs = []assignment.Submission{}
		}
		_ = json.NewEncoder(w).Encode(subs)
	}
}

// PUT /submissions/{submissionID}/review
// Teacher attaches feedback, corrected answers and an optional grade
// override to an existing submission. This updates the record in place; it
// never creates a second row.
func ReviewSubmissionHandler(repo *assignment.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Feedback         string   `json:"feedback"`
			CorrectedAnswers []string `json:"correctedAnswers"`
			Grade            string   `json:"grade"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		id := chi.URLParam(r, "submissionID")
		if err := repo.ReviewSubmission(r.Context(), id, req.Feedback, req.CorrectedAnswers, req.Grade); err != nil {
			http.Error(w, "save review: "+err.Error(), statusForStoreErr(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /submissions/{submissionID}/feedback/ai
// Drafts feedback text for the submission with the AI collaborator. The
// draft is returned to the teacher for editing, not saved.
func AIFeedbackHandler(repo *assignment.Repo, svc ai.TextService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sub, err := repo.Submission(ctx, chi.URLParam(r, "submissionID"))
		if err != nil {
			http.Error(w, "load submission: "+err.Error(), statusForStoreErr(err))
			return
		}
		title, typ := "Unknown Assignment", string(assignment.TypeVocabulary)
		if a, err := repo.Assignment(ctx, sub.AssignmentID); err == nil {
			title, typ = a.Title, string(a.Type)
		}
		text, err := svc.SubmissionFeedback(ctx, title, sub.Content, typ)
		if err != nil {
			http.Error(w, "ai feedback: "+err.Error(), http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"feedback": text})
	}
}
