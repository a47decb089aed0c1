package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/edu-bridge/edubridge-lms/internal/assignment"
	auth "github.com/edu-bridge/edubridge-lms/internal/auth/middleware"
	"github.com/edu-bridge/edubridge-lms/internal/rbac"
	"github.com/edu-bridge/edubridge-lms/internal/store"
)

// GET /textbooks — teachers see every textbook, students only the ones
// assigned to them.
func ListTextbooksHandler(repo *assignment.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		books, err := repo.Textbooks(r.Context())
		if err != nil {
			http.Error(w, "load textbooks: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if !rbac.IsTeacher(rbac.RoleFromContext(r.Context())) {
			me := auth.SubjectFromContext(r.Context())
			mine := books[:0]
			for _, b := range books {
				for _, id := range b.AssignedTo {
					if id == me {
						mine = append(mine, b)
						break
					}
				}
			}
			books = mine
		}
		if books == nil {
			books = []assignment.Textbook{}
		}
		_ = json.NewEncoder(w).Encode(books)
	}
}

// POST /textbooks
func CreateTextbookHandler(repo *assignment.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Title == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		t := assignment.Textbook{
			Title:       req.Title,
			Description: req.Description,
			AssignedTo:  []string{},
			CreatedAt:   time.Now().Format(time.RFC3339),
		}
		id, err := repo.DB.Add(r.Context(), store.ColTextbooks, t)
		if err != nil {
			http.Error(w, "save textbook: "+err.Error(), http.StatusInternalServerError)
			return
		}
		t.ID = id
		_ = json.NewEncoder(w).Encode(t)
	}
}

// PUT /textbooks/{textbookID}
func UpdateTextbookHandler(repo *assignment.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "textbookID")
		var req struct {
			Title       *string `json:"title"`
			Description *string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		partial := map[string]any{}
		if req.Title != nil {
			if *req.Title == "" {
				http.Error(w, "title required", http.StatusBadRequest)
				return
			}
			partial["title"] = *req.Title
		}
		if req.Description != nil {
			partial["description"] = *req.Description
		}
		if len(partial) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := repo.DB.Update(r.Context(), store.ColTextbooks, id, partial); err != nil {
			http.Error(w, "update textbook: "+err.Error(), statusForStoreErr(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DELETE /textbooks/{textbookID} — cascades to the textbook's assignments.
func DeleteTextbookHandler(repo *assignment.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "textbookID")
		if err := repo.DB.Delete(r.Context(), store.ColTextbooks, id); err != nil {
			http.Error(w, "delete textbook: "+err.Error(), http.StatusInternalServerError)
			return
		}
		as, err := repo.AssignmentsForTextbook(r.Context(), id)
		if err != nil {
			http.Error(w, "cascade assignments: "+err.Error(), http.StatusInternalServerError)
			return
		}
		for _, a := range as {
			if err := repo.DB.Delete(r.Context(), store.ColAssignments, a.ID); err != nil {
				http.Error(w, "cascade assignments: "+err.Error(), http.StatusInternalServerError)
				return
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /textbooks/{textbookID}/assign  { "studentIds": [...] }
// Adds students to the textbook's assignment list (set union).
func AssignTextbookHandler(repo *assignment.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "textbookID")
		var req struct {
			StudentIDs []string `json:"studentIds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		t, err := repo.Textbook(r.Context(), id)
		if err != nil {
			http.Error(w, "load textbook: "+err.Error(), statusForStoreErr(err))
			return
		}
		seen := map[string]bool{}
		merged := []string{}
		for _, s := range append(t.AssignedTo, req.StudentIDs...) {
			if s != "" && !seen[s] {
				seen[s] = true
				merged = append(merged, s)
			}
		}
		if err := repo.DB.Update(r.Context(), store.ColTextbooks, id, map[string]any{"assignedTo": merged}); err != nil {
			http.Error(w, "assign textbook: "+err.Error(), statusForStoreErr(err))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"assignedTo": merged})
	}
}
