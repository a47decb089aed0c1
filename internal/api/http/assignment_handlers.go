package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edu-bridge/edubridge-lms/internal/assignment"
	"github.com/edu-bridge/edubridge-lms/internal/rbac"
	"github.com/edu-bridge/edubridge-lms/internal/store"
)

func statusForStoreErr(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// GET /textbooks/{textbookID}/assignments — sorted by authored order.
// Students get metadata only: the item collections carry expected answers
// (vocabulary meanings, cloze "(answer)" spans), and those never leave the
// server outside the attempt flow, which serves items one at a time with
// the answers stripped.
func ListAssignmentsHandler(repo *assignment.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		as, err := repo.AssignmentsForTextbook(r.Context(), chi.URLParam(r, "textbookID"))
		if err != nil {
			http.Error(w, "load assignments: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if as == nil {
			as = []assignment.Assignment{}
		}
		if !rbac.IsTeacher(rbac.RoleFromContext(r.Context())) {
			for i := range as {
				as[i].Vocabulary = nil
				as[i].Sentences = nil
				as[i].ClozeSentences = nil
			}
		}
		_ = json.NewEncoder(w).Encode(as)
	}
}

// POST /textbooks/{textbookID}/assignments
func CreateAssignmentHandler(repo *assignment.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		textbookID := chi.URLParam(r, "textbookID")
		var a assignment.Assignment
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if a.Title == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		if a.Type != assignment.TypeVocabulary && a.Type != assignment.TypeTranslation && a.Type != assignment.TypeCloze {
			http.Error(w, "unknown assignment type", http.StatusBadRequest)
			return
		}
		if _, err := repo.Textbook(r.Context(), textbookID); err != nil {
			http.Error(w, "load textbook: "+err.Error(), statusForStoreErr(err))
			return
		}
		existing, err := repo.AssignmentsForTextbook(r.Context(), textbookID)
		if err != nil {
			http.Error(w, "load assignments: "+err.Error(), http.StatusInternalServerError)
			return
		}
		a.ID = ""
		a.TextbookID = textbookID
		a.Order = len(existing) + 1
		if a.TestDirection == "" {
			a.TestDirection = assignment.DirEnToKo
		}
		id, err := repo.DB.Add(r.Context(), store.ColAssignments, a)
		if err != nil {
			http.Error(w, "save assignment: "+err.Error(), http.StatusInternalServerError)
			return
		}
		a.ID = id
		_ = json.NewEncoder(w).Encode(a)
	}
}

// PUT /assignments/{assignmentID} — full replace of the editable fields.
func UpdateAssignmentHandler(repo *assignment.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "assignmentID")
		var a assignment.Assignment
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if a.Title == "" {
			http.Error(w, "title required", http.StatusBadRequest)
			return
		}
		partial := map[string]any{
			"title":          a.Title,
			"description":    a.Description,
			"type":           a.Type,
			"testDirection":  a.TestDirection,
			"isShuffled":     a.IsShuffled,
			"vocabulary":     orEmptyWords(a.Vocabulary),
			"sentences":      orEmptyPairs(a.Sentences),
			"clozeSentences": orEmptyPairs(a.ClozeSentences),
		}
		if err := repo.DB.Update(r.Context(), store.ColAssignments, id, partial); err != nil {
			http.Error(w, "update assignment: "+err.Error(), statusForStoreErr(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DELETE /assignments/{assignmentID}
func DeleteAssignmentHandler(repo *assignment.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := repo.DB.Delete(r.Context(), store.ColAssignments, chi.URLParam(r, "assignmentID")); err != nil {
			http.Error(w, "delete assignment: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func orEmptyWords(ws []assignment.WordPair) []assignment.WordPair {
	if ws == nil {
		return []assignment.WordPair{}
	}
	return ws
}

func orEmptyPairs(ps []assignment.TranslationPair) []assignment.TranslationPair {
	if ps == nil {
		return []assignment.TranslationPair{}
	}
	return ps
}
