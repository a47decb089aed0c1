package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edu-bridge/edubridge-lms/internal/assignment"
	auth "github.com/edu-bridge/edubridge-lms/internal/auth/middleware"
)

// attemptView is the student-safe projection of a live attempt: one item at
// a time, with cloze expected answers stripped the same way answer keys are
// never served to students.
type attemptView struct {
	ID           string                     `json:"id"`
	AssignmentID string                     `json:"assignmentId"`
	Title        string                     `json:"title"`
	Type         assignment.AssignmentType  `json:"type"`
	Total        int                        `json:"total"`
	Current      int                        `json:"current"`
	Prompt       string                     `json:"prompt"`
	Segments     []assignment.ClozeSegment  `json:"segments,omitempty"`
	Answer       assignment.AnswerValue     `json:"answer"`
}

func viewOf(at *assignment.Attempt) attemptView {
	v := attemptView{
		ID:           at.ID,
		AssignmentID: at.Assignment.ID,
		Title:        at.Assignment.Title,
		Type:         at.Assignment.Type,
		Total:        len(at.Items),
		Current:      at.Current,
		Answer:       assignment.SingleAnswer(""),
	}
	if at.Current < len(at.Answers) {
		v.Answer = at.Answers[at.Current]
	}
	it := at.CurrentItem()
	switch at.Assignment.Type {
	case assignment.TypeVocabulary:
		if at.Assignment.TestDirection == assignment.DirEnToKo {
			v.Prompt = it.Word.Word
		} else {
			v.Prompt = it.Word.Meaning
		}
	case assignment.TypeTranslation:
		v.Prompt = it.Sentence.Source
	case assignment.TypeCloze:
		v.Prompt = it.Sentence.Source
		segs := assignment.SegmentCloze(it.Sentence.Target)
		for i := range segs {
			if segs[i].Blank {
				segs[i].Text = "" // expected answer never leaves the server
			}
		}
		v.Segments = segs
	}
	return v
}

func attemptErrStatus(err error) int {
	switch {
	case errors.Is(err, assignment.ErrNoActiveAttempt):
		return http.StatusNotFound
	case errors.Is(err, assignment.ErrNotAttemptOwner):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// POST /assignments/{assignmentID}/attempts  { "retake": bool }
// Starts (or retakes) an assignment. If a submission already governs the
// assignment and retake is not set, the stored submission is returned
// instead.
func StartAttemptHandler(svc *assignment.AttemptService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Retake bool `json:"retake"`
		}
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "bad json", http.StatusBadRequest)
				return
			}
		}
		studentID := auth.SubjectFromContext(r.Context())
		at, sub, err := svc.Start(r.Context(), chi.URLParam(r, "assignmentID"), studentID, req.Retake)
		if err != nil {
			http.Error(w, "start attempt: "+err.Error(), statusForStoreErr(err))
			return
		}
		if sub != nil {
			_ = json.NewEncoder(w).Encode(map[string]any{"submission": sub})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"attempt": viewOf(at)})
	}
}

// POST /attempts/{attemptID}/answer — record the current item's input.
// Body is a bare answer value: a string, or an array of strings for cloze.
func SaveAnswerHandler(svc *assignment.AttemptService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var v assignment.AnswerValue
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		at, err := svc.Record(chi.URLParam(r, "attemptID"), auth.SubjectFromContext(r.Context()), v)
		if err != nil {
			http.Error(w, err.Error(), attemptErrStatus(err))
			return
		}
		_ = json.NewEncoder(w).Encode(viewOf(at))
	}
}

type navigateReq struct {
	Answer *assignment.AnswerValue `json:"answer"`
}

// POST /attempts/{attemptID}/next
func NextItemHandler(svc *assignment.AttemptService) http.HandlerFunc {
	return navigateHandler(svc, (*assignment.AttemptService).Advance)
}

// POST /attempts/{attemptID}/prev
func PrevItemHandler(svc *assignment.AttemptService) http.HandlerFunc {
	return navigateHandler(svc, (*assignment.AttemptService).Retreat)
}

func navigateHandler(svc *assignment.AttemptService, move func(*assignment.AttemptService, string, string, *assignment.AnswerValue) (*assignment.Attempt, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req navigateReq
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "bad json", http.StatusBadRequest)
				return
			}
		}
		at, err := move(svc, chi.URLParam(r, "attemptID"), auth.SubjectFromContext(r.Context()), req.Answer)
		if err != nil {
			http.Error(w, err.Error(), attemptErrStatus(err))
			return
		}
		_ = json.NewEncoder(w).Encode(viewOf(at))
	}
}

// POST /attempts/{attemptID}/submit  { "answer": ... }
// Commits the current input, scores the attempt and persists the submission.
func SubmitAttemptHandler(svc *assignment.AttemptService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req navigateReq
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "bad json", http.StatusBadRequest)
				return
			}
		}
		ctx := r.Context()
		sub, err := svc.Submit(ctx, chi.URLParam(r, "attemptID"),
			auth.SubjectFromContext(ctx), auth.NameFromContext(ctx), req.Answer)
		if err != nil {
			http.Error(w, "submit: "+err.Error(), attemptErrStatus(err))
			return
		}
		_ = json.NewEncoder(w).Encode(sub)
	}
}
