package assignment

import (
	"context"
	"fmt"
	"sort"

	"github.com/edu-bridge/edubridge-lms/internal/store"
)

// Repo reads and writes domain records through the document store. Lookups
// by id go through QueryByField so both store backends behave identically.
type Repo struct {
	DB store.Store
}

func NewRepo(db store.Store) *Repo { return &Repo{DB: db} }

func (r *Repo) one(ctx context.Context, collection, id string) ([]byte, error) {
	raws, err := r.DB.QueryByField(ctx, collection, "id", id)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("%s %q: %w", collection, id, store.ErrNotFound)
	}
	return raws[0], nil
}

func (r *Repo) Assignment(ctx context.Context, id string) (Assignment, error) {
	raw, err := r.one(ctx, store.ColAssignments, id)
	if err != nil {
		return Assignment{}, err
	}
	var a Assignment
	if err := store.Decode(raw, &a); err != nil {
		return Assignment{}, err
	}
	return a, nil
}

// AssignmentsForTextbook returns a textbook's assignments in authored order.
func (r *Repo) AssignmentsForTextbook(ctx context.Context, textbookID string) ([]Assignment, error) {
	raws, err := r.DB.QueryByField(ctx, store.ColAssignments, "textbookId", textbookID)
	if err != nil {
		return nil, err
	}
	as, err := store.DecodeAll[Assignment](raws)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(as, func(i, j int) bool { return as[i].Order < as[j].Order })
	return as, nil
}

func (r *Repo) Textbook(ctx context.Context, id string) (Textbook, error) {
	raw, err := r.one(ctx, store.ColTextbooks, id)
	if err != nil {
		return Textbook{}, err
	}
	var t Textbook
	if err := store.Decode(raw, &t); err != nil {
		return Textbook{}, err
	}
	return t, nil
}

func (r *Repo) Textbooks(ctx context.Context) ([]Textbook, error) {
	raws, err := r.DB.GetAll(ctx, store.ColTextbooks)
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[Textbook](raws)
}

func (r *Repo) Submission(ctx context.Context, id string) (Submission, error) {
	raw, err := r.one(ctx, store.ColSubmissions, id)
	if err != nil {
		return Submission{}, err
	}
	var s Submission
	if err := store.Decode(raw, &s); err != nil {
		return Submission{}, err
	}
	return s, nil
}

// SubmissionsForStudent returns every submission the student has made.
func (r *Repo) SubmissionsForStudent(ctx context.Context, studentID string) ([]Submission, error) {
	raws, err := r.DB.QueryByField(ctx, store.ColSubmissions, "studentId", studentID)
	if err != nil {
		return nil, err
	}
	return store.DecodeAll[Submission](raws)
}

// LatestSubmission returns the most recent submission for the (assignment,
// student) pair, or nil when there is none. Duplicate rows are allowed in
// the store; the newest submittedAt is authoritative for "has completed"
// state. submittedAt is date-only, so same-day retakes tie; both store
// backends iterate in creation order and >= keeps the later row, so the
// newest same-day submission wins.
func (r *Repo) LatestSubmission(ctx context.Context, assignmentID, studentID string) (*Submission, error) {
	subs, err := r.SubmissionsForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	var latest *Submission
	for i := range subs {
		if subs[i].AssignmentID != assignmentID {
			continue
		}
		if latest == nil || subs[i].SubmittedAt >= latest.SubmittedAt {
			latest = &subs[i]
		}
	}
	return latest, nil
}

func (r *Repo) AddSubmission(ctx context.Context, s Submission) (Submission, error) {
	id, err := r.DB.Add(ctx, store.ColSubmissions, s)
	if err != nil {
		return Submission{}, err
	}
	s.ID = id
	return s, nil
}

// ReviewSubmission attaches teacher feedback, corrections and an optional
// grade override to an existing submission record. An empty grade leaves
// the stored grade alone, so feedback-only reviews cannot wipe the
// auto-computed one.
func (r *Repo) ReviewSubmission(ctx context.Context, id, feedback string, corrected []string, grade string) error {
	if corrected == nil {
		corrected = []string{}
	}
	partial := map[string]any{
		"feedback":         feedback,
		"correctedAnswers": corrected,
	}
	if grade != "" {
		partial["grade"] = grade
	}
	return r.DB.Update(ctx, store.ColSubmissions, id, partial)
}

// UserByUsername returns the account with the given login name, or
// store.ErrNotFound.
func (r *Repo) UserByUsername(ctx context.Context, username string) (User, error) {
	raws, err := r.DB.QueryByField(ctx, store.ColUsers, "username", username)
	if err != nil {
		return User{}, err
	}
	if len(raws) == 0 {
		return User{}, store.ErrNotFound
	}
	var u User
	if err := store.Decode(raws[0], &u); err != nil {
		return User{}, err
	}
	return u, nil
}
