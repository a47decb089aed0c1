package assignment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoActiveAttempt = errors.New("no active attempt")
	ErrNotAttemptOwner = errors.New("attempt belongs to another student")
)

// AttemptService drives the assignment-taking state machine. Attempt state
// is held in memory, exclusively owned by the single student session that
// drives it: started on open or retake, dropped once a submission is
// persisted. Submissions go through the document store; a failed write
// leaves the attempt intact so the student can submit again.
type AttemptService struct {
	mu     sync.Mutex
	byID   map[string]*Attempt
	byPair map[string]string // assignmentID|studentID -> attempt id

	repo *Repo
	rng  *rand.Rand
	now  func() time.Time
}

func NewAttemptService(repo *Repo) *AttemptService {
	return &AttemptService{
		byID:   map[string]*Attempt{},
		byPair: map[string]string{},
		repo:   repo,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
}

func pairKey(assignmentID, studentID string) string {
	return assignmentID + "|" + studentID
}

// Start opens an assignment for a student. When a prior submission governs
// the assignment and retake is false, that submission is returned instead
// of a fresh attempt. With retake, the item sequencer re-runs (re-shuffling
// if configured) and the prior submission record stays untouched until the
// next submit adds a new one.
func (s *AttemptService) Start(ctx context.Context, assignmentID, studentID string, retake bool) (*Attempt, *Submission, error) {
	a, err := s.repo.Assignment(ctx, assignmentID)
	if err != nil {
		return nil, nil, err
	}
	if !retake {
		sub, err := s.repo.LatestSubmission(ctx, assignmentID, studentID)
		if err != nil {
			return nil, nil, err
		}
		if sub != nil {
			return nil, sub, nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.byPair[pairKey(assignmentID, studentID)]; ok {
		delete(s.byID, old)
	}
	at := NewAttempt(uuid.NewString(), a, studentID, BuildItems(a, s.rng))
	s.byID[at.ID] = at
	s.byPair[pairKey(assignmentID, studentID)] = at.ID
	return at, nil, nil
}

// Get returns the student's live attempt.
func (s *AttemptService) Get(attemptID, studentID string) (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(attemptID, studentID)
}

func (s *AttemptService) lookup(attemptID, studentID string) (*Attempt, error) {
	at, ok := s.byID[attemptID]
	if !ok {
		return nil, ErrNoActiveAttempt
	}
	if at.StudentID != studentID {
		return nil, ErrNotAttemptOwner
	}
	return at, nil
}

// Record stores the current item's in-progress input.
func (s *AttemptService) Record(attemptID, studentID string, v AnswerValue) (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, err := s.lookup(attemptID, studentID)
	if err != nil {
		return nil, err
	}
	at.Record(v)
	return at, nil
}

// Advance commits the optional current input and moves to the next item.
func (s *AttemptService) Advance(attemptID, studentID string, current *AnswerValue) (*Attempt, error) {
	return s.navigate(attemptID, studentID, current, (*Attempt).Advance)
}

// Retreat commits the optional current input and moves back one item.
func (s *AttemptService) Retreat(attemptID, studentID string, current *AnswerValue) (*Attempt, error) {
	return s.navigate(attemptID, studentID, current, (*Attempt).Retreat)
}

func (s *AttemptService) navigate(attemptID, studentID string, current *AnswerValue, move func(*Attempt)) (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, err := s.lookup(attemptID, studentID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		at.Record(*current)
	}
	move(at)
	return at, nil
}

// Submit commits the optional current input, scores the attempt, persists a
// new submission row and discards the attempt. The grade is computed
// locally; translation assignments get the pending-review sentinel and an
// empty item set scores as the zero sentinel.
func (s *AttemptService) Submit(ctx context.Context, attemptID, studentID, studentName string, current *AnswerValue) (Submission, error) {
	s.mu.Lock()
	at, err := s.lookup(attemptID, studentID)
	if err != nil {
		s.mu.Unlock()
		return Submission{}, err
	}
	if current != nil {
		at.Record(*current)
	}
	content, err := json.Marshal(at.Answers)
	if err != nil {
		s.mu.Unlock()
		return Submission{}, fmt.Errorf("serialize answers: %w", err)
	}
	// scored under the lock: the attempt is still registered, so a late
	// autosave must not race the grading read
	grade := Score(at.Assignment, at.Items, at.Answers)
	s.mu.Unlock()
	sub := Submission{
		AssignmentID: at.Assignment.ID,
		StudentID:    studentID,
		StudentName:  studentName,
		Content:      string(content),
		SubmittedAt:  s.now().Format("2006-01-02"),
		Grade:        grade,
	}
	saved, err := s.repo.AddSubmission(ctx, sub)
	if err != nil {
		return Submission{}, err
	}

	s.mu.Lock()
	delete(s.byID, at.ID)
	if s.byPair[pairKey(at.Assignment.ID, studentID)] == at.ID {
		delete(s.byPair, pairKey(at.Assignment.ID, studentID))
	}
	s.mu.Unlock()
	return saved, nil
}
