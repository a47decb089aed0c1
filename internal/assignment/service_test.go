package assignment

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/edu-bridge/edubridge-lms/internal/store"
)

func newTestService(t *testing.T) (*AttemptService, *Repo) {
	t.Helper()
	repo := NewRepo(store.NewInMemoryStore())
	svc := NewAttemptService(repo)
	return svc, repo
}

func seedAssignment(t *testing.T, repo *Repo, a Assignment) string {
	t.Helper()
	id, err := repo.DB.Add(context.Background(), store.ColAssignments, a)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestAttemptLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) }

	id := seedAssignment(t, repo, Assignment{
		Type:          TypeVocabulary,
		TestDirection: DirEnToKo,
		Title:         "1과 단어",
		Vocabulary: []WordPair{
			{Word: "cat", Meaning: "고양이"},
			{Word: "dog", Meaning: "개"},
		},
	})

	at, sub, err := svc.Start(ctx, id, "stu-1", false)
	if err != nil {
		t.Fatal(err)
	}
	if sub != nil {
		t.Fatal("fresh assignment reported an existing submission")
	}
	if len(at.Items) != 2 || at.Current != 0 {
		t.Fatalf("attempt = %d items at %d", len(at.Items), at.Current)
	}

	if _, err := svc.Record(at.ID, "stu-1", SingleAnswer("고양이")); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Advance(at.ID, "stu-1", nil); err != nil {
		t.Fatal(err)
	}
	last := SingleAnswer("멍멍이")
	saved, err := svc.Submit(ctx, at.ID, "stu-1", "이지훈", &last)
	if err != nil {
		t.Fatal(err)
	}
	if saved.Grade != "50점 (1/2)" {
		t.Errorf("grade = %q, want 50점 (1/2)", saved.Grade)
	}
	if saved.SubmittedAt != "2026-03-02" {
		t.Errorf("submittedAt = %q", saved.SubmittedAt)
	}

	// content round-trips the per-item answer values exactly
	var answers []AnswerValue
	if err := json.Unmarshal([]byte(saved.Content), &answers); err != nil {
		t.Fatal(err)
	}
	if len(answers) != 2 || answers[0].Single != "고양이" || answers[1].Single != "멍멍이" {
		t.Errorf("content round-trip = %+v", answers)
	}

	// attempt is discarded once submitted
	if _, err := svc.Get(at.ID, "stu-1"); !errors.Is(err, ErrNoActiveAttempt) {
		t.Errorf("get after submit: %v", err)
	}

	// reopening goes straight to the stored submission
	at2, sub2, err := svc.Start(ctx, id, "stu-1", false)
	if err != nil {
		t.Fatal(err)
	}
	if at2 != nil || sub2 == nil || sub2.ID != saved.ID {
		t.Fatalf("reopen: attempt=%v submission=%v", at2, sub2)
	}
}

func TestRetakeKeepsPriorSubmission(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	day := 1
	svc.now = func() time.Time { return time.Date(2026, 3, day, 0, 0, 0, 0, time.UTC) }

	id := seedAssignment(t, repo, Assignment{
		Type:          TypeVocabulary,
		TestDirection: DirEnToKo,
		Vocabulary:    []WordPair{{Word: "cat", Meaning: "고양이"}},
	})

	at, _, err := svc.Start(ctx, id, "stu-1", false)
	if err != nil {
		t.Fatal(err)
	}
	wrong := SingleAnswer("강아지")
	first, err := svc.Submit(ctx, at.ID, "stu-1", "이지훈", &wrong)
	if err != nil {
		t.Fatal(err)
	}

	day = 2
	at, sub, err := svc.Start(ctx, id, "stu-1", true)
	if err != nil {
		t.Fatal(err)
	}
	if sub != nil || at == nil {
		t.Fatal("retake must produce a fresh attempt")
	}
	right := SingleAnswer("고양이")
	second, err := svc.Submit(ctx, at.ID, "stu-1", "이지훈", &right)
	if err != nil {
		t.Fatal(err)
	}

	subs, err := repo.SubmissionsForStudent(ctx, "stu-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 2 {
		t.Fatalf("got %d submissions, want both rows kept", len(subs))
	}
	latest, err := repo.LatestSubmission(ctx, id, "stu-1")
	if err != nil {
		t.Fatal(err)
	}
	if latest.ID != second.ID {
		t.Errorf("latest = %s (grade %q), want the retake %s", latest.ID, latest.Grade, second.ID)
	}
	if first.Grade == second.Grade {
		t.Errorf("grades should differ: %q vs %q", first.Grade, second.Grade)
	}
}

// A retake submitted the same day ties on the date-only submittedAt; the
// later row must still win.
func TestSameDayRetakeWins(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	id := seedAssignment(t, repo, Assignment{
		Type:          TypeVocabulary,
		TestDirection: DirEnToKo,
		Vocabulary:    []WordPair{{Word: "cat", Meaning: "고양이"}},
	})

	at, _, err := svc.Start(ctx, id, "stu-1", false)
	if err != nil {
		t.Fatal(err)
	}
	wrong := SingleAnswer("강아지")
	if _, err := svc.Submit(ctx, at.ID, "stu-1", "이지훈", &wrong); err != nil {
		t.Fatal(err)
	}

	at, _, err = svc.Start(ctx, id, "stu-1", true)
	if err != nil {
		t.Fatal(err)
	}
	right := SingleAnswer("고양이")
	second, err := svc.Submit(ctx, at.ID, "stu-1", "이지훈", &right)
	if err != nil {
		t.Fatal(err)
	}

	latest, err := repo.LatestSubmission(ctx, id, "stu-1")
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil || latest.ID != second.ID {
		t.Fatalf("latest = %+v, want the same-day retake %s", latest, second.ID)
	}
}

func TestTeacherReviewUpdatesInPlace(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	id := seedAssignment(t, repo, Assignment{
		Type:      TypeTranslation,
		Sentences: []TranslationPair{{Source: "The quick brown fox.", Direction: DirEnToKo}},
	})
	at, _, err := svc.Start(ctx, id, "stu-1", false)
	if err != nil {
		t.Fatal(err)
	}
	ans := SingleAnswer("빠른 갈색 여우.")
	sub, err := svc.Submit(ctx, at.ID, "stu-1", "이지훈", &ans)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Grade != GradePendingReview {
		t.Fatalf("grade = %q, want pending sentinel", sub.Grade)
	}

	err = repo.ReviewSubmission(ctx, sub.ID, "자연스러운 번역입니다.", []string{"빠른 갈색 여우."}, "90점")
	if err != nil {
		t.Fatal(err)
	}
	got, err := repo.Submission(ctx, sub.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Feedback != "자연스러운 번역입니다." || got.Grade != "90점" || len(got.CorrectedAnswers) != 1 {
		t.Errorf("review not applied: %+v", got)
	}
	if got.Content != sub.Content {
		t.Errorf("review must not touch recorded answers")
	}

	subs, _ := repo.SubmissionsForStudent(ctx, "stu-1")
	if len(subs) != 1 {
		t.Errorf("review created %d rows, want in-place update", len(subs))
	}
}

func TestFeedbackOnlyReviewKeepsAutoGrade(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)

	id := seedAssignment(t, repo, Assignment{
		Type:          TypeVocabulary,
		TestDirection: DirEnToKo,
		Vocabulary:    []WordPair{{Word: "cat", Meaning: "고양이"}},
	})
	at, _, err := svc.Start(ctx, id, "stu-1", false)
	if err != nil {
		t.Fatal(err)
	}
	ans := SingleAnswer("고양이")
	sub, err := svc.Submit(ctx, at.ID, "stu-1", "이지훈", &ans)
	if err != nil {
		t.Fatal(err)
	}

	if err := repo.ReviewSubmission(ctx, sub.ID, "잘했어요.", nil, ""); err != nil {
		t.Fatal(err)
	}
	got, err := repo.Submission(ctx, sub.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Grade != "100점 (1/1)" {
		t.Errorf("grade = %q, feedback-only review must not clear it", got.Grade)
	}
	if got.Feedback != "잘했어요." {
		t.Errorf("feedback = %q", got.Feedback)
	}
}

// Autosaves racing a submit must serialize against grading (run with -race).
func TestConcurrentAutosaveDuringSubmit(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	id := seedAssignment(t, repo, vocabAssignment(2, false))

	at, _, err := svc.Start(ctx, id, "stu-1", false)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if _, err := svc.Record(at.ID, "stu-1", SingleAnswer("draft")); err != nil {
				return // attempt discarded by the submit
			}
		}
	}()
	ans := SingleAnswer("뜻0")
	if _, err := svc.Submit(ctx, at.ID, "stu-1", "이지훈", &ans); err != nil {
		t.Fatal(err)
	}
	wg.Wait()

	subs, err := repo.SubmissionsForStudent(ctx, "stu-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 1 {
		t.Fatalf("got %d submissions, want 1", len(subs))
	}
}

type failingAdds struct {
	store.Store
}

func (f failingAdds) Add(context.Context, string, any) (string, error) {
	return "", errors.New("persistence down")
}

func TestSubmitFailureKeepsAttempt(t *testing.T) {
	ctx := context.Background()
	backing := store.NewInMemoryStore()
	repo := NewRepo(backing)
	id, err := backing.Add(ctx, store.ColAssignments, Assignment{
		Type:          TypeVocabulary,
		TestDirection: DirEnToKo,
		Vocabulary:    []WordPair{{Word: "cat", Meaning: "고양이"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	svc := NewAttemptService(NewRepo(failingAdds{backing}))
	at, _, err := svc.Start(ctx, id, "stu-1", false)
	if err != nil {
		t.Fatal(err)
	}
	ans := SingleAnswer("고양이")
	if _, err := svc.Submit(ctx, at.ID, "stu-1", "이지훈", &ans); err == nil {
		t.Fatal("submit must surface the store failure")
	}
	// failed submit leaves the attempt live and nothing persisted
	if _, err := svc.Get(at.ID, "stu-1"); err != nil {
		t.Errorf("attempt lost after failed submit: %v", err)
	}
	subs, err := repo.SubmissionsForStudent(ctx, "stu-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 0 {
		t.Errorf("partial write: %d submissions stored", len(subs))
	}
}

func TestAttemptOwnership(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t)
	id := seedAssignment(t, repo, vocabAssignment(2, false))

	at, _, err := svc.Start(ctx, id, "stu-1", false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Record(at.ID, "stu-2", SingleAnswer("x")); !errors.Is(err, ErrNotAttemptOwner) {
		t.Errorf("cross-student record: %v", err)
	}
}
