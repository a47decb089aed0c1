package assignment

import (
	"math/rand"
	"testing"
)

func newTestAttempt(t *testing.T, a Assignment) *Attempt {
	t.Helper()
	return NewAttempt("att-1", a, "student-1", BuildItems(a, rand.New(rand.NewSource(1))))
}

func TestNavigationBounds(t *testing.T) {
	at := newTestAttempt(t, vocabAssignment(3, false))

	at.Retreat()
	if at.Current != 0 {
		t.Fatalf("retreat at first item moved cursor to %d", at.Current)
	}
	at.Advance()
	at.Advance()
	if at.Current != 2 {
		t.Fatalf("cursor = %d, want 2", at.Current)
	}
	at.Advance()
	if at.Current != 2 {
		t.Fatalf("advance at last item moved cursor to %d", at.Current)
	}
}

func TestAnswersSurviveNavigation(t *testing.T) {
	at := newTestAttempt(t, vocabAssignment(3, false))

	at.Record(SingleAnswer("첫번째"))
	at.Advance()
	at.Record(SingleAnswer("")) // visited but deliberately left empty
	at.Advance()
	at.Record(SingleAnswer("셋째"))

	at.Retreat()
	if got := at.Answers[at.Current]; got.Single != "" || got.Multi {
		t.Errorf("middle answer = %+v, want preserved empty input", got)
	}
	at.Retreat()
	if got := at.Answers[at.Current]; got.Single != "첫번째" {
		t.Errorf("first answer = %+v, want 첫번째", got)
	}
	at.Advance()
	at.Advance()
	if got := at.Answers[at.Current]; got.Single != "셋째" {
		t.Errorf("last answer = %+v, want 셋째", got)
	}
}

func TestSetBlank(t *testing.T) {
	a := Assignment{Type: TypeCloze, ClozeSentences: []TranslationPair{
		{Source: "나는 학교에 간다", Target: "I (go) to (school)."},
	}}
	at := newTestAttempt(t, a)

	if err := at.SetBlank(1, "school"); err != nil {
		t.Fatal(err)
	}
	got := at.Answers[0]
	if got.Blanks[0] != "" || got.Blanks[1] != "school" {
		t.Errorf("blanks = %v, want only index 1 set", got.Blanks)
	}
	if err := at.SetBlank(2, "x"); err == nil {
		t.Error("out-of-range blank index accepted")
	}
	if err := at.SetBlank(-1, "x"); err == nil {
		t.Error("negative blank index accepted")
	}
}
