package assignment

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"
)

func vocabAssignment(n int, shuffled bool) Assignment {
	a := Assignment{Type: TypeVocabulary, IsShuffled: shuffled, TestDirection: DirEnToKo}
	for i := 0; i < n; i++ {
		a.Vocabulary = append(a.Vocabulary, WordPair{
			Word:    fmt.Sprintf("word%d", i),
			Meaning: fmt.Sprintf("뜻%d", i),
		})
	}
	return a
}

func TestBuildItemsPreservesOrder(t *testing.T) {
	a := vocabAssignment(5, false)
	items := BuildItems(a, rand.New(rand.NewSource(1)))
	if len(items) != 5 {
		t.Fatalf("got %d items", len(items))
	}
	for i, it := range items {
		if it.Word != a.Vocabulary[i] {
			t.Errorf("item %d = %+v, want authored order", i, it.Word)
		}
	}
}

func TestBuildItemsShuffleIsPermutation(t *testing.T) {
	a := vocabAssignment(20, true)
	items := BuildItems(a, rand.New(rand.NewSource(42)))
	if len(items) != len(a.Vocabulary) {
		t.Fatalf("got %d items, want %d", len(items), len(a.Vocabulary))
	}
	got := make([]string, len(items))
	for i, it := range items {
		got[i] = it.Word.Word
	}
	want := make([]string, len(a.Vocabulary))
	for i, w := range a.Vocabulary {
		want[i] = w.Word
	}
	sort.Strings(got)
	sort.Strings(want)
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("shuffle is not a permutation: %v", got)
		}
	}
	// the authored slice must not move
	for i, w := range a.Vocabulary {
		if w.Word != fmt.Sprintf("word%d", i) {
			t.Fatalf("authored collection mutated at %d: %+v", i, w)
		}
	}
}

func TestNewAnswersSizing(t *testing.T) {
	a := Assignment{Type: TypeCloze, ClozeSentences: []TranslationPair{
		{Source: "나는 학교에 간다", Target: "I (go) to (school)."},
		{Source: "빈칸 없음", Target: "no blanks"},
	}}
	items := BuildItems(a, rand.New(rand.NewSource(1)))
	answers := NewAnswers(items)
	if len(answers) != 2 {
		t.Fatalf("got %d answers", len(answers))
	}
	if !answers[0].Multi || len(answers[0].Blanks) != 2 {
		t.Errorf("first answer = %+v, want two empty blanks", answers[0])
	}
	if !answers[1].Multi || len(answers[1].Blanks) != 0 {
		t.Errorf("second answer = %+v, want zero blanks", answers[1])
	}

	v := vocabAssignment(1, false)
	va := NewAnswers(BuildItems(v, rand.New(rand.NewSource(1))))
	if va[0].Multi || va[0].Single != "" {
		t.Errorf("vocabulary answer = %+v, want empty string", va[0])
	}
}
