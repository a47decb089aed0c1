package assignment

import (
	"math/rand"
	"testing"
)

func TestScoreVocabularyNormalization(t *testing.T) {
	a := Assignment{
		Type:          TypeVocabulary,
		TestDirection: DirEnToKo,
		Vocabulary:    []WordPair{{Word: "apple", Meaning: "사과"}},
	}
	items := BuildItems(a, rand.New(rand.NewSource(1)))
	got := Score(a, items, []AnswerValue{SingleAnswer(" 사과 ")})
	if got != "100점 (1/1)" {
		t.Errorf("grade = %q, want 100점 (1/1)", got)
	}
}

func TestScoreVocabularyKoToEn(t *testing.T) {
	a := Assignment{
		Type:          TypeVocabulary,
		TestDirection: DirKoToEn,
		Vocabulary:    []WordPair{{Word: "Apple", Meaning: "사과"}},
	}
	items := BuildItems(a, rand.New(rand.NewSource(1)))
	if got := Score(a, items, []AnswerValue{SingleAnswer("apple")}); got != "100점 (1/1)" {
		t.Errorf("grade = %q, case-insensitive match expected", got)
	}
}

func TestScoreVocabularyEndToEnd(t *testing.T) {
	a := Assignment{
		Type:          TypeVocabulary,
		TestDirection: DirEnToKo,
		Vocabulary: []WordPair{
			{Word: "cat", Meaning: "고양이"},
			{Word: "dog", Meaning: "개"},
		},
	}
	items := BuildItems(a, rand.New(rand.NewSource(1)))
	got := Score(a, items, []AnswerValue{SingleAnswer("고양이"), SingleAnswer("Dog")})
	if got != "50점 (1/2)" {
		t.Errorf("grade = %q, want 50점 (1/2)", got)
	}
}

func TestScoreClozePartialCredit(t *testing.T) {
	a := Assignment{Type: TypeCloze, ClozeSentences: []TranslationPair{
		{Source: "나는 학교에 간다", Target: "I (go) to (school)."},
	}}
	items := BuildItems(a, rand.New(rand.NewSource(1)))

	full := AnswerValue{Multi: true, Blanks: []string{"go", "School"}}
	if got := Score(a, items, []AnswerValue{full}); got != "100점 (2/2)" {
		t.Errorf("grade = %q, want 100점 (2/2)", got)
	}
	half := AnswerValue{Multi: true, Blanks: []string{"goes", "school"}}
	if got := Score(a, items, []AnswerValue{half}); got != "50점 (1/2)" {
		t.Errorf("grade = %q, want 50점 (1/2)", got)
	}
}

func TestScoreClozeMisalignedAnswers(t *testing.T) {
	a := Assignment{Type: TypeCloze, ClozeSentences: []TranslationPair{
		{Source: "나는 학교에 간다", Target: "I (go) to (school)."},
		{Source: "그는 빨리 달린다", Target: "He (runs) fast."},
	}}
	items := BuildItems(a, rand.New(rand.NewSource(1)))

	// Short, absent and wrongly-shaped answers count as incorrect, not errors.
	answers := []AnswerValue{{Multi: true, Blanks: []string{"go"}}}
	if got := Score(a, items, answers); got != "33점 (1/3)" {
		t.Errorf("grade = %q, want 33점 (1/3)", got)
	}
	single := []AnswerValue{SingleAnswer("go"), SingleAnswer("runs")}
	if got := Score(a, items, single); got != "67점 (2/3)" {
		t.Errorf("grade = %q, want 67점 (2/3)", got)
	}
}

func TestScoreTranslationAlwaysPending(t *testing.T) {
	a := Assignment{Type: TypeTranslation, Sentences: []TranslationPair{
		{Source: "The quick brown fox.", Target: "빠른 갈색 여우."},
	}}
	items := BuildItems(a, rand.New(rand.NewSource(1)))
	if got := Score(a, items, []AnswerValue{SingleAnswer("빠른 갈색 여우.")}); got != GradePendingReview {
		t.Errorf("grade = %q, want pending sentinel", got)
	}
}

func TestScoreEmptyAssignment(t *testing.T) {
	for _, typ := range []AssignmentType{TypeVocabulary, TypeCloze} {
		a := Assignment{Type: typ}
		if got := Score(a, nil, nil); got != GradeZero {
			t.Errorf("%s: grade = %q, want %q", typ, got, GradeZero)
		}
	}
}
