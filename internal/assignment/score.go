package assignment

import (
	"fmt"
	"math"
	"strings"
)

// Grade sentinels returned when numeric scoring does not apply.
const (
	GradePendingReview = "평가 대기"
	GradeZero          = "0점"
)

// normalizeAnswer folds a response for comparison: surrounding whitespace is
// ignored and matching is case-insensitive. Korean text passes through
// unchanged.
func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Score grades a completed answer set against the attempt's item sequence.
// Vocabulary and cloze assignments are scored locally; translation
// assignments always return the pending-review sentinel and wait for the
// teacher. Absent or misaligned answers count as incorrect, never as errors,
// and an empty item set yields the zero sentinel.
func Score(a Assignment, items []Item, answers []AnswerValue) string {
	correct, total := 0, 0
	switch a.Type {
	case TypeVocabulary:
		total = len(items)
		for i, it := range items {
			expected := it.Word.Word
			if a.TestDirection == DirEnToKo {
				expected = it.Word.Meaning
			}
			if i < len(answers) && !answers[i].Multi &&
				normalizeAnswer(answers[i].Single) == normalizeAnswer(expected) {
				correct++
			}
		}
	case TypeCloze:
		for i, it := range items {
			expected := ParseBlanks(it.Sentence.Target)
			total += len(expected)
			var got []string
			if i < len(answers) {
				if answers[i].Multi {
					got = answers[i].Blanks
				} else {
					got = []string{answers[i].Single}
				}
			}
			for b, want := range expected {
				if b < len(got) && normalizeAnswer(got[b]) == normalizeAnswer(want) {
					correct++
				}
			}
		}
	case TypeTranslation:
		return GradePendingReview
	}
	if total == 0 {
		return GradeZero
	}
	pct := int(math.Round(float64(correct) / float64(total) * 100))
	return fmt.Sprintf("%d점 (%d/%d)", pct, correct, total)
}
