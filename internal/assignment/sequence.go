package assignment

import "math/rand"

// BuildItems snapshots the assignment's active item collection for a new
// attempt. When IsShuffled is set the copy is permuted with Fisher-Yates
// using rng; the authored order is never mutated. Re-running on retake
// yields a fresh, possibly re-shuffled sequence.
func BuildItems(a Assignment, rng *rand.Rand) []Item {
	var items []Item
	switch a.Type {
	case TypeVocabulary:
		for _, w := range a.Vocabulary {
			items = append(items, Item{Type: TypeVocabulary, Word: w})
		}
	case TypeTranslation:
		for _, s := range a.Sentences {
			items = append(items, Item{Type: TypeTranslation, Sentence: s})
		}
	case TypeCloze:
		for _, s := range a.ClozeSentences {
			items = append(items, Item{Type: TypeCloze, Sentence: s})
		}
	}
	if a.IsShuffled {
		for i := len(items) - 1; i > 0; i-- {
			j := rng.Intn(i + 1)
			items[i], items[j] = items[j], items[i]
		}
	}
	return items
}

// NewAnswers builds the empty answer slice aligned 1:1 with items: an empty
// string per item, or one empty string per blank for cloze items.
func NewAnswers(items []Item) []AnswerValue {
	answers := make([]AnswerValue, len(items))
	for i, it := range items {
		answers[i] = emptyAnswer(it)
	}
	return answers
}

func emptyAnswer(it Item) AnswerValue {
	if it.Type == TypeCloze {
		return BlankAnswers(BlankCount(it.Sentence.Target))
	}
	return SingleAnswer("")
}
