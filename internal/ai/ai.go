// Package ai wraps the external text-generation collaborator used for
// teacher-facing conveniences: drafting submission feedback and batch
// translating sentences. Automatic grading never depends on this package.
package ai

import (
	"context"
	"errors"
)

// TranslateFailedPlaceholder fills a slot whose translation could not be
// produced so the teacher can type it in by hand.
const TranslateFailedPlaceholder = "(번역 실패 - 직접 입력해주세요)"

var ErrNotConfigured = errors.New("ai service not configured")

// TextService produces natural-language text. Implementations are opaque:
// callers only see plain text or an error.
type TextService interface {
	// SubmissionFeedback drafts constructive feedback (in Korean) for a
	// student submission given the assignment title, the serialized answer
	// content and the assignment type.
	SubmissionFeedback(ctx context.Context, assignmentTitle, submissionContent, assignmentType string) (string, error)
	// BatchTranslate translates English sentences into Korean, one result
	// per input. Slots that could not be translated come back as
	// TranslateFailedPlaceholder rather than an error, since the teacher
	// edits the results anyway.
	BatchTranslate(ctx context.Context, sentences []string) ([]string, error)
}

// Disabled is the TextService used when no API key is configured. Feedback
// fails loudly; translation degrades to placeholders.
type Disabled struct{}

func (Disabled) SubmissionFeedback(context.Context, string, string, string) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) BatchTranslate(_ context.Context, sentences []string) ([]string, error) {
	return placeholders(len(sentences)), nil
}

func placeholders(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = TranslateFailedPlaceholder
	}
	return out
}
