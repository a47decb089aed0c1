package assignment

import (
	"bytes"
	"encoding/json"
)

// AssignmentType selects the item shape and the scoring rule.
type AssignmentType string

const (
	TypeVocabulary  AssignmentType = "VOCABULARY"
	TypeTranslation AssignmentType = "TRANSLATION"
	TypeCloze       AssignmentType = "CLOZE"
)

// Direction is the test direction for vocabulary and translation drills.
type Direction string

const (
	DirEnToKo Direction = "en-to-ko"
	DirKoToEn Direction = "ko-to-en"
)

// WordPair is one vocabulary entry. Immutable once authored.
type WordPair struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
}

// TranslationPair is one sentence entry. For translation assignments Target
// may be empty until filled (by hand or AI). For cloze assignments Target
// holds the English sentence with "(answer)" spans and Source the Korean
// prompt.
type TranslationPair struct {
	Source    string    `json:"source"`
	Target    string    `json:"target"`
	Direction Direction `json:"direction"`
}

// Assignment is one drill inside a textbook. Exactly one of Vocabulary,
// Sentences or ClozeSentences is active, selected by Type.
type Assignment struct {
	ID             string            `json:"id"`
	TextbookID     string            `json:"textbookId"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Type           AssignmentType    `json:"type"`
	TestDirection  Direction         `json:"testDirection,omitempty"`
	IsShuffled     bool              `json:"isShuffled,omitempty"`
	Vocabulary     []WordPair        `json:"vocabulary,omitempty"`
	Sentences      []TranslationPair `json:"sentences,omitempty"`
	ClozeSentences []TranslationPair `json:"clozeSentences,omitempty"`
	Order          int               `json:"order"`
}

// Textbook groups assignments and carries the per-student assignment list.
type Textbook struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	AssignedTo  []string `json:"assignedTo"`
	CreatedAt   string   `json:"createdAt"`
}

// Submission is one recorded completion of an assignment by a student.
// Content is the serialized answer-value sequence, one entry per item.
// Grade, Feedback and CorrectedAnswers are filled by auto-grading and
// teacher review.
type Submission struct {
	ID               string   `json:"id"`
	AssignmentID     string   `json:"assignmentId"`
	StudentID        string   `json:"studentId"`
	StudentName      string   `json:"studentName"`
	Content          string   `json:"content"`
	SubmittedAt      string   `json:"submittedAt"`
	Grade            string   `json:"grade,omitempty"`
	Feedback         string   `json:"feedback,omitempty"`
	CorrectedAnswers []string `json:"correctedAnswers,omitempty"`
}

// Roles as stored on user records.
const (
	RoleTeacher = "TEACHER"
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
)

// User is an account record. PasswordHash is bcrypt and never serialized
// back out to clients.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	PasswordHash string `json:"passwordHash,omitempty"`
	School       string `json:"school,omitempty"`
	Grade        string `json:"grade,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// Item is one question in an attempt, tagged by the assignment type it was
// snapshotted from. Word is set for vocabulary items, Sentence for
// translation and cloze items.
type Item struct {
	Type     AssignmentType  `json:"type"`
	Word     WordPair        `json:"word,omitempty"`
	Sentence TranslationPair `json:"sentence,omitempty"`
}

// AnswerValue is a student's response to one item: a single string for
// vocabulary/translation items, or one string per blank (in order of blank
// appearance) for cloze items. It serializes as a bare string or a string
// array so stored submission content round-trips exactly.
type AnswerValue struct {
	Single string
	Blanks []string
	Multi  bool
}

// SingleAnswer wraps a free-text response.
func SingleAnswer(s string) AnswerValue { return AnswerValue{Single: s} }

// BlankAnswers allocates an empty per-blank response of size n.
func BlankAnswers(n int) AnswerValue {
	return AnswerValue{Multi: true, Blanks: make([]string, n)}
}

func (v AnswerValue) MarshalJSON() ([]byte, error) {
	if v.Multi {
		if v.Blanks == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.Blanks)
	}
	return json.Marshal(v.Single)
}

func (v *AnswerValue) UnmarshalJSON(b []byte) error {
	t := bytes.TrimSpace(b)
	if len(t) > 0 && t[0] == '[' {
		v.Multi = true
		v.Single = ""
		return json.Unmarshal(b, &v.Blanks)
	}
	v.Multi = false
	v.Blanks = nil
	return json.Unmarshal(b, &v.Single)
}
