package assignment

import "errors"

var ErrBlankIndex = errors.New("blank index out of range")

// Attempt is one in-progress pass through an assignment's items. It is
// derived state owned by a single student session: created on start or
// retake, discarded once a submission is recorded, never persisted
// mid-flight.
type Attempt struct {
	ID         string
	Assignment Assignment // snapshot at start; teachers may edit the stored record meanwhile
	StudentID  string
	Items      []Item
	Answers    []AnswerValue
	Current    int
}

// NewAttempt initializes position and empty answers for the given item
// sequence.
func NewAttempt(id string, a Assignment, studentID string, items []Item) *Attempt {
	return &Attempt{
		ID:         id,
		Assignment: a,
		StudentID:  studentID,
		Items:      items,
		Answers:    NewAnswers(items),
		Current:    0,
	}
}

// CurrentItem returns the item at the cursor, or a zero Item for an empty
// attempt.
func (at *Attempt) CurrentItem() Item {
	if at.Current < 0 || at.Current >= len(at.Items) {
		return Item{}
	}
	return at.Items[at.Current]
}

// Record stores the student's in-progress input for the current item,
// replacing whatever was recorded before. The value is kept verbatim;
// shape mismatches are resolved at scoring time, not here.
func (at *Attempt) Record(v AnswerValue) {
	if at.Current >= 0 && at.Current < len(at.Answers) {
		at.Answers[at.Current] = v
	}
}

// SetBlank edits one blank of the current cloze item without touching the
// other blanks.
func (at *Attempt) SetBlank(i int, val string) error {
	if at.Current < 0 || at.Current >= len(at.Answers) {
		return ErrBlankIndex
	}
	v := at.Answers[at.Current]
	if !v.Multi || i < 0 || i >= len(v.Blanks) {
		return ErrBlankIndex
	}
	v.Blanks[i] = val
	return nil
}

// Advance moves the cursor forward by one. It is a no-op on the last item;
// moving past the end to submit is a separate action. The next item's
// previously recorded answer stays loaded as-is: NewAttempt seeded every
// position with a correctly sized empty value, so a never-visited item
// presents a fresh input and a visited one presents its prior input.
func (at *Attempt) Advance() {
	if at.Current < len(at.Items)-1 {
		at.Current++
	}
}

// Retreat moves the cursor back by one, restoring the previously recorded
// answer verbatim. No-op at the first item.
func (at *Attempt) Retreat() {
	if at.Current > 0 {
		at.Current--
	}
}
