package assignment

import "strings"

// ClozeSegment is one piece of a segmented cloze sentence: literal text, or
// a blank the student fills in. Blank segments carry the raw expected answer
// so re-joining literals with "("+Text+")" reproduces the authored sentence.
type ClozeSegment struct {
	Text  string `json:"text"`
	Blank bool   `json:"blank,omitempty"`
	Index int    `json:"index,omitempty"`
}

// SegmentCloze splits a cloze target into alternating literal and blank
// segments in left-to-right order. A blank is the minimal span between "("
// and the next ")" and must be non-empty; "()" stays literal. Spans do not
// nest. Blank indices are assigned in order of appearance and are the same
// order used to align student-entered blank answers.
func SegmentCloze(target string) []ClozeSegment {
	var segs []ClozeSegment
	literal := func(s string) {
		if s == "" {
			return
		}
		if n := len(segs); n > 0 && !segs[n-1].Blank {
			segs[n-1].Text += s
			return
		}
		segs = append(segs, ClozeSegment{Text: s})
	}

	blank := 0
	rest := target
	for {
		open := strings.Index(rest, "(")
		if open < 0 {
			break
		}
		rel := strings.Index(rest[open+1:], ")")
		if rel < 0 {
			break
		}
		if rel == 0 {
			literal(rest[:open+2])
			rest = rest[open+2:]
			continue
		}
		literal(rest[:open])
		segs = append(segs, ClozeSegment{Text: rest[open+1 : open+1+rel], Blank: true, Index: blank})
		blank++
		rest = rest[open+1+rel+1:]
	}
	literal(rest)
	return segs
}

// ParseBlanks returns the ordered expected answers of a cloze target,
// trimmed. A target with no answer spans yields nil.
func ParseBlanks(target string) []string {
	var out []string
	for _, seg := range SegmentCloze(target) {
		if seg.Blank {
			out = append(out, strings.TrimSpace(seg.Text))
		}
	}
	return out
}

// BlankCount reports how many fillable blanks a cloze target contains.
func BlankCount(target string) int {
	n := 0
	for _, seg := range SegmentCloze(target) {
		if seg.Blank {
			n++
		}
	}
	return n
}

// StripBlankMarkers rewrites a cloze target with the parentheses removed,
// keeping the answer text inline. Used when sending cloze sentences out for
// translation.
func StripBlankMarkers(target string) string {
	var b strings.Builder
	for _, seg := range SegmentCloze(target) {
		b.WriteString(seg.Text)
	}
	return b.String()
}
