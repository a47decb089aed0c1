package assignment

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseBlanks(t *testing.T) {
	cases := []struct {
		target string
		want   []string
	}{
		{"I (go) to (school).", []string{"go", "school"}},
		{"no blanks here", nil},
		{"", nil},
		{"( spaced )", []string{"spaced"}},
		{"(a)(b)(c)", []string{"a", "b", "c"}},
		{"unclosed (span", nil},
		{"empty () parens", nil},
		{"tail (last)", []string{"last"}},
	}
	for _, c := range cases {
		got := ParseBlanks(c.target)
		if !reflect.DeepEqual(got, c.want) {
			t.Errorf("ParseBlanks(%q) = %v, want %v", c.target, got, c.want)
		}
	}
}

func TestSegmentClozeRejoin(t *testing.T) {
	targets := []string{
		"I (go) to (school).",
		"(Start) of sentence",
		"end of (sentence)",
		"(a)(b) back to back",
		"plain text",
		"empty () kept literal (real)",
	}
	for _, target := range targets {
		var b strings.Builder
		blanks := 0
		for _, seg := range SegmentCloze(target) {
			if seg.Blank {
				if seg.Index != blanks {
					t.Errorf("%q: blank index %d, want %d", target, seg.Index, blanks)
				}
				blanks++
				b.WriteString("(" + seg.Text + ")")
			} else {
				b.WriteString(seg.Text)
			}
		}
		if b.String() != target {
			t.Errorf("rejoined %q, want %q", b.String(), target)
		}
		if blanks != len(ParseBlanks(target)) {
			t.Errorf("%q: %d blank segments vs %d parsed blanks", target, blanks, len(ParseBlanks(target)))
		}
	}
}

func TestSegmentClozeLiteralsMerge(t *testing.T) {
	// "()" is not a blank and must not split the surrounding literal.
	segs := SegmentCloze("a () b")
	if len(segs) != 1 || segs[0].Blank || segs[0].Text != "a () b" {
		t.Fatalf("got %+v, want one literal segment", segs)
	}
}

func TestStripBlankMarkers(t *testing.T) {
	if got := StripBlankMarkers("I (go) to (school)."); got != "I go to school." {
		t.Errorf("got %q", got)
	}
}

func TestBlankCount(t *testing.T) {
	if n := BlankCount("I (go) to (school)."); n != 2 {
		t.Errorf("got %d, want 2", n)
	}
	if n := BlankCount("plain"); n != 0 {
		t.Errorf("got %d, want 0", n)
	}
}
