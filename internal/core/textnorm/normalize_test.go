package textnorm

import "testing"

func TestNormalize_FoldAndCollapse(t *testing.T) {
	n := New()

	got := n.Normalize("  Chief   Financial\tOfficer\n(SOX) ")
	want := "chief financial officer (sox)"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestNormalize_WidthAndFormatChars(t *testing.T) {
	n := New()

	// fullwidth forms fold to ASCII
	if got := n.Normalize("ＳＯＸ"); got != "sox" {
		t.Fatalf("fullwidth fold: got %q", got)
	}
	// zero-width format chars are stripped
	if got := n.Normalize("s​ox"); got != "sox" {
		t.Fatalf("format chars: got %q", got)
	}
}

func TestNormalize_Empty(t *testing.T) {
	n := New()
	if got := n.Normalize(""); got != "" {
		t.Fatalf("empty input should stay empty, got %q", got)
	}
}
