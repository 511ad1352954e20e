package domain

import "testing"

func TestDedupeKey(t *testing.T) {
	h := Hypothesis{
		IntentType: "IPO_PREP",
		Evidence:   []Evidence{{SignalID: 42}, {SignalID: 43}},
	}
	pair, ok := h.DedupeKey()
	if !ok {
		t.Fatal("evidence present, expected a key")
	}
	if pair.IntentType != "IPO_PREP" || pair.SignalID != 42 {
		t.Fatalf("pair = %+v, want anchor on first evidence signal", pair)
	}

	if _, ok := (Hypothesis{IntentType: "IPO_PREP"}).DedupeKey(); ok {
		t.Fatal("no evidence, expected no key")
	}
}
