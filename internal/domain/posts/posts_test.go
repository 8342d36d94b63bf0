package posts

import (
	"strings"
	"testing"
)

func TestQuotableLine_PicksShortestSelfContained(t *testing.T) {
	text := "Everyone is wrong about this market. The entire four year cycle framework is obsolete now. That framework made sense when miners drove supply but it simply does not anymore."
	got, ok := QuotableLine(text, 20)
	if !ok {
		t.Fatalf("expected a qualifying line")
	}
	if got != "Everyone is wrong about this market." {
		t.Fatalf("unexpected quotable line: %q", got)
	}
}

func TestQuotableLine_SkipsBadOpeners(t *testing.T) {
	text := "But that was just noise. The real story is institutional flows."
	got, ok := QuotableLine(text, 20)
	if !ok {
		t.Fatalf("expected a qualifying line")
	}
	if strings.HasPrefix(strings.ToLower(got), "but ") {
		t.Fatalf("picked a bad opener: %q", got)
	}
}

func TestQuotableLine_FallsBackToLongest(t *testing.T) {
	text := "so short. um yes. tiny."
	got, ok := QuotableLine(text, 50)
	if ok {
		t.Fatalf("nothing here qualifies, ok should be false")
	}
	if got == "" {
		t.Fatalf("expected a fallback line")
	}
}

func TestStartsClean(t *testing.T) {
	tests := map[string]bool{
		"The market is fine.":        true,
		"But the market is fine.":    false,
		"  so anyway, as I said":     false,
		"Bitcoin will hit a million": true,
	}
	for in, want := range tests {
		if got := StartsClean(in); got != want {
			t.Fatalf("StartsClean(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestTrailsOff(t *testing.T) {
	if !TrailsOff("and then it all just...") {
		t.Fatalf("expected trailing ellipsis to be detected")
	}
	if TrailsOff("a complete thought.") {
		t.Fatalf("complete thought flagged as trailing off")
	}
}

func TestCaption(t *testing.T) {
	got := Caption("Bankless", "the cycle is dead", "full episode linked below")
	want := "\"the cycle is dead\"\n\nfrom Bankless\n\nfull episode linked below"
	if got != want {
		t.Fatalf("caption mismatch:\n got %q\nwant %q", got, want)
	}
	noCTA := Caption("Bankless", "the cycle is dead", "")
	if strings.HasSuffix(noCTA, "\n\n") {
		t.Fatalf("dangling separator without call to action: %q", noCTA)
	}
}
