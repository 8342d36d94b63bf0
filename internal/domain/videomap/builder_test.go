package videomap

import (
	"testing"

	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

func seg(start, end float64, text string) types.Segment {
	return types.Segment{Start: start, End: end, Text: text}
}

func TestBuild_SingleTopicYieldsOneChapter(t *testing.T) {
	segs := []types.Segment{
		seg(0, 20, "bitcoin price action and bitcoin miners"),
		seg(20, 40, "miners are selling bitcoin into price strength"),
		seg(40, 60, "price strength depends on miners holding bitcoin"),
	}
	vm := Build("vid1", segs, Options{})
	if len(vm.Chapters) != 1 {
		t.Fatalf("expected exactly 1 chapter, got %d", len(vm.Chapters))
	}
	ch := vm.Chapters[0]
	if ch.Start != 0 || ch.End != 60 {
		t.Fatalf("chapter does not span full duration: %+v", ch)
	}
	if vm.Duration != 60 {
		t.Fatalf("unexpected duration %.1f", vm.Duration)
	}
}

func TestBuild_TopicShiftSplitsChapters(t *testing.T) {
	var segs []types.Segment
	// First topic: ethereum staking, heavily repeated vocabulary.
	for i := 0; i < 8; i++ {
		s := float64(i * 20)
		segs = append(segs, seg(s, s+20, "ethereum staking validators rewards ethereum staking yield validators"))
	}
	// Second topic: completely disjoint vocabulary.
	for i := 8; i < 16; i++ {
		s := float64(i * 20)
		segs = append(segs, seg(s, s+20, "federal reserve interest rates inflation treasury bonds macro economy"))
	}
	vm := Build("vid1", segs, Options{Window: 4, Threshold: 0.12})
	if len(vm.Chapters) < 2 {
		t.Fatalf("expected a chapter break at the topic shift, got %d chapters", len(vm.Chapters))
	}
	// Chapters partition the mapped range.
	for i := 1; i < len(vm.Chapters); i++ {
		if vm.Chapters[i].Start != vm.Chapters[i-1].End {
			t.Fatalf("chapters leave a gap between %d and %d", i-1, i)
		}
	}
}

func TestBuild_StopwordSegmentDoesNotSplit(t *testing.T) {
	segs := []types.Segment{
		seg(0, 20, "bitcoin price action and bitcoin miners"),
		seg(20, 40, "miners are selling bitcoin into price strength"),
		seg(40, 60, "yeah okay you know right just really"),
	}
	vm := Build("vid1", segs, Options{})
	if len(vm.Chapters) != 1 {
		t.Fatalf("a filler-only segment should not force a chapter break, got %d chapters", len(vm.Chapters))
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	vm := Build("vid1", nil, Options{})
	if len(vm.Chapters) != 0 || len(vm.Claims) != 0 {
		t.Fatalf("expected empty map for empty input: %+v", vm)
	}
}

func TestExtractClaims_PatternAndEvidence(t *testing.T) {
	segs := []types.Segment{
		seg(0, 20, "bitcoin market context and bitcoin setup talk"),
		seg(20, 45, "my thesis is we'll see bitcoin over one million this bitcoin cycle"),
		seg(45, 60, "that follows from the bitcoin halving supply schedule bitcoin"),
	}
	vm := Build("vid1", segs, Options{Window: 2, Threshold: 0.05})
	if len(vm.Claims) != 1 {
		t.Fatalf("expected 1 claim, got %d: %+v", len(vm.Claims), vm.Claims)
	}
	c := vm.Claims[0]
	if c.Pattern != types.PatternPrediction {
		t.Fatalf("expected PREDICTION, got %s", c.Pattern)
	}
	if len(c.EvidenceRefs) != 3 {
		t.Fatalf("expected claim segment plus both neighbors as evidence, got %v", c.EvidenceRefs)
	}
	ch := vm.Chapters[c.ChapterIdx]
	if c.Start < ch.Start || c.End > ch.End {
		t.Fatalf("claim range escapes its chapter: claim %+v chapter %+v", c, ch)
	}
}

func TestMatchPattern_Table(t *testing.T) {
	tests := []struct {
		text string
		want types.PatternTag
	}{
		{"my thesis is rates go to zero", types.PatternPrediction},
		{"defi summer is dead, nobody cares", types.PatternHotTake},
		{"crypto isn't about payments, it's actually about settlement", types.PatternInsight},
		{"we saw a 40% drawdown in a week", types.PatternData},
		{"how dare this guy be successful", types.PatternHumor},
		{"a perfectly neutral sentence", types.PatternNone},
	}
	for _, tt := range tests {
		got, _ := MatchPattern(tt.text)
		if got != tt.want {
			t.Fatalf("MatchPattern(%q) = %s, want %s", tt.text, got, tt.want)
		}
	}
}

func TestSimilarity(t *testing.T) {
	if s := Similarity("bitcoin miners capitulating", "bitcoin miners capitulating"); s != 1 {
		t.Fatalf("identical texts should score 1, got %.2f", s)
	}
	if s := Similarity("ethereum staking rewards", "federal reserve policy"); s != 0 {
		t.Fatalf("disjoint texts should score 0, got %.2f", s)
	}
}
