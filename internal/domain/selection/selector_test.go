package selection

import (
	"reflect"
	"testing"

	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

func scored(start, end float64, chapter int, pattern types.PatternTag, text string, composite float64) types.ScoredCandidate {
	return types.ScoredCandidate{
		Candidate: types.Candidate{
			VideoID:    "vid1",
			Start:      start,
			End:        end,
			SourceText: text,
			Pattern:    pattern,
			ChapterIdx: chapter,
		},
		Composite: composite,
	}
}

func TestSelect_DiversityOverScore(t *testing.T) {
	t.Parallel()
	// Two near-identical predictions from the same stretch plus a joke
	// from much later: the second prediction loses despite outscoring
	// the joke.
	in := []types.ScoredCandidate{
		scored(100, 150, 0, types.PatternPrediction, "bitcoin hits one million by the next halving cycle", 8.5),
		scored(200, 250, 0, types.PatternPrediction, "bitcoin reaching one million next halving cycle easily", 8.2),
		scored(1800, 1850, 3, types.PatternHumor, "my dog trades better than most fund managers", 7.9),
	}
	got := Select(in, Options{})
	if len(got) != 2 {
		t.Fatalf("expected 2 clips, got %d", len(got))
	}
	if got[0].Start != 100 || got[1].Start != 1800 {
		t.Fatalf("wrong clips selected: %v, %v", got[0].Start, got[1].Start)
	}
}

func TestSelect_SeparationRejectsClosePairs(t *testing.T) {
	t.Parallel()
	// Different chapters and disjoint topics, but only 100s apart.
	in := []types.ScoredCandidate{
		scored(100, 150, 0, types.PatternInsight, "the bond market prices duration risk weirdly", 9.0),
		scored(250, 300, 1, types.PatternData, "housing inventory doubled in phoenix last quarter", 8.8),
	}
	got := Select(in, Options{})
	if len(got) != 1 || got[0].Start != 100 {
		t.Fatalf("expected only the higher-scored clip, got %+v", got)
	}
}

func TestSelect_SameChapterRejectsDistantPairs(t *testing.T) {
	t.Parallel()
	// Far apart in the timeline but the same chapter: still duplicates.
	in := []types.ScoredCandidate{
		scored(100, 150, 2, types.PatternInsight, "the bond market prices duration risk weirdly", 9.0),
		scored(1500, 1550, 2, types.PatternData, "housing inventory doubled in phoenix last quarter", 8.8),
	}
	got := Select(in, Options{})
	if len(got) != 1 {
		t.Fatalf("expected same-chapter pair to collapse to one clip, got %d", len(got))
	}
}

func TestSelect_CapAndComposite(t *testing.T) {
	t.Parallel()
	in := []types.ScoredCandidate{
		scored(100, 150, 0, types.PatternInsight, "alpha decay in momentum strategies", 9.0),
		scored(1000, 1050, 1, types.PatternData, "retail flows dwarfed institutions in march", 8.5),
		scored(2000, 2050, 2, types.PatternHotTake, "passive investing is a bubble machine", 8.0),
	}
	got := Select(in, Options{MaxClips: 1})
	if len(got) != 1 || got[0].Start != 100 {
		t.Fatalf("MaxClips=1 should keep only the top clip, got %+v", got)
	}

	got = Select(in, Options{MinComposite: 8.7})
	if len(got) != 1 || got[0].Composite != 9.0 {
		t.Fatalf("composite floor should drop everything below 8.7, got %+v", got)
	}
}

func TestSelect_TieBreakEarlierStart(t *testing.T) {
	t.Parallel()
	in := []types.ScoredCandidate{
		scored(1000, 1050, 1, types.PatternData, "retail flows dwarfed institutions in march", 8.0),
		scored(100, 150, 0, types.PatternInsight, "alpha decay in momentum strategies", 8.0),
	}
	got := Select(in, Options{MaxClips: 1})
	if len(got) != 1 || got[0].Start != 100 {
		t.Fatalf("equal scores should prefer the earlier clip, got %+v", got)
	}
}

func TestSelect_Deterministic(t *testing.T) {
	t.Parallel()
	a := scored(100, 150, 0, types.PatternInsight, "alpha decay in momentum strategies", 9.0)
	b := scored(1000, 1050, 1, types.PatternData, "retail flows dwarfed institutions in march", 8.5)
	c := scored(2000, 2050, 2, types.PatternHotTake, "passive investing is a bubble machine", 8.0)

	first := Select([]types.ScoredCandidate{a, b, c}, Options{})
	second := Select([]types.ScoredCandidate{c, a, b}, Options{})
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("selection depends on input order:\n%+v\nvs\n%+v", first, second)
	}
}

func TestSelect_Empty(t *testing.T) {
	t.Parallel()
	if got := Select(nil, Options{}); got != nil {
		t.Fatalf("expected nil for empty input, got %+v", got)
	}
}
