// Package candidates is stage 1: a cheap filter that turns the video
// map into a bounded shortlist worth spending oracle calls on. Its
// score is deliberately coarse and must never be the final ranking
// signal.
package candidates

import (
	"sort"
	"strings"

	"github.com/srinivastejavt/podcast-clipper/internal/domain/posts"
	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

type Options struct {
	MinClipSeconds   float64
	MaxClipSeconds   float64
	IdealMinSeconds  float64
	IdealMaxSeconds  float64
	SkipIntroSeconds float64
	MinQuotableChars int
	MaxCandidates    int
	Bonus            BonusTable
}

// BonusTable is the stage-1 score table. The dashboard's client-side
// estimator uses the same table, so changes here must ship to both.
type BonusTable struct {
	Pattern  map[types.PatternTag]float64
	Base     float64
	Length   float64
	Duration float64
}

func DefaultBonusTable() BonusTable {
	return BonusTable{
		Pattern: map[types.PatternTag]float64{
			types.PatternPrediction: 1.5,
			types.PatternHotTake:    1.5,
			types.PatternInsight:    1.0,
			types.PatternData:       1.0,
			types.PatternHumor:      0.5,
		},
		Base:     5.0,
		Length:   0.5,
		Duration: 0.5,
	}
}

func (o Options) withDefaults() Options {
	if o.MinClipSeconds <= 0 {
		o.MinClipSeconds = 20
	}
	if o.MaxClipSeconds <= 0 || o.MaxClipSeconds < o.MinClipSeconds {
		o.MaxClipSeconds = 90
	}
	if o.IdealMinSeconds <= 0 {
		o.IdealMinSeconds = 30
	}
	if o.IdealMaxSeconds <= 0 {
		o.IdealMaxSeconds = 60
	}
	if o.MinQuotableChars <= 0 {
		o.MinQuotableChars = 20
	}
	if o.MaxCandidates <= 0 || o.MaxCandidates > 40 {
		o.MaxCandidates = 40
	}
	if o.Bonus.Base == 0 {
		o.Bonus = DefaultBonusTable()
	}
	return o
}

// Estimate is the shared stage-1 score: base plus pattern bonus, plus a
// length bonus when the quotable line is substantial, plus a duration
// bonus when the clip sits in the ideal sub-range. Clamped to [1,10].
func Estimate(tag types.PatternTag, quotableLen int, durationSec float64, opts Options) float64 {
	opts = opts.withDefaults()
	score := opts.Bonus.Base + opts.Bonus.Pattern[tag]
	if quotableLen >= opts.MinQuotableChars {
		score += opts.Bonus.Length
	}
	if durationSec >= opts.IdealMinSeconds && durationSec <= opts.IdealMaxSeconds {
		score += opts.Bonus.Duration
	}
	return clamp(score, 1, 10)
}

// Generate produces at most MaxCandidates candidates, ordered by start
// time: one per claim/evidence cluster whose combined span fits the
// duration window. Out-of-bounds durations are dropped silently; that
// is the expected common case, not a failure.
func Generate(vm types.VideoMap, segs []types.Segment, opts Options) []types.Candidate {
	opts = opts.withDefaults()
	if len(vm.Claims) == 0 || len(segs) == 0 {
		return nil
	}

	var out []types.Candidate
	for _, cluster := range clusterClaims(vm.Claims) {
		c, ok := buildCandidate(vm, cluster, segs, opts)
		if !ok {
			continue
		}
		out = append(out, c)
	}

	if len(out) > opts.MaxCandidates {
		// Keep the strongest, then restore timeline order. Near-ties
		// survive on purpose: stage-1 precision is low by design.
		sort.SliceStable(out, func(i, j int) bool { return out[i].Stage1Score > out[j].Stage1Score })
		out = out[:opts.MaxCandidates]
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// clusterClaims groups claims from the same chapter whose spans sit
// within 30 seconds of each other; overlapping pattern matches usually
// describe the same moment.
func clusterClaims(claims []types.Claim) [][]types.Claim {
	sorted := make([]types.Claim, len(claims))
	copy(sorted, claims)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var groups [][]types.Claim
	cur := []types.Claim{sorted[0]}
	for _, cl := range sorted[1:] {
		last := cur[len(cur)-1]
		if cl.ChapterIdx == last.ChapterIdx && cl.Start-last.End < 30 {
			cur = append(cur, cl)
			continue
		}
		groups = append(groups, cur)
		cur = []types.Claim{cl}
	}
	return append(groups, cur)
}

func buildCandidate(vm types.VideoMap, cluster []types.Claim, segs []types.Segment, opts Options) (types.Candidate, bool) {
	primary := cluster[0]
	for _, cl := range cluster[1:] {
		if opts.Bonus.Pattern[cl.Pattern] > opts.Bonus.Pattern[primary.Pattern] {
			primary = cl
		}
	}

	start, end := cluster[0].Start, cluster[0].End
	seen := map[int]bool{}
	var refs []int
	for _, cl := range cluster {
		for _, ref := range cl.EvidenceRefs {
			if ref < 0 || ref >= len(segs) || seen[ref] {
				continue
			}
			seen[ref] = true
			refs = append(refs, ref)
			if segs[ref].Start < start {
				start = segs[ref].Start
			}
			if segs[ref].End > end {
				end = segs[ref].End
			}
		}
	}

	if start < opts.SkipIntroSeconds {
		return types.Candidate{}, false
	}

	// Short spans get padded to the minimum; anything past the hard
	// bounds after that is dropped without comment.
	if end-start < opts.MinClipSeconds {
		end = start + opts.MinClipSeconds
		if end > vm.Duration {
			return types.Candidate{}, false
		}
	}
	if end-start > opts.MaxClipSeconds {
		return types.Candidate{}, false
	}

	text := sliceText(segs, start, end)
	if text == "" || !posts.StartsClean(text) || posts.TrailsOff(text) {
		return types.Candidate{}, false
	}
	quotable, ok := posts.QuotableLine(text, opts.MinQuotableChars)
	if !ok {
		return types.Candidate{}, false
	}

	c := types.Candidate{
		VideoID:      vm.VideoID,
		Start:        start,
		End:          end,
		SourceText:   text,
		QuotableLine: quotable,
		Pattern:      primary.Pattern,
		ChapterIdx:   primary.ChapterIdx,
	}
	c.Stage1Score = Estimate(c.Pattern, len(quotable), c.Duration(), opts)
	return c, true
}

// sliceText joins the text of every segment overlapping [start,end).
func sliceText(segs []types.Segment, start, end float64) string {
	var parts []string
	for _, s := range segs {
		if s.Start < end && s.End > start && s.Text != "" {
			parts = append(parts, s.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
