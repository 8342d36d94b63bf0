// Package selection picks the final clips for one video from the
// stage-2 shortlist. Selection is greedy over score order and fully
// deterministic: the same scored input always yields the same clips.
package selection

import (
	"sort"

	"github.com/srinivastejavt/podcast-clipper/internal/domain/videomap"
	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

type Options struct {
	MaxClips             int
	MinSeparationSeconds float64
	TopicThreshold       float64
	MinComposite         float64
}

func (o Options) withDefaults() Options {
	if o.MaxClips <= 0 {
		o.MaxClips = 2
	}
	if o.MinSeparationSeconds <= 0 {
		o.MinSeparationSeconds = 480
	}
	if o.TopicThreshold <= 0 {
		o.TopicThreshold = 0.5
	}
	return o
}

// Select walks candidates in composite-score order (earlier start wins
// ties) and accepts one only when it keeps its distance from every
// already-accepted clip, both in the timeline and in topic. A candidate
// that fails either check is skipped, not swapped in later.
func Select(scored []types.ScoredCandidate, opts Options) []types.ScoredCandidate {
	opts = opts.withDefaults()
	if len(scored) == 0 {
		return nil
	}

	ranked := make([]types.ScoredCandidate, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Composite != ranked[j].Composite {
			return ranked[i].Composite > ranked[j].Composite
		}
		return ranked[i].Start < ranked[j].Start
	})

	var accepted []types.ScoredCandidate
	for _, c := range ranked {
		if len(accepted) == opts.MaxClips {
			break
		}
		if c.Composite < opts.MinComposite {
			continue
		}
		if clashes(c, accepted, opts) {
			continue
		}
		accepted = append(accepted, c)
	}

	sort.SliceStable(accepted, func(i, j int) bool { return accepted[i].Start < accepted[j].Start })
	return accepted
}

func clashes(c types.ScoredCandidate, accepted []types.ScoredCandidate, opts Options) bool {
	for _, a := range accepted {
		if gap(c, a) < opts.MinSeparationSeconds {
			return true
		}
		if sameTopic(c, a, opts.TopicThreshold) {
			return true
		}
	}
	return false
}

// gap is the distance between the nearest boundaries of two clips;
// overlapping clips have a gap of zero.
func gap(a, b types.ScoredCandidate) float64 {
	switch {
	case a.Start >= b.End:
		return a.Start - b.End
	case b.Start >= a.End:
		return b.Start - a.End
	default:
		return 0
	}
}

// sameTopic treats two clips as near-duplicates when they come from the
// same chapter or their source texts overlap lexically at or above the
// threshold.
func sameTopic(a, b types.ScoredCandidate, threshold float64) bool {
	if a.ChapterIdx == b.ChapterIdx {
		return true
	}
	return videomap.Similarity(a.SourceText, b.SourceText) >= threshold
}
