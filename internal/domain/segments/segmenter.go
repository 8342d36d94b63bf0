// Package segments turns a raw, sentence-level transcript into the
// ordered segment windows every later stage reasons over.
package segments

import (
	"fmt"
	"strings"

	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

type Options struct {
	// TargetWindowSeconds is the merge target: consecutive short
	// sentences are folded into one segment until the window reaches
	// this length. A single longer sentence is never split.
	TargetWindowSeconds float64

	// MaxMissingFraction is the tolerated fraction of sentences without
	// usable timestamps before the transcript is rejected outright.
	MaxMissingFraction float64
}

// Build derives segment windows from the transcript. The result is
// deterministic for the same input: segments are ordered by start time
// and partition the transcript span exactly, with no gaps.
//
// Returns a MalformedTranscriptError when timestamps are non-monotonic
// or too many sentences are untimed; that is fatal for the whole video.
func Build(tr types.Transcript, opts Options) ([]types.Segment, error) {
	if opts.TargetWindowSeconds <= 0 {
		opts.TargetWindowSeconds = 20
	}
	if opts.MaxMissingFraction <= 0 {
		opts.MaxMissingFraction = 0.10
	}

	timed, err := validate(tr, opts)
	if err != nil {
		return nil, err
	}
	if len(timed) == 0 {
		return nil, nil
	}

	var out []types.Segment
	cur := types.Segment{Start: timed[0].Start, End: timed[0].End, Text: timed[0].Text, Speaker: timed[0].Speaker}
	var parts []string
	parts = append(parts, strings.TrimSpace(timed[0].Text))

	for _, s := range timed[1:] {
		speakerChanged := s.Speaker != "" && cur.Speaker != "" && s.Speaker != cur.Speaker
		windowFull := s.End-cur.Start > opts.TargetWindowSeconds
		if windowFull || speakerChanged {
			cur.Text = strings.Join(parts, " ")
			out = append(out, cur)
			cur = types.Segment{Start: s.Start, End: s.End, Text: "", Speaker: s.Speaker}
			parts = parts[:0]
		}
		cur.End = s.End
		if cur.Speaker == "" {
			cur.Speaker = s.Speaker
		}
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	cur.Text = strings.Join(parts, " ")
	out = append(out, cur)

	// Stitch boundaries so segments partition the span: silence between
	// sentences belongs to the segment that precedes it.
	for i := 0; i < len(out)-1; i++ {
		if out[i].End < out[i+1].Start {
			out[i].End = out[i+1].Start
		}
	}
	return out, nil
}

// validate drops untimed sentences and rejects the transcript when they
// exceed the tolerated fraction or when timestamps go backwards.
func validate(tr types.Transcript, opts Options) ([]types.Sentence, error) {
	if len(tr.Sentences) == 0 {
		return nil, nil
	}

	timed := make([]types.Sentence, 0, len(tr.Sentences))
	missing := 0
	for _, s := range tr.Sentences {
		if s.End <= s.Start {
			missing++
			continue
		}
		timed = append(timed, s)
	}

	if frac := float64(missing) / float64(len(tr.Sentences)); frac > opts.MaxMissingFraction {
		return nil, &types.MalformedTranscriptError{
			VideoID: tr.VideoID,
			Reason:  fmt.Sprintf("%.0f%% of sentences have no usable timestamps", frac*100),
		}
	}

	for i := 1; i < len(timed); i++ {
		if timed[i].Start < timed[i-1].Start {
			return nil, &types.MalformedTranscriptError{
				VideoID: tr.VideoID,
				Reason:  fmt.Sprintf("non-monotonic timestamp at %.2fs after %.2fs", timed[i].Start, timed[i-1].Start),
			}
		}
	}
	return timed, nil
}
