// Package usecase runs the engine end to end: segments, video map,
// candidates, oracle scoring, selection, emission. Failure isolation
// lives here: a candidate failure costs the candidate, a video failure
// costs the video, and only cancellation stops the batch.
package usecase

import (
	"context"
	"sync"

	"github.com/phuslu/log"
	"golang.org/x/sync/errgroup"

	"github.com/srinivastejavt/podcast-clipper/internal/common"
	"github.com/srinivastejavt/podcast-clipper/internal/domain/candidates"
	"github.com/srinivastejavt/podcast-clipper/internal/domain/segments"
	"github.com/srinivastejavt/podcast-clipper/internal/domain/selection"
	"github.com/srinivastejavt/podcast-clipper/internal/domain/videomap"
	"github.com/srinivastejavt/podcast-clipper/internal/emitter"
	"github.com/srinivastejavt/podcast-clipper/internal/ports"
	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

// videoWorkers caps how many videos are in flight at once; oracle
// pressure is bounded separately by the scorer.
const videoWorkers = 4

// Scorer is the stage-2 seam; the production implementation is
// scoring.Scorer.
type Scorer interface {
	ScoreAll(ctx context.Context, tr types.Transcript, vm types.VideoMap, cands []types.Candidate) ([]types.ScoredCandidate, error)
}

type Deps struct {
	Config  common.Config
	Store   ports.Store
	Scorer  Scorer
	Emitter *emitter.Emitter
	Logger  log.Logger
}

type Engine struct {
	deps Deps
}

func New(deps Deps) *Engine {
	return &Engine{deps: deps}
}

// ProcessVideo runs stages 1 through 5 for one transcript and returns
// the clips that survived selection. It never emits; the caller owns
// batch assembly.
func (e *Engine) ProcessVideo(ctx context.Context, tr types.Transcript) ([]types.SelectedClip, error) {
	cfg := e.deps.Config
	if tr.VideoID == "" {
		return nil, &types.MalformedTranscriptError{Reason: "missing video id"}
	}

	segs, err := segments.Build(tr, segments.Options{
		TargetWindowSeconds: cfg.Engine.TargetWindowSeconds,
		MaxMissingFraction:  cfg.Engine.MaxMissingFraction,
	})
	if err != nil {
		return nil, err
	}

	vm, err := e.videoMap(tr.VideoID, segs)
	if err != nil {
		return nil, err
	}
	e.deps.Logger.Debug().
		Str("video_id", tr.VideoID).
		Int("segments", len(segs)).
		Int("chapters", len(vm.Chapters)).
		Int("claims", len(vm.Claims)).
		Msg("video map ready")

	cands := candidates.Generate(vm, segs, candidates.Options{
		MinClipSeconds:   cfg.Engine.MinClipSeconds,
		MaxClipSeconds:   cfg.Engine.MaxClipSeconds,
		IdealMinSeconds:  cfg.Engine.IdealMinSeconds,
		IdealMaxSeconds:  cfg.Engine.IdealMaxSeconds,
		SkipIntroSeconds: cfg.Engine.SkipIntroSeconds,
		MinQuotableChars: cfg.Engine.MinQuotableChars,
		MaxCandidates:    cfg.Engine.MaxCandidates,
		Bonus:            bonusTable(cfg.Scoring),
	})
	if len(cands) == 0 {
		return nil, nil
	}

	scored, err := e.deps.Scorer.ScoreAll(ctx, tr, vm, cands)
	if err != nil {
		return nil, err
	}

	tier := cfg.Tier(tr.ChannelName)
	rule := cfg.TierRule(tier)
	maxClips := cfg.Selector.MaxPerVideo
	if rule.MaxClips > 0 {
		maxClips = rule.MaxClips
	}
	selected := selection.Select(scored, selection.Options{
		MaxClips:             maxClips,
		MinSeparationSeconds: cfg.Selector.MinSeparationSecs,
		TopicThreshold:       cfg.Selector.TopicThreshold,
		MinComposite:         rule.MinComposite,
	})

	clips := make([]types.SelectedClip, 0, len(selected))
	for _, sc := range selected {
		clips = append(clips, e.deps.Emitter.BuildClip(tr, sc))
	}
	e.deps.Logger.Info().
		Str("video_id", tr.VideoID).
		Str("tier", tier).
		Int("candidates", len(cands)).
		Int("scored", len(scored)).
		Int("clips", len(clips)).
		Msg("video processed")
	return clips, nil
}

// videoMap returns the cached map for the video or builds and caches a
// fresh one. The map is derived deterministically from the transcript,
// so a cache hit is always safe to reuse.
func (e *Engine) videoMap(videoID string, segs []types.Segment) (types.VideoMap, error) {
	vm, ok, err := e.deps.Store.VideoMap(videoID)
	if err != nil {
		return types.VideoMap{}, err
	}
	if ok {
		return vm, nil
	}
	vm = videomap.Build(videoID, segs, videomap.Options{
		Window:    e.deps.Config.Engine.ChapterWindow,
		Threshold: e.deps.Config.Engine.ChapterThreshold,
	})
	if err := e.deps.Store.PutVideoMap(vm); err != nil {
		return types.VideoMap{}, err
	}
	return vm, nil
}

// Run processes a batch of transcripts and emits one batch document.
// Already-processed videos are skipped unless force is set. Only
// context cancellation aborts the run; in that case nothing is emitted.
func (e *Engine) Run(ctx context.Context, transcripts []types.Transcript, force bool) (types.Batch, []types.VideoOutcome, error) {
	outcomes := make([]types.VideoOutcome, len(transcripts))
	clipsPerVideo := make([][]types.SelectedClip, len(transcripts))

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(videoWorkers)

	for i, tr := range transcripts {
		g.Go(func() error {
			outcome := e.runOne(ctx, tr, force, &clipsPerVideo[i])
			mu.Lock()
			outcomes[i] = outcome
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return types.Batch{}, outcomes, err
	}

	var clips []types.SelectedClip
	for i := range clipsPerVideo {
		clips = append(clips, clipsPerVideo[i]...)
	}
	batch, err := e.deps.Emitter.Emit(clips)
	if err != nil {
		return types.Batch{}, outcomes, err
	}

	for i, tr := range transcripts {
		if outcomes[i].Status != types.OutcomeOK {
			continue
		}
		if err := e.deps.Store.MarkProcessed(tr.VideoID); err != nil {
			e.deps.Logger.Warn().Str("video_id", tr.VideoID).Err(err).Msg("mark processed failed")
		}
	}
	return batch, outcomes, nil
}

func (e *Engine) runOne(ctx context.Context, tr types.Transcript, force bool, out *[]types.SelectedClip) types.VideoOutcome {
	if !force {
		done, err := e.deps.Store.Processed(tr.VideoID)
		if err == nil && done {
			e.deps.Logger.Debug().Str("video_id", tr.VideoID).Msg("already processed, skipping")
			return types.VideoOutcome{VideoID: tr.VideoID, Status: types.OutcomeOK, Reason: "already processed"}
		}
	}

	clips, err := e.ProcessVideo(ctx, tr)
	switch {
	case err == nil:
		*out = clips
		return types.VideoOutcome{VideoID: tr.VideoID, Status: types.OutcomeOK, Clips: len(clips)}
	case ctx.Err() != nil:
		return types.VideoOutcome{VideoID: tr.VideoID, Status: types.OutcomeCancelled, Reason: ctx.Err().Error()}
	default:
		e.deps.Logger.Error().Str("video_id", tr.VideoID).Err(err).Msg("video failed")
		return types.VideoOutcome{VideoID: tr.VideoID, Status: types.OutcomeFailed, Reason: err.Error()}
	}
}

func bonusTable(sc common.ScoringConfig) candidates.BonusTable {
	table := candidates.DefaultBonusTable()
	if sc.BaseScore > 0 {
		table.Base = sc.BaseScore
	}
	if sc.LengthBonus > 0 {
		table.Length = sc.LengthBonus
	}
	if sc.DurationBonus > 0 {
		table.Duration = sc.DurationBonus
	}
	if len(sc.PatternBonus) > 0 {
		table.Pattern = make(map[types.PatternTag]float64, len(sc.PatternBonus))
		for tag, bonus := range sc.PatternBonus {
			table.Pattern[types.PatternTag(tag)] = bonus
		}
	}
	return table
}
