// Package scoring is stage 2: each shortlisted candidate goes to the
// judgment oracle for seven independent dimension scores, which are
// combined into the composite that drives selection. Oracle failures
// cost the candidate, never the video.
package scoring

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/phuslu/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/srinivastejavt/podcast-clipper/internal/ports"
	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

type Config struct {
	Weights           types.DimensionWeights
	MaxAttempts       int
	Timeout           time.Duration
	Concurrency       int64
	RequestsPerMinute float64
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.Timeout <= 0 {
		c.Timeout = 90 * time.Second
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.RequestsPerMinute <= 0 {
		c.RequestsPerMinute = 30
	}
	return c
}

// Composite folds the seven dimensions into one score. Pure arithmetic:
// the weights come from configuration and are applied as-is.
func Composite(d types.DimensionScores, w types.DimensionWeights) float64 {
	return d.Hook*w.Hook +
		d.Novelty*w.Novelty +
		d.Opinion*w.Opinion +
		d.ValueDensity*w.ValueDensity +
		d.Shareability*w.Shareability +
		d.ContextCompleteness*w.ContextCompleteness +
		d.PersonaFit*w.PersonaFit
}

// Scorer fans candidates out to the oracle under a concurrency cap and
// a request-rate budget shared across all videos in the run.
type Scorer struct {
	oracle   ports.Oracle
	cfg      Config
	sem      *semaphore.Weighted
	limiter  *rate.Limiter
	validate *validator.Validate
	logger   log.Logger
}

func NewScorer(oracle ports.Oracle, cfg Config, logger log.Logger) *Scorer {
	cfg = cfg.withDefaults()
	return &Scorer{
		oracle:   oracle,
		cfg:      cfg,
		sem:      semaphore.NewWeighted(cfg.Concurrency),
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerMinute/60.0), 1),
		validate: validator.New(),
		logger:   logger,
	}
}

// ScoreAll judges every candidate and returns the survivors in the
// original order. A candidate whose judgment fails after all attempts
// is dropped with a logged reason. The only error returned is context
// cancellation, in which case no partial result is returned.
func (s *Scorer) ScoreAll(ctx context.Context, tr types.Transcript, vm types.VideoMap, cands []types.Candidate) ([]types.ScoredCandidate, error) {
	if len(cands) == 0 {
		return nil, nil
	}

	results := make([]*types.ScoredCandidate, len(cands))
	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for i := range cands {
			if err := s.sem.Acquire(ctx, 1); err != nil {
				break
			}
			wg.Add(1)
			go func(i int) {
				defer s.sem.Release(1)
				defer wg.Done()
				sc, err := s.scoreOne(ctx, tr, vm, cands[i])
				if err != nil {
					s.logger.Warn().
						Str("video_id", cands[i].VideoID).
						Float64("start", cands[i].Start).
						Err(err).
						Msg("candidate dropped: oracle judgment failed")
					return
				}
				results[i] = &sc
			}(i)
		}
		wg.Wait()
	}()

	// On cancellation the in-flight calls are abandoned, not awaited;
	// they release their semaphore slots as they unwind.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []types.ScoredCandidate
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

// scoreOne retries the oracle up to the attempt cap. Every attempt
// sends the identical request: the oracle call is stateless, so a
// retry after a malformed response is a fresh roll, not a repair.
func (s *Scorer) scoreOne(ctx context.Context, tr types.Transcript, vm types.VideoMap, c types.Candidate) (types.ScoredCandidate, error) {
	req := buildRequest(tr, vm, c)

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return types.ScoredCandidate{}, err
		}
		resp, err := s.judge(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return types.ScoredCandidate{}, ctx.Err()
			}
			lastErr = err
			s.logger.Debug().
				Str("provider", s.oracle.Name()).
				Int("attempt", attempt).
				Err(err).
				Msg("oracle attempt failed")
			continue
		}
		return types.ScoredCandidate{
			Candidate:  c,
			Dimensions: resp.Dimensions,
			Composite:  Composite(resp.Dimensions, s.cfg.Weights),
			Rationale:  resp.Rationale,
		}, nil
	}
	return types.ScoredCandidate{}, fmt.Errorf("after %d attempts: %w", s.cfg.MaxAttempts, lastErr)
}

func (s *Scorer) judge(ctx context.Context, req types.OracleRequest) (types.OracleResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	resp, err := s.oracle.Judge(callCtx, req)
	if err != nil {
		return types.OracleResponse{}, fmt.Errorf("%w: %v", types.ErrOracleUnavailable, err)
	}
	if err := s.validate.Struct(resp); err != nil {
		return types.OracleResponse{}, fmt.Errorf("%w: %v", types.ErrMalformedResponse, err)
	}
	return resp, nil
}

func buildRequest(tr types.Transcript, vm types.VideoMap, c types.Candidate) types.OracleRequest {
	req := types.OracleRequest{
		VideoID:       c.VideoID,
		ChannelName:   tr.ChannelName,
		VideoTitle:    tr.VideoTitle,
		CandidateText: c.SourceText,
		QuotableLine:  c.QuotableLine,
		Start:         c.Start,
		End:           c.End,
		Pattern:       c.Pattern,
	}
	if c.ChapterIdx >= 0 && c.ChapterIdx < len(vm.Chapters) {
		req.ChapterTitle = vm.Chapters[c.ChapterIdx].Title
	}
	for _, cl := range vm.Claims {
		if cl.ChapterIdx == c.ChapterIdx && (cl.End <= c.Start || cl.Start >= c.End) {
			req.NeighborClaims = append(req.NeighborClaims, cl.Text)
		}
	}
	return req
}
