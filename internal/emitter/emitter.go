// Package emitter turns selected clips into the published batch
// document. Each run merges into the stored clip history, so the
// output file always holds every clip inside the retention window,
// deduped by (video_id, start_time).
package emitter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phuslu/log"

	"github.com/srinivastejavt/podcast-clipper/internal/common"
	"github.com/srinivastejavt/podcast-clipper/internal/domain/posts"
	"github.com/srinivastejavt/podcast-clipper/internal/ports"
	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

type Emitter struct {
	store        ports.Store
	outputPath   string
	callToAction string
	retention    time.Duration
	logger       log.Logger

	now func() time.Time
}

func New(store ports.Store, cfg common.EmitterConfig, logger log.Logger) *Emitter {
	retention := time.Duration(cfg.RetentionDays) * 24 * time.Hour
	if cfg.RetentionDays <= 0 {
		retention = 14 * 24 * time.Hour
	}
	return &Emitter{
		store:        store,
		outputPath:   cfg.OutputPath,
		callToAction: cfg.CallToAction,
		retention:    retention,
		logger:       logger,
		now:          time.Now,
	}
}

// BuildClip freezes one survivor of selection into the immutable output
// record. Everything downstream consumes this shape, nothing upstream
// sees it.
func (e *Emitter) BuildClip(tr types.Transcript, sc types.ScoredCandidate) types.SelectedClip {
	return types.SelectedClip{
		VideoID:        tr.VideoID,
		ChannelName:    tr.ChannelName,
		VideoTitle:     tr.VideoTitle,
		PublishedAt:    tr.PublishedAt,
		Start:          sc.Start,
		End:            sc.End,
		Score:          sc.Composite,
		Pattern:        sc.Pattern,
		Rationale:      sc.Rationale,
		QuotableLine:   sc.QuotableLine,
		FullPostText:   posts.Caption(tr.ChannelName, sc.QuotableLine, e.callToAction),
		TranscriptText: sc.SourceText,
		YouTubeURL:     fmt.Sprintf("https://www.youtube.com/watch?v=%s&t=%ds", tr.VideoID, int(sc.Start)),
		ThumbnailURL:   tr.ThumbnailURL,
		CreatedAt:      e.now().UTC().Format(time.RFC3339),
	}
}

// Emit merges the new clips into the stored history, prunes expired
// clips, persists the batch record and writes the output document.
func (e *Emitter) Emit(clips []types.SelectedClip) (types.Batch, error) {
	if err := e.store.PutClips(clips); err != nil {
		return types.Batch{}, fmt.Errorf("persist clips: %w", err)
	}

	stored, err := e.store.Clips()
	if err != nil {
		return types.Batch{}, fmt.Errorf("load clip history: %w", err)
	}

	cutoff := e.now().UTC().Add(-e.retention)
	retained := stored[:0]
	for _, c := range stored {
		if e.expired(c, cutoff) {
			if err := e.store.DeleteClip(c.Key()); err != nil {
				return types.Batch{}, err
			}
			e.logger.Debug().Str("video_id", c.VideoID).Float64("start", c.Start).Msg("clip expired")
			continue
		}
		retained = append(retained, c)
	}

	sort.SliceStable(retained, func(i, j int) bool {
		if retained[i].VideoID != retained[j].VideoID {
			return retained[i].VideoID < retained[j].VideoID
		}
		return retained[i].Start < retained[j].Start
	})

	batch := types.Batch{
		ID: uuid.NewString(),
		Metadata: types.BatchMetadata{
			GeneratedAt: e.now().UTC().Format(time.RFC3339),
			TotalClips:  len(retained),
			Channels:    channelNames(retained),
		},
		Clips: retained,
	}

	if err := e.store.PutBatch(batch); err != nil {
		return types.Batch{}, fmt.Errorf("persist batch: %w", err)
	}
	if err := e.writeDocument(batch); err != nil {
		return types.Batch{}, err
	}

	e.logger.Info().
		Str("batch_id", batch.ID).
		Int("total_clips", batch.Metadata.TotalClips).
		Str("output", e.outputPath).
		Msg("batch emitted")
	return batch, nil
}

// expired treats an unparseable timestamp as expired: a record we
// cannot age is a record we cannot keep honestly.
func (e *Emitter) expired(c types.SelectedClip, cutoff time.Time) bool {
	created, err := time.Parse(time.RFC3339, c.CreatedAt)
	if err != nil {
		return true
	}
	return created.Before(cutoff)
}

func (e *Emitter) writeDocument(batch types.Batch) error {
	if e.outputPath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(e.outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}
	data = append(data, '\n')

	// Write through a temp file so a crash never leaves a torn document.
	tmp := e.outputPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write batch: %w", err)
	}
	if err := os.Rename(tmp, e.outputPath); err != nil {
		return fmt.Errorf("replace batch document: %w", err)
	}
	return nil
}

func channelNames(clips []types.SelectedClip) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range clips {
		if c.ChannelName == "" || seen[c.ChannelName] {
			continue
		}
		seen[c.ChannelName] = true
		out = append(out, c.ChannelName)
	}
	sort.Strings(out)
	return out
}
