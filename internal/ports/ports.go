// Package ports declares the capability seams between the engine and
// the outside world. Adapters live under ports/adapters; the engine
// only ever sees these interfaces.
package ports

import (
	"context"

	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

// Oracle is the stage-2 judgment provider. Implementations are
// stateless per call: every request carries the full context the
// oracle needs, and a retried request is byte-identical to the first.
type Oracle interface {
	// Name identifies the provider in logs ("ollama", "claude", ...).
	Name() string

	// Judge scores one candidate across the seven dimensions. The
	// response shape is NOT trusted; the caller validates it.
	Judge(ctx context.Context, req types.OracleRequest) (types.OracleResponse, error)
}

// Store persists engine state between runs: cached video maps, emitted
// clips, batch records and the set of already-processed videos.
type Store interface {
	VideoMap(videoID string) (types.VideoMap, bool, error)
	PutVideoMap(vm types.VideoMap) error

	Processed(videoID string) (bool, error)
	MarkProcessed(videoID string) error

	Clips() ([]types.SelectedClip, error)
	PutClips(clips []types.SelectedClip) error
	DeleteClip(key types.ClipKey) error

	PutBatch(b types.Batch) error

	Close() error
}
