// Package badger persists engine state in an embedded Badger database
// through badgerhold. One store instance owns the database for the
// lifetime of the process.
package badger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/phuslu/log"
	"github.com/timshannon/badgerhold/v4"

	"github.com/srinivastejavt/podcast-clipper/internal/ports"
	"github.com/srinivastejavt/podcast-clipper/internal/types"
)

type Store struct {
	store  *badgerhold.Store
	logger log.Logger
}

var _ ports.Store = (*Store)(nil)

// processedVideo marks a video id the engine has fully handled, so
// watch runs skip it.
type processedVideo struct {
	VideoID string
}

func Open(path string, logger log.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	logger.Debug().Str("path", path).Msg("badger store opened")
	return &Store{store: store, logger: logger}, nil
}

func (s *Store) VideoMap(videoID string) (types.VideoMap, bool, error) {
	var vm types.VideoMap
	err := s.store.Get(videoID, &vm)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return types.VideoMap{}, false, nil
	}
	if err != nil {
		return types.VideoMap{}, false, fmt.Errorf("get video map %s: %w", videoID, err)
	}
	return vm, true, nil
}

func (s *Store) PutVideoMap(vm types.VideoMap) error {
	if vm.VideoID == "" {
		return errors.New("video map has no video id")
	}
	if err := s.store.Upsert(vm.VideoID, &vm); err != nil {
		return fmt.Errorf("save video map %s: %w", vm.VideoID, err)
	}
	return nil
}

func (s *Store) Processed(videoID string) (bool, error) {
	var p processedVideo
	err := s.store.Get(videoID, &p)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup processed %s: %w", videoID, err)
	}
	return true, nil
}

func (s *Store) MarkProcessed(videoID string) error {
	if err := s.store.Upsert(videoID, &processedVideo{VideoID: videoID}); err != nil {
		return fmt.Errorf("mark processed %s: %w", videoID, err)
	}
	return nil
}

func (s *Store) Clips() ([]types.SelectedClip, error) {
	var clips []types.SelectedClip
	if err := s.store.Find(&clips, badgerhold.Where("VideoID").Ne("")); err != nil {
		return nil, fmt.Errorf("list clips: %w", err)
	}
	return clips, nil
}

func (s *Store) PutClips(clips []types.SelectedClip) error {
	for _, c := range clips {
		if err := s.store.Upsert(c.Key(), &c); err != nil {
			return fmt.Errorf("save clip %s@%.1f: %w", c.VideoID, c.Start, err)
		}
	}
	return nil
}

func (s *Store) DeleteClip(key types.ClipKey) error {
	err := s.store.Delete(key, types.SelectedClip{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete clip %s@%.1f: %w", key.VideoID, key.Start, err)
	}
	return nil
}

func (s *Store) PutBatch(b types.Batch) error {
	if b.ID == "" {
		return errors.New("batch has no id")
	}
	if err := s.store.Upsert(b.ID, &b); err != nil {
		return fmt.Errorf("save batch %s: %w", b.ID, err)
	}
	return nil
}

func (s *Store) Close() error {
	if err := s.store.Badger().RunValueLogGC(0.5); err != nil && !errors.Is(err, badgerdb.ErrNoRewrite) {
		s.logger.Debug().Err(err).Msg("value log gc skipped")
	}
	return s.store.Close()
}
