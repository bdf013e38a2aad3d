package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rotisserie/eris"

	"github.com/marcusziade/gpqatracker/pkg/models"
)

// ErrMalformed is returned (wrapped) by Load when the file exists but is not
// a valid store.
var ErrMalformed = errors.New("store: malformed JSON")

const lockRetryDelay = 100 * time.Millisecond

// storedRecord decodes a record while noting whether it carried a score.
// The outer Score shadows the embedded one.
type storedRecord struct {
	models.ScoreRecord
	Score *float64 `json:"score"`
}

// Read loads the store at path. A missing or malformed file is an error.
// Records without a score are dropped so they never act as a prior of zero.
func Read(path string) (models.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "store: read %s", path)
	}

	var raw map[string]storedRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrapf(ErrMalformed, "store: decode %s: %v", path, err)
	}

	s := make(models.Store, len(raw))
	for name, r := range raw {
		if r.Score == nil {
			continue
		}
		rec := r.ScoreRecord
		rec.Score = *r.Score
		s[name] = rec
	}
	return s, nil
}

// Load is the forgiving variant of Read used by the collector. It always
// returns a usable store: a missing file yields an empty store and no error,
// any other failure yields an empty store plus the error so the caller can
// log it.
func Load(path string) (models.Store, error) {
	s, err := Read(path)
	if err == nil {
		return s, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return models.Store{}, nil
	}
	return models.Store{}, err
}

// Save writes s to path as indented JSON with keys sorted. The file is
// replaced atomically; parent directories are created as needed.
func Save(path string, s models.Store) error {
	if s == nil {
		s = models.Store{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return eris.Wrap(err, "store: encode")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "store: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return eris.Wrap(err, "store: create temp file")
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return eris.Wrap(err, "store: write temp file")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "store: close temp file")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return eris.Wrap(err, "store: chmod temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return eris.Wrapf(err, "store: replace %s", path)
	}
	return nil
}

// Lock takes an exclusive advisory lock next to the store file
// (<path>.lock), waiting until it is free or ctx is done. The returned
// function releases it.
func Lock(ctx context.Context, path string) (func() error, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "store: create dir %s", dir)
	}

	fl := flock.New(path + ".lock")
	ok, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, eris.Wrapf(err, "store: lock %s", path)
	}
	if !ok {
		return nil, eris.Errorf("store: lock %s: not acquired", path)
	}
	return fl.Unlock, nil
}
