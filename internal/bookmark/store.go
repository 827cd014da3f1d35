package bookmark

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/renameio/v2"

	"github.com/axleware/logframe/internal/errors"
)

// Store persists bookmarks under a directory, one file per stable key,
// so a crash between write() and the next read never leaves a bookmark
// half-written: Save always lands via a temp-file-then-rename, and
// concurrent writers to the same key serialize through a flock.
type Store struct {
	Dir string
}

// NewStore returns a Store rooted at dir, creating it if necessary.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.KindIO, err, "creating bookmark directory")
	}
	return &Store{Dir: dir}, nil
}

func (s *Store) pathFor(key string) string {
	return filepath.Join(s.Dir, key+".bookmark")
}

func (s *Store) lockPathFor(key string) string {
	return filepath.Join(s.Dir, key+".lock")
}

// Save writes b under key atomically: the new content either fully
// replaces the old file, or the old file is left untouched, never a
// torn write a concurrent reader could observe.
func (s *Store) Save(key string, b Bookmark) error {
	lock := flock.New(s.lockPathFor(key))
	if err := lock.Lock(); err != nil {
		return errors.Wrap(errors.KindIO, err, "locking bookmark for write")
	}
	defer lock.Unlock()

	data, err := Marshal(b)
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(s.pathFor(key), data, 0o644); err != nil {
		return errors.Wrap(errors.KindIO, err, "writing bookmark atomically")
	}
	return nil
}

// Load reads the bookmark for key, returning (Bookmark{}, false, nil)
// if no bookmark has ever been saved for it (a first run, not an error).
func (s *Store) Load(key string) (Bookmark, bool, error) {
	lock := flock.New(s.lockPathFor(key))
	if err := lock.RLock(); err != nil {
		return Bookmark{}, false, errors.Wrap(errors.KindIO, err, "locking bookmark for read")
	}
	defer lock.Unlock()

	data, err := os.ReadFile(s.pathFor(key))
	if err != nil {
		if os.IsNotExist(err) {
			return Bookmark{}, false, nil
		}
		return Bookmark{}, false, errors.Wrap(errors.KindIO, err, "reading bookmark")
	}
	b, err := Unmarshal(data)
	if err != nil {
		return Bookmark{}, false, err
	}
	return b, true, nil
}
