// Package file stores each player's user state as one JSON document on disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/osse101/cosmetics/internal/domain"
	"github.com/osse101/cosmetics/internal/repository"
)

// DefaultKey names the directory that holds the documents
const DefaultKey = "avatar_user_state_v1"

const (
	fileExt     = ".json"
	dirPerm     = 0o755
	filePerm    = 0o644
	tempPattern = ".state-*.tmp"
)

// Store writes <dir>/<key>/<escaped player id>.json. Saves are serialized so
// the revision check and the rename happen as one step within the process.
type Store struct {
	root string
	mu   sync.Mutex
}

// NewStore creates the key directory under dir. An empty key uses DefaultKey.
func NewStore(dir, key string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("storage directory is required")
	}
	if strings.TrimSpace(key) == "" {
		key = DefaultKey
	}
	root := filepath.Join(filepath.Clean(dir), key)
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	return &Store{root: root}, nil
}

// For returns the view of a single player's document
func (s *Store) For(playerID string) repository.UserState {
	return &document{store: s, path: filepath.Join(s.root, url.PathEscape(playerID)+fileExt)}
}

type document struct {
	store *Store
	path  string
}

func (d *document) Load(ctx context.Context) (domain.UserState, error) {
	if err := ctx.Err(); err != nil {
		return domain.NewUserState(), err
	}
	data, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.NewUserState(), nil
	}
	if err != nil {
		return domain.NewUserState(), fmt.Errorf("read user state: %w", err)
	}
	return repository.UnmarshalUserState(data)
}

// Save writes to a temp file in the same directory and renames it over the
// target so readers never observe a partial document.
func (d *document) Save(ctx context.Context, state domain.UserState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := repository.MarshalUserState(state)
	if err != nil {
		return err
	}

	d.store.mu.Lock()
	defer d.store.mu.Unlock()

	current, err := os.ReadFile(d.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read user state: %w", err)
	}
	if err := repository.CheckRevision(current, state); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), tempPattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write user state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("replace user state: %w", err)
	}
	return nil
}
