package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strconv"
	"sync"

	"placement-ats/internal/shared/storage/object"
	"placement-ats/internal/shared/util"
)

// Store keeps objects in process memory. It backs tests and OBJECT_STORE=memory.
type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
	seq     int
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{objects: make(map[string][]byte)}
}

// Save stores the reader contents under the hashed namespace.
func (s *Store) Save(ctx context.Context, namespace string, fileName string, r io.Reader) (string, int64, string, error) {
	sanitizedName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", 0, "", fmt.Errorf("sanitize file name: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", 0, "", err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", fmt.Errorf("read body: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	key := path.Join(util.HashNamespace(namespace), strconv.Itoa(s.seq)+"_"+sanitizedName)
	s.objects[key] = data
	return key, int64(len(data)), http.DetectContentType(data), nil
}

// Open returns a reader over a stored object.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	data, ok := s.objects[storageKey]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("open %s: %w", storageKey, os.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// SaveWithKey stores data at storageKey, replacing any previous object.
func (s *Store) SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read body: %w", err)
	}
	s.mu.Lock()
	s.objects[storageKey] = data
	s.mu.Unlock()
	return int64(len(data)), nil
}

var _ object.ObjectStore = (*Store)(nil)
