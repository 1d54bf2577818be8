package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Compile-time interface check.
var _ Store = (*FileStore)(nil)

// FileStore is a [Store] that keeps one YAML file per character under a
// directory. It is the default storage backend when no database is
// configured.
type FileStore struct {
	dir string

	// mu serialises writes; reads go straight to disk.
	mu sync.Mutex
}

// NewFileStore returns a [FileStore] rooted at dir, creating the directory
// if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("profile: create store dir %q: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Get implements [Store.Get].
func (s *FileStore) Get(ctx context.Context, character string) (*Profile, error) {
	f, err := os.Open(s.path(character))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("profile: open %q: %w", character, err)
	}
	defer f.Close()

	p, err := decodeProfile(f)
	if err != nil {
		return nil, fmt.Errorf("profile: parse %q: %w", character, err)
	}
	return p, nil
}

// Save implements [Store.Save]. The file is written atomically via a
// temp-file rename.
func (s *FileStore) Save(ctx context.Context, p *Profile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("profile: encode %q: %w", p.Character, err)
	}

	tmp, err := os.CreateTemp(s.dir, "profile-*.yaml")
	if err != nil {
		return fmt.Errorf("profile: temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("profile: write %q: %w", p.Character, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("profile: close temp: %w", err)
	}
	if err := os.Rename(tmpName, s.path(p.Character)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("profile: save %q: %w", p.Character, err)
	}
	return nil
}

// List implements [Store.List].
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("profile: list: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

// Delete implements [Store.Delete].
func (s *FileStore) Delete(ctx context.Context, character string) error {
	err := os.Remove(s.path(character))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("profile: delete %q: %w", character, err)
	}
	return nil
}

func (s *FileStore) path(character string) string {
	return filepath.Join(s.dir, encodeFileName(character)+".yaml")
}

// encodeFileName makes a character name filesystem-safe. Characters in
// Project Gorgon names are alphanumeric, but uploads cannot be trusted.
func encodeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

// decodeProfile parses a profile from YAML, rejecting unknown keys so
// hand-edited files fail loudly rather than silently dropping state.
func decodeProfile(r io.Reader) (*Profile, error) {
	var p Profile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode profile yaml: %w", err)
	}
	return &p, nil
}
