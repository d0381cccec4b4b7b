package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"

	"github.com/Mg12345-web/IA-Babix/internal/adapters/driven/storage/memory"
	"github.com/Mg12345-web/IA-Babix/internal/core/ports/driven"
)

var _ driven.ConfigStore = (*ConfigStore)(nil)

// FileName is the settings file inside the babix home.
const FileName = "config.toml"

// ConfigStore persists flat dotted keys ("chunker.size") as nested TOML
// tables. Reads are served from memory; every Set rewrites the file.
type ConfigStore struct {
	*memory.ConfigStore

	mu   sync.Mutex // serialises writes to path
	path string
}

// DefaultDir returns ~/.babix.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".babix"), nil
}

// NewConfigStore opens dir/config.toml, creating dir when needed. An empty
// dir means DefaultDir. A missing file yields an empty store.
func NewConfigStore(dir string) (*ConfigStore, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}

	path := filepath.Join(dir, FileName)
	values, err := read(path)
	if err != nil {
		return nil, err
	}
	return &ConfigStore{ConfigStore: memory.NewConfigStore(values), path: path}, nil
}

// Set stores value under key and rewrites the file.
func (s *ConfigStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ConfigStore.Set(key, value); err != nil {
		return err
	}
	return write(s.path, s.Snapshot())
}

// Path returns the settings file.
func (s *ConfigStore) Path() string { return s.path }

func read(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var tables map[string]any
	if err := toml.Unmarshal(data, &tables); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return flattenMap(tables, ""), nil
}

// write replaces path through a temporary file in the same directory, so a
// crash leaves either the old or the new settings.
func write(path string, flat map[string]any) error {
	data, err := toml.Marshal(unflattenMap(flat))
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.toml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // gone after a successful rename

	_, err = tmp.Write(data)
	if err == nil {
		err = tmp.Chmod(0o600)
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// flattenMap turns {"a": {"b": 1}} into {"a.b": 1}.
func flattenMap(m map[string]any, prefix string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if prefix != "" {
			k = prefix + "." + k
		}
		if table, ok := v.(map[string]any); ok {
			for fk, fv := range flattenMap(table, k) {
				out[fk] = fv
			}
			continue
		}
		out[k] = v
	}
	return out
}

// unflattenMap is the inverse of flattenMap. When a key is both a value and
// the prefix of a table, the value wins.
func unflattenMap(flat map[string]any) map[string]any {
	root := make(map[string]any)
	for key, value := range flat {
		parts := strings.Split(key, ".")
		node := root
		for _, part := range parts[:len(parts)-1] {
			child, ok := node[part].(map[string]any)
			if !ok {
				if _, taken := node[part]; taken {
					node = nil
					break
				}
				child = make(map[string]any)
				node[part] = child
			}
			node = child
		}
		if node != nil {
			node[parts[len(parts)-1]] = value
		}
	}
	return root
}
