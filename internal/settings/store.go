// Package settings persists client-local configuration values as YAML
// files, one file per named key.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissing is returned by Load when nothing is stored under the key.
	ErrMissing = errors.New("setting not found")
	// ErrMalformed is returned by Load when the stored value does not parse.
	ErrMalformed = errors.New("malformed setting")
)

// Store reads and writes named values under a directory.
type Store struct {
	dir string
	log *zap.Logger
}

// NewStore returns a store rooted at dir. The directory is created on the
// first Save.
func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, log: logger.Named("settings")}
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file backing key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+".yaml")
}

// Load decodes the value stored under key into v.
func (s *Store) Load(key string, v any) error {
	data, err := os.ReadFile(s.Path(key))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", key, ErrMissing)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return fmt.Errorf("%s: empty file: %w", key, ErrMalformed)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %v: %w", key, err, ErrMalformed)
	}
	return nil
}

// Save replaces the value stored under key. The write goes to a temp file
// that is renamed into place, so readers never see a partial file.
func (s *Store) Save(key string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating settings directory: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(key)); err != nil {
		return fmt.Errorf("replacing %s: %w", key, err)
	}
	s.log.Debug("setting saved", zap.String("key", key), zap.String("path", s.Path(key)))
	return nil
}
