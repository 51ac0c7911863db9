package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"campus-lending/internal/domain/contract"
)

var _ contract.Store = (*LocalStore)(nil)

// LocalStore writes contracts below a base directory. References are paths
// relative to that directory.
type LocalStore struct{ dir string }

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("contract dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) path(ref string) (string, error) {
	if !filepath.IsLocal(ref) {
		return "", fmt.Errorf("invalid contract reference %q", ref)
	}
	return filepath.Join(s.dir, ref), nil
}

func (s *LocalStore) Put(_ context.Context, name string, pdf []byte) (string, error) {
	p, err := s.path(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", err
	}
	// write then rename so readers never see a partial file
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, pdf, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, p); err != nil {
		return "", err
	}
	return name, nil
}

func (s *LocalStore) Get(_ context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, contract.ErrNotFound
	}
	p, err := s.path(ref)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, contract.ErrNotFound
	}
	return b, err
}

func (s *LocalStore) Delete(_ context.Context, ref string) error {
	p, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
