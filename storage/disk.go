package storage

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DiskStore keeps objects as files under a root directory, served publicly
// at baseURL. The default backend for single-node deployments.
type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore creates the root directory if needed. baseURL is the absolute
// prefix objects are served under, e.g. "http://localhost:8080/uploads".
func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{
		root:    root,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// path rejects keys that would escape the root directory.
func (s *DiskStore) path(key string) (string, error) {
	clean := filepath.Clean(key)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", ErrObjectNotFound
	}
	return filepath.Join(s.root, clean), nil
}

func (s *DiskStore) Upload(_ context.Context, key string, data []byte, _ string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	// O_EXCL makes the non-overwrite contract atomic under concurrent uploads.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrObjectExists
		}
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *DiskStore) Get(_ context.Context, key string) ([]byte, string, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", err
	}
	return data, http.DetectContentType(data), nil
}

func (s *DiskStore) Remove(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrObjectNotFound
		}
		return err
	}
	return nil
}

func (s *DiskStore) PublicURL(key string) string {
	return s.baseURL + "/" + key
}

func (s *DiskStore) KeyFromPublicURL(url string) string {
	key, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return ""
	}
	return key
}
