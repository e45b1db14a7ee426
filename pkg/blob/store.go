package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store persists document artifacts (PDF and HTML blobs) and returns opaque
// references to them. Failed pipelines delete what they wrote, so a document
// record never points at a missing artifact.
type Store interface {
	Save(data []byte, suggestedName string) (string, error)
	Open(ref string) (io.ReadCloser, error)
	Read(ref string) ([]byte, error)
	Delete(ref string) error
}

// fileStore keeps blobs on the local filesystem under a media root.
type fileStore struct {
	root string
}

func NewFileStore(root string) (Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	return &fileStore{root: root}, nil
}

// Save writes data under the media root. When the suggested name is already
// taken, a short random suffix is inserted before the extension.
func (s *fileStore) Save(data []byte, suggestedName string) (string, error) {
	ref := filepath.ToSlash(filepath.Clean(suggestedName))
	if strings.HasPrefix(ref, "..") {
		return "", fmt.Errorf("invalid blob name: %s", suggestedName)
	}

	path := filepath.Join(s.root, filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create blob directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		ext := filepath.Ext(ref)
		ref = strings.TrimSuffix(ref, ext) + "_" + uuid.New().String()[:8] + ext
		path = filepath.Join(s.root, filepath.FromSlash(ref))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return ref, nil
}

func (s *fileStore) Open(ref string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, filepath.FromSlash(ref)))
}

func (s *fileStore) Read(ref string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.root, filepath.FromSlash(ref)))
}

func (s *fileStore) Delete(ref string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(ref)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
