// Package storage keeps uploaded photo files under a single root directory
// and refuses to resolve paths that would escape it.
package storage

import (
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"artschool-backend/pkg/apierror"
)

type Storage struct {
	rootAbs string
}

func New(root string) (*Storage, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("storage root cannot be empty")
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}

	if err := os.MkdirAll(rootAbs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &Storage{rootAbs: rootAbs}, nil
}

func (s *Storage) RootAbs() string {
	return s.rootAbs
}

// Resolve maps a stored relative path to an absolute one inside the root.
func (s *Storage) Resolve(storedPath string) (string, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(storedPath), `\`, "/")
	if normalized == "" || normalized == "/" {
		return s.rootAbs, nil
	}

	if strings.Contains(normalized, "\x00") || hasControlCharacters(normalized) {
		return "", apierror.New("INVALID_PATH", "path contains invalid characters", storedPath, http.StatusBadRequest)
	}

	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return "", apierror.New("PATH_TRAVERSAL", "path traversal attempt detected", storedPath, http.StatusForbidden)
		}
	}

	cleanRel := filepath.Clean(strings.TrimPrefix(normalized, "/"))
	if cleanRel == "." {
		return s.rootAbs, nil
	}

	resolved, err := filepath.Abs(filepath.Join(s.rootAbs, cleanRel))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	if !isWithinRoot(s.rootAbs, resolved) {
		return "", apierror.New("PATH_TRAVERSAL", "resolved path is outside storage root", storedPath, http.StatusForbidden)
	}

	return resolved, nil
}

func (s *Storage) Stat(storedPath string) (fs.FileInfo, error) {
	resolved, err := s.Resolve(storedPath)
	if err != nil {
		return nil, err
	}

	return os.Stat(resolved)
}

func (s *Storage) OpenForRead(storedPath string) (*os.File, error) {
	resolved, err := s.Resolve(storedPath)
	if err != nil {
		return nil, err
	}

	return os.Open(resolved)
}

func (s *Storage) OpenForWrite(storedPath string) (*os.File, error) {
	resolved, err := s.Resolve(storedPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("create parent directory: %w", err)
	}

	return os.OpenFile(resolved, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
}

func (s *Storage) Remove(storedPath string) error {
	resolved, err := s.Resolve(storedPath)
	if err != nil {
		return err
	}

	if err := os.Remove(resolved); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %q: %w", storedPath, err)
	}

	return nil
}

func hasControlCharacters(value string) bool {
	for _, char := range value {
		if unicode.IsControl(char) {
			return true
		}
	}

	return false
}

func isWithinRoot(rootAbs string, candidateAbs string) bool {
	if candidateAbs == rootAbs {
		return true
	}

	return strings.HasPrefix(candidateAbs, rootAbs+string(filepath.Separator))
}
