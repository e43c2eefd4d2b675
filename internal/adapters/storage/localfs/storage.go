package localfs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Storage keeps media on the local disk and serves it under a public prefix.
type Storage struct {
	dir       string
	publicURL string
}

func New(dir, publicURL string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	if publicURL == "" {
		publicURL = "/uploads"
	}
	return &Storage{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func (s *Storage) Dir() string { return s.dir }

// SaveImage writes data under a collision-free name derived from name and
// returns the public URL of the stored file.
func (s *Storage) SaveImage(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty file")
	}
	base := sanitizeFileName(name)
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if len(stem) > 40 {
		stem = stem[:40]
	}
	final := stem + "-" + uuid.NewString()[:8] + ext

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, final)); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return s.publicURL + "/" + final, nil
}

// Delete removes a file previously returned by SaveImage. References outside
// the public prefix are ignored.
func (s *Storage) Delete(ctx context.Context, ref string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !strings.HasPrefix(ref, s.publicURL+"/") {
		return nil
	}
	name := path.Base(strings.TrimPrefix(ref, s.publicURL+"/"))
	if name == "." || name == "/" || strings.HasPrefix(name, ".") {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "" || name == "." || name == "/" {
		return "file"
	}
	mapped := strings.Map(func(r rune) rune {
		if r == '.' || r == '-' || r == '_' || unicode.IsDigit(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return '-'
	}, name)
	mapped = strings.TrimLeft(mapped, ".-")
	if mapped == "" {
		return "file"
	}
	return mapped
}
