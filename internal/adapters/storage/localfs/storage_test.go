package localfs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, "/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := s.SaveImage(ctx, "../../Rose Gown.JPG", []byte("img"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/Rose-Gown-"), ref)
	assert.True(t, strings.HasSuffix(ref, ".jpg"), ref)

	name := strings.TrimPrefix(ref, "/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))

	require.NoError(t, s.Delete(ctx, ref))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))

	// deleting twice, or something we never stored, is not an error
	assert.NoError(t, s.Delete(ctx, ref))
	assert.NoError(t, s.Delete(ctx, "https://elsewhere.example.com/x.jpg"))
}

func TestSaveImage_Empty(t *testing.T) {
	s, err := New(t.TempDir(), "")
	require.NoError(t, err)
	_, err = s.SaveImage(context.Background(), "a.png", nil)
	assert.Error(t, err)
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"":                 "file",
		"a/b/c.png":        "c.png",
		"..\\..\\evil.gif": "evil.gif",
		"frock (2).webp":   "frock--2-.webp",
		".hidden":          "hidden",
	}
	for in, want := range cases {
		assert.Equal(t, want, sanitizeFileName(in), in)
	}
}
