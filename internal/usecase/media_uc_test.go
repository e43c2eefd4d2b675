package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/petalkids/internal/domain"
)

type fakeStorage struct {
	saved map[string][]byte
}

func (f *fakeStorage) SaveImage(_ context.Context, name string, data []byte) (string, error) {
	if f.saved == nil {
		f.saved = map[string][]byte{}
	}
	f.saved[name] = data
	return "/uploads/" + name, nil
}

func (f *fakeStorage) Delete(context.Context, string) error { return nil }

type fakeScraper struct {
	draft *domain.ProductDraft
	files map[string]string
}

func (f *fakeScraper) ProductDetails(context.Context, string, int) (*domain.ProductDraft, error) {
	cp := *f.draft
	cp.Images = append([]string(nil), f.draft.Images...)
	return &cp, nil
}

func (f *fakeScraper) Download(_ context.Context, u string) ([]byte, string, error) {
	ct, ok := f.files[u]
	if !ok {
		return nil, "", errors.New("status code: 404")
	}
	return []byte("bytes"), ct, nil
}

func TestMediaUC_Upload(t *testing.T) {
	st := &fakeStorage{}
	uc := &MediaUC{Storage: st}
	ctx := context.Background()

	ref, err := uc.Upload(ctx, "frock.PNG", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/frock.PNG", ref)

	_, err = uc.Upload(ctx, "script.exe", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
	_, err = uc.Upload(ctx, "clip.mp4", nil)
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}

func TestMediaUC_Scrape(t *testing.T) {
	sc := &fakeScraper{
		draft: &domain.ProductDraft{Name: "Rose Gown", Images: []string{
			"https://cdn.example.com/a.webp?v=1",
			"https://cdn.example.com/gone.jpg",
			"https://cdn.example.com/image",
		}},
		files: map[string]string{
			"https://cdn.example.com/a.webp?v=1": "image/webp",
			"https://cdn.example.com/image":      "image/png; charset=binary",
		},
	}
	st := &fakeStorage{}
	uc := &MediaUC{Storage: st, Scraper: sc}
	ctx := context.Background()

	d, err := uc.Scrape(ctx, "https://supplier.example.com/p/1", ScrapeOptions{MaxImages: 5})
	require.NoError(t, err)
	assert.Len(t, d.Images, 3)
	assert.Empty(t, st.saved)

	d, err = uc.Scrape(ctx, "https://supplier.example.com/p/1", ScrapeOptions{MaxImages: 5, Download: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/scraped-1.webp", "/uploads/scraped-3.png"}, d.Images)
}

type fakeWriter struct {
	err   error
	calls int
}

func (f *fakeWriter) Polish(_ context.Context, d *domain.ProductDraft) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	d.Description = "Soft tulle for twirling."
	return nil
}

func TestMediaUC_ScrapePolish(t *testing.T) {
	sc := &fakeScraper{draft: &domain.ProductDraft{Name: "Rose Gown", Description: "GOWN 100% POLY"}}
	w := &fakeWriter{}
	uc := &MediaUC{Storage: &fakeStorage{}, Scraper: sc, Writer: w}
	ctx := context.Background()

	d, err := uc.Scrape(ctx, "https://supplier.example.com/p/1", ScrapeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "GOWN 100% POLY", d.Description)
	assert.Zero(t, w.calls, "polish is opt-in")

	d, err = uc.Scrape(ctx, "https://supplier.example.com/p/1", ScrapeOptions{Polish: true})
	require.NoError(t, err)
	assert.Equal(t, "Soft tulle for twirling.", d.Description)

	w.err = errors.New("rate limited")
	d, err = uc.Scrape(ctx, "https://supplier.example.com/p/1", ScrapeOptions{Polish: true})
	require.NoError(t, err, "a failed polish keeps the supplier copy")
	assert.Equal(t, "GOWN 100% POLY", d.Description)
}
