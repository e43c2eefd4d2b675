package usecase

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/petalkids/internal/domain"
)

var mediaExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
	".mp4": true, ".webm": true,
}

// PageScraper reads product copy and imagery from supplier pages.
type PageScraper interface {
	ProductDetails(ctx context.Context, pageURL string, maxImages int) (*domain.ProductDraft, error)
	Download(ctx context.Context, fileURL string) ([]byte, string, error)
}

// DraftWriter rewrites scraped supplier copy into storefront copy.
type DraftWriter interface {
	Polish(ctx context.Context, d *domain.ProductDraft) error
}

type MediaUC struct {
	Storage domain.FileStorage
	Scraper PageScraper
	Writer  DraftWriter
}

type ScrapeOptions struct {
	MaxImages int
	Download  bool
	// Polish asks the writer, when one is configured, to rewrite the copy.
	Polish bool
}

// Upload stores an image or short video and returns its public URL.
func (uc *MediaUC) Upload(ctx context.Context, name string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !mediaExt[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMedia, ext)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty file", ErrUnsupportedMedia)
	}
	return uc.Storage.SaveImage(ctx, name, data)
}

// Scrape builds a product draft from a supplier page. With Download set the
// images are copied into storage and the draft points at the local copies;
// images that fail to download are dropped. A failed polish keeps the
// supplier copy.
func (uc *MediaUC) Scrape(ctx context.Context, pageURL string, opt ScrapeOptions) (*domain.ProductDraft, error) {
	d, err := uc.Scraper.ProductDetails(ctx, pageURL, opt.MaxImages)
	if err != nil {
		return nil, err
	}
	if opt.Polish && uc.Writer != nil {
		if err := uc.Writer.Polish(ctx, d); err != nil {
			log.Warn().Err(err).Str("url", pageURL).Msg("draft copy not polished")
		}
	}
	if !opt.Download {
		return d, nil
	}
	stored := make([]string, 0, len(d.Images))
	for i, src := range d.Images {
		data, ct, err := uc.Scraper.Download(ctx, src)
		if err != nil {
			log.Warn().Err(err).Str("url", src).Msg("image download failed")
			continue
		}
		ref, err := uc.Upload(ctx, fmt.Sprintf("scraped-%d%s", i+1, extFor(src, ct)), data)
		if err != nil {
			log.Warn().Err(err).Str("url", src).Msg("image not stored")
			continue
		}
		stored = append(stored, ref)
	}
	d.Images = stored
	return d, nil
}

func extFor(src, contentType string) string {
	if i := strings.IndexAny(src, "?#"); i >= 0 {
		src = src[:i]
	}
	if ext := strings.ToLower(filepath.Ext(src)); mediaExt[ext] {
		return ext
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		switch mt {
		case "image/png":
			return ".png"
		case "image/webp":
			return ".webp"
		case "image/gif":
			return ".gif"
		}
	}
	return ".jpg"
}
