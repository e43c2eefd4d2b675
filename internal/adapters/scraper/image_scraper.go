package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var ErrTooLarge = errors.New("remote file too large")

// ImageScraper pulls product imagery and copy from supplier product pages.
type ImageScraper struct {
	client   *http.Client
	maxBytes int64
}

func NewImageScraper() *ImageScraper {
	return &ImageScraper{
		client:   &http.Client{Timeout: 20 * time.Second},
		maxBytes: 15 << 20,
	}
}

func (s *ImageScraper) document(ctx context.Context, pageURL string) (*goquery.Document, *url.URL, error) {
	base, err := url.Parse(pageURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, nil, fmt.Errorf("invalid page url %q", pageURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base.String(), nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("status code: %d", resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, s.maxBytes))
	if err != nil {
		return nil, nil, err
	}
	return doc, base, nil
}

var imgInScript = regexp.MustCompile(`"(https?://[^"]+\.(?:jpg|jpeg|png|webp)[^"]*)"`)

// PageImages returns up to max absolute image URLs found on a product page:
// Open Graph images first, then gallery <img> tags, then URLs embedded in
// inline JSON. Logos, icons and tracking pixels are skipped.
func (s *ImageScraper) PageImages(ctx context.Context, pageURL string, max int) ([]string, error) {
	if max <= 0 {
		max = 6
	}
	if max > 20 {
		max = 20
	}
	doc, base, err := s.document(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	images := []string{}
	add := func(raw string) {
		if len(images) >= max {
			return
		}
		abs := resolve(base, raw)
		if abs == "" || seen[abs] || !usefulImage(abs) {
			return
		}
		seen[abs] = true
		images = append(images, abs)
	}

	doc.Find(`meta[property="og:image"], meta[name="twitter:image"]`).Each(func(_ int, sel *goquery.Selection) {
		if c, ok := sel.Attr("content"); ok {
			add(c)
		}
	})
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		for _, attr := range []string{"data-zoom-image", "data-src", "src"} {
			if v, ok := sel.Attr(attr); ok && strings.TrimSpace(v) != "" {
				add(v)
				return
			}
		}
	})
	doc.Find(`script[type="application/ld+json"], script`).Each(func(_ int, sel *goquery.Selection) {
		for _, m := range imgInScript.FindAllStringSubmatch(sel.Text(), -1) {
			add(m[1])
		}
	})

	log.Info().Str("page", pageURL).Int("found", len(images)).Msg("page images scraped")
	return images, nil
}

// Download fetches a remote file, refusing anything over the size limit.
func (s *ImageScraper) Download(ctx context.Context, fileURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("status code: %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBytes+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > s.maxBytes {
		return nil, "", ErrTooLarge
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return data, ct, nil
}

func resolve(base *url.URL, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "data:") {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	abs := base.ResolveReference(u)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}

func usefulImage(u string) bool {
	l := strings.ToLower(u)
	for _, bad := range []string{"logo", "icon", "sprite", "pixel", "favicon", ".svg", ".gif"} {
		if strings.Contains(l, bad) {
			return false
		}
	}
	return true
}
