package scraper

import (
	"context"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/phenrril/petalkids/internal/domain"
)

var (
	spaces   = regexp.MustCompile(`\s+`)
	priceRe  = regexp.MustCompile(`\d[\d,]*(?:\.\d{1,2})?`)
	material = []string{"material", "fabric", "composition"}
	care     = []string{"care", "wash"}
)

// ProductDetails reads name, description, price and the attribute table of a
// product page, together with its images.
func (s *ImageScraper) ProductDetails(ctx context.Context, pageURL string, maxImages int) (*domain.ProductDraft, error) {
	doc, _, err := s.document(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	d := &draft{domain.ProductDraft{Attributes: map[string]string{}}}

	d.Name = firstNonEmpty(
		metaContent(doc, `meta[property="og:title"]`),
		clean(doc.Find("h1").First().Text()),
		clean(doc.Find("title").First().Text()),
	)
	d.Description = firstNonEmpty(
		metaContent(doc, `meta[property="og:description"]`),
		metaContent(doc, `meta[name="description"]`),
	)
	if p := firstNonEmpty(
		metaContent(doc, `meta[property="product:price:amount"]`),
		metaContent(doc, `meta[property="og:price:amount"]`),
		clean(doc.Find(`[itemprop="price"]`).First().AttrOr("content", "")),
		clean(doc.Find(".price").First().Text()),
	); p != "" {
		d.Price = parsePrice(p)
	}

	doc.Find("table tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("th, td")
		if cells.Length() >= 2 {
			d.addAttribute(cells.First().Text(), cells.Eq(1).Text())
		}
	})
	doc.Find("dl").Each(func(_ int, dl *goquery.Selection) {
		dl.Find("dt").Each(func(_ int, dt *goquery.Selection) {
			d.addAttribute(dt.Text(), dt.NextFiltered("dd").Text())
		})
	})

	// The page was fetched once already; images come from a second pass so
	// the ordering rules stay in one place.
	imgs, err := s.PageImages(ctx, pageURL, maxImages)
	if err == nil {
		d.Images = imgs
	} else {
		d.Images = []string{}
	}
	return &d.ProductDraft, nil
}

type draft struct {
	domain.ProductDraft
}

func (d *draft) addAttribute(label, value string) {
	label, value = clean(label), clean(value)
	if label == "" || value == "" {
		return
	}
	label = strings.TrimSuffix(label, ":")
	if _, exists := d.Attributes[label]; !exists {
		d.Attributes[label] = value
	}
	l := strings.ToLower(label)
	if d.Materials == "" && containsAny(l, material) {
		d.Materials = value
	}
	if d.Care == "" && containsAny(l, care) {
		d.Care = value
	}
}

func metaContent(doc *goquery.Document, selector string) string {
	return clean(doc.Find(selector).First().AttrOr("content", ""))
}

func clean(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func containsAny(s string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func parsePrice(s string) *decimal.Decimal {
	m := priceRe.FindString(s)
	if m == "" {
		return nil
	}
	v, err := decimal.NewFromString(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return nil
	}
	return &v
}
