package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const productPage = `<!doctype html>
<html><head>
<title>Rose Gown | Supplier</title>
<meta property="og:title" content="Rose  Gown">
<meta property="og:description" content="Layered tulle gown for parties.">
<meta property="og:image" content="/media/rose-front.jpg">
<meta property="product:price:amount" content="₹1,299.00">
</head><body>
<img src="/static/logo.png">
<img data-src="https://cdn.example.com/rose-back.jpg">
<img src="/media/rose-front.jpg">
<img src="data:image/png;base64,AAAA">
<table>
  <tr><th>Fabric:</th><td>Cotton lining, polyester tulle</td></tr>
  <tr><td>Wash care</td><td>Hand wash cold</td></tr>
</table>
<dl><dt>Fit</dt><dd>Regular</dd></dl>
<script>var gallery = {"zoom": "https://cdn.example.com/rose-zoom.webp?v=2"};</script>
</body></html>`

func newSite(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/p/rose":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, productPage)
		case "/big.jpg":
			w.Write([]byte(strings.Repeat("x", 64)))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPageImages(t *testing.T) {
	srv := newSite(t)
	s := NewImageScraper()

	imgs, err := s.PageImages(context.Background(), srv.URL+"/p/rose", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{
		srv.URL + "/media/rose-front.jpg",
		"https://cdn.example.com/rose-back.jpg",
		"https://cdn.example.com/rose-zoom.webp?v=2",
	}, imgs)

	imgs, err = s.PageImages(context.Background(), srv.URL+"/p/rose", 1)
	require.NoError(t, err)
	assert.Len(t, imgs, 1)
}

func TestPageImages_Errors(t *testing.T) {
	srv := newSite(t)
	s := NewImageScraper()

	_, err := s.PageImages(context.Background(), "ftp://example.com/x", 3)
	assert.Error(t, err)
	_, err = s.PageImages(context.Background(), srv.URL+"/missing", 3)
	assert.Error(t, err)
}

func TestProductDetails(t *testing.T) {
	srv := newSite(t)
	d, err := NewImageScraper().ProductDetails(context.Background(), srv.URL+"/p/rose", 5)
	require.NoError(t, err)

	assert.Equal(t, "Rose Gown", d.Name)
	assert.Equal(t, "Layered tulle gown for parties.", d.Description)
	require.NotNil(t, d.Price)
	assert.Equal(t, "1299", d.Price.String())
	assert.Equal(t, "Cotton lining, polyester tulle", d.Materials)
	assert.Equal(t, "Hand wash cold", d.Care)
	assert.Equal(t, "Regular", d.Attributes["Fit"])
	assert.Len(t, d.Images, 3)
}

func TestDownload(t *testing.T) {
	srv := newSite(t)
	s := NewImageScraper()

	data, _, err := s.Download(context.Background(), srv.URL+"/big.jpg")
	require.NoError(t, err)
	assert.Len(t, data, 64)

	s.maxBytes = 10
	_, _, err = s.Download(context.Background(), srv.URL+"/big.jpg")
	assert.ErrorIs(t, err, ErrTooLarge)
}
