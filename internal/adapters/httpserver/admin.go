package httpserver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/petalkids/internal/adapters/report"
	"github.com/phenrril/petalkids/internal/catalog"
	"github.com/phenrril/petalkids/internal/domain"
	"github.com/phenrril/petalkids/internal/usecase"
)

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// refreshCatalog republishes the storefront snapshot after a product write.
func (s *Server) refreshCatalog(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	s.catalog.Refresh(ctx)
}

func (s *Server) adminListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := s.products.ListProducts(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) adminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := decodeJSON(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.products.Create(r.Context(), &p); err != nil {
		s.fail(w, r, err)
		return
	}
	s.refreshCatalog(r.Context())
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) adminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := decodeJSON(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.products.Update(r.Context(), chi.URLParam(r, "id"), &p); err != nil {
		s.fail(w, r, err)
		return
	}
	s.refreshCatalog(r.Context())
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) adminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.products.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err)
		return
	}
	s.refreshCatalog(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// adminImportProducts accepts a JSON array of product documents, an XLSX body,
// or either of them as the "file" field of a multipart form.
func (s *Server) adminImportProducts(w http.ResponseWriter, r *http.Request) {
	data, kind, err := readImportBody(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var (
		products []domain.Product
		problems []string
	)
	switch kind {
	case "xlsx":
		products, problems, err = report.ParseProductsXLSX(data)
	default:
		products, err = catalog.DecodeProducts(data)
	}
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	rep, err := s.products.Import(r.Context(), products)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rep.Failed += len(problems)
	rep.Errors = append(problems, rep.Errors...)
	s.refreshCatalog(r.Context())
	log.Info().Int("created", rep.Created).Int("updated", rep.Updated).Int("failed", rep.Failed).Msg("product import")
	writeJSON(w, http.StatusOK, rep)
}

func readImportBody(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadBody); err != nil {
			return nil, "", fmt.Errorf("%w: %v", errBadRequest, err)
		}
		f, fh, err := r.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("%w: file field is required", errBadRequest)
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, "", err
		}
		kind := "json"
		if strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx") {
			kind = "xlsx"
		}
		return data, kind, nil
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUploadBody))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if mt == xlsxType || bytes.HasPrefix(data, []byte("PK")) {
		return data, "xlsx", nil
	}
	return data, "json", nil
}

func (s *Server) adminReplaceCollection(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductIDs []string `json:"productIds"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	list, err := s.collections.Replace(r.Context(), chi.URLParam(r, "name"), req.ProductIDs)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) adminListDiscounts(w http.ResponseWriter, r *http.Request) {
	list, err := s.discounts.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) adminSaveDiscount(w http.ResponseWriter, r *http.Request) {
	var d domain.DiscountCode
	if err := decodeJSON(w, r, &d); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.discounts.Save(r.Context(), &d); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) adminDeleteDiscount(w http.ResponseWriter, r *http.Request) {
	if err := s.discounts.Delete(r.Context(), chi.URLParam(r, "code")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adminListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := s.orders.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) adminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status         domain.OrderStatus `json:"status"`
		TrackingNumber string             `json:"trackingNumber"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	o, err := s.orders.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status, req.TrackingNumber)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) adminExportOrders(w http.ResponseWriter, r *http.Request) {
	list, err := s.orders.List(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := report.ExportOrders(&buf, list); err != nil {
		s.fail(w, r, err)
		return
	}
	name := "orders-" + timeNow().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", "attachment; filename="+name)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) adminSaveSettings(w http.ResponseWriter, r *http.Request) {
	var in domain.SiteSettings
	if err := decodeJSON(w, r, &in); err != nil {
		s.fail(w, r, err)
		return
	}
	saved, err := s.settings.Save(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) adminSubscribers(w http.ResponseWriter, r *http.Request) {
	list, err := s.audience.Subscribers(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) adminMessages(w http.ResponseWriter, r *http.Request) {
	list, err := s.audience.Messages(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) adminUploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		s.fail(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	f, fh, err := r.FormFile("file")
	if err != nil {
		s.fail(w, r, fmt.Errorf("%w: file field is required", errBadRequest))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	url, err := s.media.Upload(r.Context(), fh.Filename, data)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (s *Server) adminScrape(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL       string `json:"url"`
		MaxImages int    `json:"maxImages"`
		Download  bool   `json:"download"`
		Polish    bool   `json:"polish"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeError(w, http.StatusBadRequest, "url is required", "url")
		return
	}
	d, err := s.media.Scrape(r.Context(), strings.TrimSpace(req.URL), usecase.ScrapeOptions{
		MaxImages: req.MaxImages,
		Download:  req.Download,
		Polish:    req.Polish,
	})
	if err != nil {
		log.Warn().Err(err).Str("url", req.URL).Msg("scrape failed")
		writeError(w, http.StatusBadGateway, "could not read that page: "+err.Error(), "url")
		return
	}
	writeJSON(w, http.StatusOK, d)
}
