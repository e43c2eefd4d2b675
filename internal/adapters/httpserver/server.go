package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/phenrril/petalkids/internal/cart"
	"github.com/phenrril/petalkids/internal/catalog"
	"github.com/phenrril/petalkids/internal/checkout"
	"github.com/phenrril/petalkids/internal/discount"
	"github.com/phenrril/petalkids/internal/domain"
	"github.com/phenrril/petalkids/internal/settings"
	"github.com/phenrril/petalkids/internal/usecase"
)

const (
	maxJSONBody   = 1 << 20
	maxUploadBody = 32 << 20
)

// Options carries everything the HTTP layer depends on.
type Options struct {
	Products    *usecase.ProductUC
	Orders      *usecase.OrderUC
	Discounts   *usecase.DiscountUC
	Audience    *usecase.AudienceUC
	Collections *usecase.CollectionUC
	Media       *usecase.MediaUC

	Catalog  *catalog.Store
	Settings *settings.Provider
	Resolver *discount.Resolver
	Cart     *cart.Codec

	OAuth        *oauth2.Config
	AdminUser    string
	AdminPass    string
	AdminSecret  string
	AdminAllowed []string
	AdminTTL     time.Duration
	SecureCookie bool

	CORSOrigins    []string
	UploadsDir     string
	UploadsPrefix  string
	RequestTimeout time.Duration
}

type Server struct {
	r chi.Router

	products    *usecase.ProductUC
	orders      *usecase.OrderUC
	discounts   *usecase.DiscountUC
	audience    *usecase.AudienceUC
	collections *usecase.CollectionUC
	media       *usecase.MediaUC

	catalog  *catalog.Store
	settings *settings.Provider
	resolver *discount.Resolver
	cart     *cart.Codec

	oauthCfg     *oauth2.Config
	userInfoURL  string
	adminUser    string
	adminPass    string
	adminSecret  []byte
	adminAllowed map[string]struct{}
	adminTTL     time.Duration
	secureCookie bool
}

func New(o Options) http.Handler {
	s := &Server{
		r:            chi.NewRouter(),
		products:     o.Products,
		orders:       o.Orders,
		discounts:    o.Discounts,
		audience:     o.Audience,
		collections:  o.Collections,
		media:        o.Media,
		catalog:      o.Catalog,
		settings:     o.Settings,
		resolver:     o.Resolver,
		cart:         o.Cart,
		oauthCfg:     o.OAuth,
		userInfoURL:  "https://www.googleapis.com/oauth2/v3/userinfo",
		adminUser:    o.AdminUser,
		adminPass:    o.AdminPass,
		adminSecret:  []byte(o.AdminSecret),
		adminAllowed: map[string]struct{}{},
		adminTTL:     o.AdminTTL,
		secureCookie: o.SecureCookie,
	}
	for _, e := range o.AdminAllowed {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			s.adminAllowed[e] = struct{}{}
		}
	}
	if s.adminUser != "" {
		s.adminAllowed[localAdminEmail(s.adminUser)] = struct{}{}
	}
	if s.adminTTL <= 0 {
		s.adminTTL = 6 * time.Hour
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 60 * time.Second
	}
	if len(o.CORSOrigins) == 0 {
		o.CORSOrigins = []string{"*"}
	}

	s.r.Use(middleware.RequestID)
	s.r.Use(middleware.RealIP)
	s.r.Use(accessLog)
	s.r.Use(middleware.Recoverer)
	s.r.Use(middleware.Timeout(o.RequestTimeout))
	s.r.Use(middleware.Compress(5))
	s.r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   o.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: !contains(o.CORSOrigins, "*"),
		MaxAge:           300,
	}))

	s.routes()

	if o.UploadsDir != "" && strings.HasPrefix(o.UploadsPrefix, "/") {
		prefix := strings.TrimRight(o.UploadsPrefix, "/")
		s.r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(o.UploadsDir))))
	}
	return s.r
}

func (s *Server) routes() {
	s.r.Get("/health", s.handleHealth)
	s.r.Get("/auth/google/login", s.handleGoogleLogin)
	s.r.Get("/auth/google/callback", s.handleGoogleCallback)

	s.r.Route("/api", func(r chi.Router) {
		r.Get("/products", s.apiProducts)
		r.Get("/products/new-arrivals", s.apiNewArrivals)
		r.Get("/products/trending", s.apiTrending)
		r.Get("/products/{id}", s.apiProductByID)
		r.Post("/products/{id}/reviews", s.apiAddReview)

		r.Get("/collections/{name}", s.apiCollection)
		r.Get("/settings", s.apiSettings)
		r.Get("/budgets", s.apiBudgets)
		r.Get("/discounts/code/{code}", s.apiDiscountLookup)

		r.Get("/cart", s.apiCart)
		r.Post("/cart/items", s.apiCartAdd)
		r.Patch("/cart/items/{id}", s.apiCartUpdate)
		r.Delete("/cart/items/{id}", s.apiCartRemove)
		r.Delete("/cart", s.apiCartClear)

		r.Post("/checkout/discount", s.apiCheckoutDiscount)
		r.Post("/checkout", s.apiCheckout)
		r.Get("/delivery/{pin}", s.apiDelivery)

		r.Post("/newsletter/subscribe", s.apiSubscribe)
		r.Post("/newsletter/unsubscribe", s.apiUnsubscribe)
		r.Post("/contact", s.apiContact)

		r.Get("/orders/{id}", s.apiOrder)

		r.Post("/auth/admin-login", s.handleAdminLogin)
		r.Post("/auth/admin-logout", s.handleAdminLogout)

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireAdmin)

			r.Get("/products", s.adminListProducts)
			r.Post("/products", s.adminCreateProduct)
			r.Post("/products/import", s.adminImportProducts)
			r.Put("/products/{id}", s.adminUpdateProduct)
			r.Delete("/products/{id}", s.adminDeleteProduct)

			r.Put("/collections/{name}", s.adminReplaceCollection)

			r.Get("/discounts", s.adminListDiscounts)
			r.Post("/discounts", s.adminSaveDiscount)
			r.Delete("/discounts/{code}", s.adminDeleteDiscount)

			r.Get("/orders", s.adminListOrders)
			r.Get("/orders/export.xlsx", s.adminExportOrders)
			r.Put("/orders/{id}/status", s.adminUpdateOrderStatus)

			r.Put("/settings", s.adminSaveSettings)

			r.Get("/subscribers", s.adminSubscribers)
			r.Get("/messages", s.adminMessages)

			r.Post("/media", s.adminUploadMedia)
			r.Post("/media/scrape", s.adminScrape)
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok", "products": len(s.catalog.Products())}
	if t := s.catalog.LoadedAt(); !t.IsZero() {
		body["catalogLoadedAt"] = t.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

func writeError(w http.ResponseWriter, code int, msg, field string) {
	writeJSON(w, code, errorBody{Error: msg, Field: field})
}

var inputFields = map[error]string{
	usecase.ErrSizeRequired:  "size",
	usecase.ErrOutOfStock:    "qty",
	usecase.ErrInvalidEmail:  "email",
	usecase.ErrInvalidRating: "rating",
	cart.ErrInvalidQuantity:  "qty",
	discount.ErrInvalidCode:  "discountCode",
}

// fail maps an error from the layers below onto a status code and JSON body.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *checkout.ValidationError
	var se *checkout.SubmitError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Err.Error(), ve.Field)
	case errors.As(err, &se):
		log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("order submission failed")
		writeJSON(w, http.StatusServiceUnavailable, errorBody{
			Error:     "we could not place your order right now, please try again",
			Retryable: se.Retryable(),
		})
	case errors.Is(err, checkout.ErrInvalidPostalCode):
		writeError(w, http.StatusBadRequest, err.Error(), "postcode")
	case errors.Is(err, checkout.ErrAlreadySubmitted):
		writeError(w, http.StatusConflict, err.Error(), "")
	case usecase.IsInput(err) || errors.Is(err, cart.ErrInvalidQuantity) || errors.Is(err, cart.ErrMissingProductID) ||
		errors.Is(err, discount.ErrInvalidCode) || errors.Is(err, errBadRequest):
		field := ""
		for target, f := range inputFields {
			if errors.Is(err, target) {
				field = f
				break
			}
		}
		writeError(w, http.StatusBadRequest, err.Error(), field)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", "")
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error", "")
	}
}

var errBadRequest = errors.New("bad request")

var timeNow = time.Now

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: malformed JSON body", errBadRequest)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
