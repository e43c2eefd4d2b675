package app

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/phenrril/petalkids/internal/adapters/copywriter"
	"github.com/phenrril/petalkids/internal/adapters/httpserver"
	"github.com/phenrril/petalkids/internal/adapters/mailer"
	"github.com/phenrril/petalkids/internal/adapters/repo/memory"
	"github.com/phenrril/petalkids/internal/adapters/repo/postgres"
	"github.com/phenrril/petalkids/internal/adapters/scraper"
	"github.com/phenrril/petalkids/internal/adapters/storage/localfs"
	"github.com/phenrril/petalkids/internal/cart"
	"github.com/phenrril/petalkids/internal/catalog"
	"github.com/phenrril/petalkids/internal/config"
	"github.com/phenrril/petalkids/internal/discount"
	"github.com/phenrril/petalkids/internal/domain"
	"github.com/phenrril/petalkids/internal/settings"
	"github.com/phenrril/petalkids/internal/usecase"
)

// MemoryDSN selects the in-process stores instead of Postgres.
const MemoryDSN = "memory"

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type App struct {
	Cfg *config.Config
	DB  *gorm.DB

	ProductUC    *usecase.ProductUC
	OrderUC      *usecase.OrderUC
	DiscountUC   *usecase.DiscountUC
	AudienceUC   *usecase.AudienceUC
	CollectionUC *usecase.CollectionUC
	MediaUC      *usecase.MediaUC

	Catalog  *catalog.Store
	Settings *settings.Provider
	Resolver *discount.Resolver
	Cart     *cart.Codec

	Storage     domain.FileStorage
	Mailer      *mailer.Mailer
	OAuthConfig *oauth2.Config
}

// NewApp wires the service. A nil db runs everything in memory with the
// sample catalog loaded.
func NewApp(cfg *config.Config, db *gorm.DB) (*App, error) {
	var (
		products    domain.ProductRepo
		orders      domain.OrderRepo
		codes       domain.DiscountRepo
		siteRepo    domain.SettingsRepo
		collections domain.CollectionRepo
		audience    domain.AudienceRepo
	)
	if db == nil {
		mp := memory.NewProductRepo(sampleProducts()...)
		products = mp
		orders = memory.NewOrderRepo()
		codes = memory.NewDiscountRepo(sampleCodes()...)
		siteRepo = memory.NewSettingsRepo()
		collections = memory.NewCollectionRepo(mp)
		audience = memory.NewAudienceRepo()
	} else {
		products = postgres.NewProductRepo(db)
		orders = postgres.NewOrderRepo(db)
		codes = postgres.NewDiscountRepo(db)
		siteRepo = postgres.NewSettingsRepo(db)
		collections = postgres.NewCollectionRepo(db)
		audience = postgres.NewAudienceRepo(db)
	}

	storage, err := localfs.New(cfg.Storage.Dir, cfg.Storage.PublicURL)
	if err != nil {
		return nil, err
	}

	var oauthCfg *oauth2.Config
	if cfg.Google.Enabled() {
		oauthCfg = &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  strings.TrimRight(cfg.Server.BaseURL, "/") + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	app := &App{Cfg: cfg, DB: db, Storage: storage, OAuthConfig: oauthCfg}
	app.ProductUC = &usecase.ProductUC{Products: products}
	app.OrderUC = &usecase.OrderUC{Orders: orders, Discounts: codes}
	app.DiscountUC = &usecase.DiscountUC{Codes: codes}
	app.AudienceUC = &usecase.AudienceUC{Repo: audience}
	app.CollectionUC = &usecase.CollectionUC{Collections: collections, Products: products}
	app.MediaUC = &usecase.MediaUC{Storage: storage, Scraper: scraper.NewImageScraper()}
	if cfg.Mail.Enabled() {
		app.Mailer = mailer.New(mailer.Config{
			Host: cfg.Mail.Host, Port: cfg.Mail.Port, User: cfg.Mail.User, Pass: cfg.Mail.Pass,
			From: cfg.Mail.From, Notify: cfg.Mail.Notify,
		})
		app.OrderUC.Notifier = app.Mailer
		app.AudienceUC.Notifier = app.Mailer
	}
	if cfg.OpenAI.APIKey != "" {
		app.MediaUC.Writer = copywriter.New(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}

	app.Catalog = catalog.NewStore(app.ProductUC, cfg.Catalog.FetchTimeout)
	app.Settings = settings.NewProvider(siteRepo)
	app.Resolver = discount.NewResolver(app.DiscountUC)
	app.Cart = cart.NewCodec(cfg.SessionKey, cfg.IsProduction())
	return app, nil
}

// Start loads the catalog and site settings once and keeps them fresh until
// ctx is done.
func (a *App) Start(ctx context.Context) {
	if err := a.Settings.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("site settings not loaded, serving defaults")
	}
	a.Catalog.Refresh(ctx)
	go a.Catalog.Run(ctx, a.Cfg.Catalog.RefreshInterval)
	go a.Settings.Run(ctx, a.Cfg.Settings.RefreshInterval)
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(httpserver.Options{
		Products:       a.ProductUC,
		Orders:         a.OrderUC,
		Discounts:      a.DiscountUC,
		Audience:       a.AudienceUC,
		Collections:    a.CollectionUC,
		Media:          a.MediaUC,
		Catalog:        a.Catalog,
		Settings:       a.Settings,
		Resolver:       a.Resolver,
		Cart:           a.Cart,
		OAuth:          a.OAuthConfig,
		AdminUser:      a.Cfg.Admin.User,
		AdminPass:      a.Cfg.Admin.Pass,
		AdminSecret:    a.Cfg.Admin.JWTSecret,
		AdminAllowed:   a.Cfg.Admin.AllowedEmails,
		AdminTTL:       a.Cfg.Admin.TokenTTL,
		SecureCookie:   a.Cfg.IsProduction(),
		CORSOrigins:    a.Cfg.CORSOrigins,
		UploadsDir:     a.Cfg.Storage.Dir,
		UploadsPrefix:  a.Cfg.Storage.PublicURL,
		RequestTimeout: a.Cfg.Server.WriteTimeout,
	})
}

// MigrateAndSeed creates the schema and, on an empty database, the starter
// discount codes and sample catalog. It does nothing in memory mode.
func (a *App) MigrateAndSeed(ctx context.Context) error {
	if a.DB == nil {
		return nil
	}
	if err := postgres.Migrate(a.DB); err != nil {
		return err
	}
	for _, d := range sampleCodes() {
		if _, err := a.DiscountUC.LookupCode(ctx, d.Code); err == nil {
			continue
		}
		if err := a.DiscountUC.Save(ctx, &d); err != nil {
			return err
		}
	}

	var count int64
	if err := a.DB.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	rep, err := a.ProductUC.Import(ctx, sampleProducts())
	if err != nil {
		return err
	}
	log.Info().Int("created", rep.Created).Msg("sample catalog seeded")
	return nil
}
