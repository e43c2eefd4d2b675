package domain

import "github.com/shopspring/decimal"

type NavCategory struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

type LinkItem struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

type FooterGroup struct {
	Title string     `json:"title"`
	Links []LinkItem `json:"links"`
}

type SocialLink struct {
	Kind string `json:"kind"`
	Href string `json:"href"`
}

type CollectionTile struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Video    string `json:"video,omitempty"`
	Image    string `json:"image,omitempty"`
	Category string `json:"category"`
}

type HeroSettings struct {
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle"`
	BackgroundImages []string `json:"backgroundImages"`
	BannerImage      string   `json:"bannerImage"`
	BannerTitle      string   `json:"bannerTitle"`
	BannerSubtitle   string   `json:"bannerSubtitle"`
	BannerCtaText    string   `json:"bannerCtaText"`
	BannerCtaHref    string   `json:"bannerCtaHref"`
}

type EditorialSettings struct {
	Image   string `json:"image"`
	Kicker  string `json:"kicker"`
	Title   string `json:"title"`
	Body    string `json:"body"`
	CtaText string `json:"ctaText"`
	CtaHref string `json:"ctaHref,omitempty"`
}

type NewsletterSettings struct {
	Heading string `json:"heading"`
	Subtext string `json:"subtext"`
}

type LegalLabels struct {
	Privacy string `json:"privacy"`
	Terms   string `json:"terms"`
	Cookies string `json:"cookies"`
}

type InfoSection struct {
	Heading string `json:"heading,omitempty"`
	Body    string `json:"body"`
}

type InfoContent struct {
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle,omitempty"`
	Sections []InfoSection `json:"sections"`
}

// BudgetBand is a named price range used to pre-populate the price filter.
type BudgetBand struct {
	Label string          `json:"label"`
	Slug  string          `json:"slug"`
	Min   decimal.Decimal `json:"min"`
	Max   decimal.Decimal `json:"max"`
}

type SiteSettings struct {
	Hero         HeroSettings           `json:"hero"`
	Editorial    EditorialSettings      `json:"editorial"`
	Collections  []CollectionTile       `json:"collections"`
	FooterGroups []FooterGroup          `json:"footerGroups"`
	Social       []SocialLink           `json:"social"`
	Newsletter   NewsletterSettings     `json:"newsletter"`
	LegalLabels  LegalLabels            `json:"legalLabels"`
	InfoPages    map[string]InfoContent `json:"infoPages"`
	Budgets      []BudgetBand           `json:"budgets"`
	Nav          []NavCategory          `json:"nav"`
}

// SiteSettingsRecord is the single persisted row holding the settings document.
type SiteSettingsRecord struct {
	ID   int          `gorm:"primaryKey"`
	Data SiteSettings `gorm:"type:jsonb;serializer:json"`
}
