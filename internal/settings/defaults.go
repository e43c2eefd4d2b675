package settings

import (
	"github.com/shopspring/decimal"

	"github.com/phenrril/petalkids/internal/domain"
)

func band(label, slug string, min, max int64) domain.BudgetBand {
	return domain.BudgetBand{Label: label, Slug: slug, Min: decimal.NewFromInt(min), Max: decimal.NewFromInt(max)}
}

// Defaults is the complete settings document every loaded copy is merged over.
func Defaults() domain.SiteSettings {
	return domain.SiteSettings{
		Hero: domain.HeroSettings{
			Title:            "EB'S CLOSET",
			Subtitle:         "Beautiful Dresses for Girls 7-13",
			BackgroundImages: []string{},
			BannerTitle:      "Where Dreams\nCome True",
			BannerSubtitle:   "Perfect Dresses for Growing Girls",
			BannerCtaText:    "Discover Magic",
			BannerCtaHref:    "/shop",
		},
		Editorial: domain.EditorialSettings{
			Kicker:  "Growing Up in Style",
			Title:   "Every Girl\nDeserves Magic",
			Body:    "From first school dances to birthday parties, we create magical moments with dresses designed specifically for girls aged 7-13. Every dress tells a story of growing up beautifully.",
			CtaText: "Find Her Perfect Dress",
			CtaHref: "/shop",
		},
		Collections: []domain.CollectionTile{
			{ID: 1, Title: "Princess Collection", Category: "Ages 7-10"},
			{ID: 2, Title: "Birthday Party", Category: "Ages 8-12"},
			{ID: 3, Title: "School Dance", Category: "Ages 10-13"},
		},
		FooterGroups: []domain.FooterGroup{
			{Title: "Shop by Age", Links: []domain.LinkItem{
				{Label: "Ages 7-8", Href: "/shop"}, {Label: "Ages 9-10", Href: "/shop"},
				{Label: "Ages 11-12", Href: "/shop"}, {Label: "Ages 12-13", Href: "/shop"},
			}},
			{Title: "For Parents", Links: []domain.LinkItem{
				{Label: "Size Guide", Href: "/size-guide"}, {Label: "Care Instructions", Href: "/care"},
				{Label: "Gift Cards", Href: "/gift-cards"}, {Label: "Our Story", Href: "/our-story"},
			}},
			{Title: "Customer Care", Links: []domain.LinkItem{
				{Label: "Contact Us", Href: "/contact"}, {Label: "Shipping", Href: "/shipping"},
				{Label: "Returns", Href: "/returns"}, {Label: "FAQ", Href: "/faq"},
			}},
			{Title: "Follow Us", Links: []domain.LinkItem{}},
		},
		Social: []domain.SocialLink{
			{Kind: "instagram", Href: "#"}, {Kind: "facebook", Href: "#"}, {Kind: "youtube", Href: "#"},
		},
		Newsletter: domain.NewsletterSettings{
			Heading: "Join Our Magic Circle",
			Subtext: "Get exclusive access to new magical dress collections and special offers for growing girls",
		},
		LegalLabels: domain.LegalLabels{Privacy: "Privacy Policy", Terms: "Terms of Service", Cookies: "Cookie Policy"},
		InfoPages: map[string]domain.InfoContent{
			"our-story": {Title: "Our Story", Subtitle: "EB'S CLOSET", Sections: []domain.InfoSection{
				{Body: "Created to celebrate growing girls, EB'S CLOSET brings premium, playful dresses designed for ages 7-13 with a touch of magic."},
			}},
			"faq": {Title: "FAQ", Subtitle: "Questions and answers", Sections: []domain.InfoSection{
				{Heading: "What ages do you design for?", Body: "Girls aged 7-13, with size guidance to help find the perfect fit."},
				{Heading: "How do I care for dresses?", Body: "Use delicate cycle or hand wash, and lay flat to dry."},
			}},
			"privacy": {Title: "Privacy Policy", Sections: []domain.InfoSection{
				{Body: "We value your privacy and only use your information to process orders and improve your experience."},
			}},
		},
		Budgets: []domain.BudgetBand{
			band("Under ₹499", "under499", 0, 499),
			band("Under ₹799", "under799", 0, 799),
			band("Under ₹999", "under999", 0, 999),
			band("₹1000 - ₹1499", "1000-1499", 1000, 1499),
			band("₹1500 - ₹1999", "1500-1999", 1500, 1999),
			band("₹2000+ Premium", "2000plus", 2000, 3000),
		},
		Nav: []domain.NavCategory{
			{Name: "New Arrivals", Items: []string{"Latest Dresses", "Editor's Picks", "Trending Now"}},
			{Name: "By Age", Items: []string{"Ages 7-8", "Ages 9-10", "Ages 11-12", "Ages 12-13"}},
			{Name: "Occasions", Items: []string{"Birthday Parties", "School Dances", "Holidays", "Everyday Magic"}},
			{Name: "Styles", Items: []string{"Princess Gowns", "Sparkle Dresses", "Floral Prints", "Unicorn Dreams"}},
			{Name: "Size Guide", Items: []string{}},
			{Name: "Parents", Items: []string{}},
		},
	}
}

// Merge fills every empty part of loaded from def. Nothing in loaded that is
// populated is overwritten.
func Merge(def, loaded domain.SiteSettings) domain.SiteSettings {
	out := loaded

	h, dh := &out.Hero, def.Hero
	orStr(&h.Title, dh.Title)
	orStr(&h.Subtitle, dh.Subtitle)
	orStr(&h.BannerImage, dh.BannerImage)
	orStr(&h.BannerTitle, dh.BannerTitle)
	orStr(&h.BannerSubtitle, dh.BannerSubtitle)
	orStr(&h.BannerCtaText, dh.BannerCtaText)
	orStr(&h.BannerCtaHref, dh.BannerCtaHref)
	if h.BackgroundImages == nil {
		h.BackgroundImages = dh.BackgroundImages
	}

	e, de := &out.Editorial, def.Editorial
	orStr(&e.Image, de.Image)
	orStr(&e.Kicker, de.Kicker)
	orStr(&e.Title, de.Title)
	orStr(&e.Body, de.Body)
	orStr(&e.CtaText, de.CtaText)
	orStr(&e.CtaHref, de.CtaHref)

	orStr(&out.Newsletter.Heading, def.Newsletter.Heading)
	orStr(&out.Newsletter.Subtext, def.Newsletter.Subtext)
	orStr(&out.LegalLabels.Privacy, def.LegalLabels.Privacy)
	orStr(&out.LegalLabels.Terms, def.LegalLabels.Terms)
	orStr(&out.LegalLabels.Cookies, def.LegalLabels.Cookies)

	if len(out.Collections) == 0 {
		out.Collections = def.Collections
	}
	if len(out.FooterGroups) == 0 {
		out.FooterGroups = def.FooterGroups
	}
	if len(out.Social) == 0 {
		out.Social = def.Social
	}
	if len(out.Budgets) == 0 {
		out.Budgets = def.Budgets
	}
	if len(out.Nav) == 0 {
		out.Nav = def.Nav
	}

	pages := make(map[string]domain.InfoContent, len(def.InfoPages)+len(loaded.InfoPages))
	for k, v := range def.InfoPages {
		pages[k] = v
	}
	for k, v := range loaded.InfoPages {
		pages[k] = v
	}
	out.InfoPages = pages
	return out
}

func orStr(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}
