package postgres

import (
	"gorm.io/gorm"

	"github.com/phenrril/petalkids/internal/domain"
)

// Migrate creates or updates every table the store needs.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Product{}, &domain.Review{},
		&domain.Order{}, &domain.OrderItem{},
		&domain.DiscountCode{},
		&domain.SiteSettingsRecord{},
		&domain.CollectionEntry{},
		&domain.Subscriber{}, &domain.ContactMessage{},
	); err != nil {
		return err
	}
	_ = db.Exec("CREATE INDEX IF NOT EXISTS idx_collection_entries_position ON collection_entries(collection, position)").Error
	_ = db.Exec("CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)").Error
	return nil
}
