package migrations

import (
	"gorm.io/gorm"

	adminpg "github.com/Apurer/catering-api/internal/domains/admins/adapters/persistence/postgres"
	catalogpg "github.com/Apurer/catering-api/internal/domains/catalog/adapters/persistence/postgres"
	customerpg "github.com/Apurer/catering-api/internal/domains/customers/adapters/persistence/postgres"
	menupg "github.com/Apurer/catering-api/internal/domains/menus/adapters/persistence/postgres"
	messagepg "github.com/Apurer/catering-api/internal/domains/messages/adapters/persistence/postgres"
	orderpg "github.com/Apurer/catering-api/internal/domains/orders/adapters/persistence/postgres"
	reviewpg "github.com/Apurer/catering-api/internal/domains/reviews/adapters/persistence/postgres"
	settingspg "github.com/Apurer/catering-api/internal/domains/settings/adapters/persistence/postgres"
)

// Models lists every persisted record in dependency order: referenced
// tables come before the tables holding foreign keys to them.
func Models() []any {
	return []any{
		&customerpg.CustomerRecord{},
		&catalogpg.CategoryRecord{},
		&catalogpg.DishRecord{},
		&orderpg.OrderRecord{},
		&orderpg.OrderItemRecord{},
		&orderpg.IdempotencyKeyRecord{},
		&reviewpg.ReviewRecord{},
		&menupg.MenuRecord{},
		&messagepg.MessageRecord{},
		&settingspg.SettingsRecord{},
		&adminpg.AdminRecord{},
		&adminpg.SessionRecord{},
	}
}

// Run applies the schema for every bounded context. Reviews approved before
// applied_rating existed are marked as counting their current rating.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	return db.Model(&reviewpg.ReviewRecord{}).
		Where("is_approved = ? AND applied_rating = ?", true, 0).
		Update("applied_rating", gorm.Expr("rating")).Error
}
