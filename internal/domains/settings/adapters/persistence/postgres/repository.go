package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/catering-api/internal/domains/settings/domain"
	"github.com/Apurer/catering-api/internal/domains/settings/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the settings singleton in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SettingsRecord maps the singleton row.
type SettingsRecord struct {
	ID                    string          `gorm:"primaryKey;column:id;size:16"`
	RestaurantName        string          `gorm:"column:restaurant_name"`
	Phone                 string          `gorm:"column:phone"`
	Email                 string          `gorm:"column:email"`
	Address               string          `gorm:"column:address"`
	OpeningHours          string          `gorm:"column:opening_hours"`
	WhatsappNumber        string          `gorm:"column:whatsapp_number"`
	DeliveryFee           decimal.Decimal `gorm:"column:delivery_fee;type:decimal(10,2)"`
	FreeDeliveryThreshold decimal.Decimal `gorm:"column:free_delivery_threshold;type:decimal(10,2)"`
	UpdatedAt             time.Time       `gorm:"column:updated_at"`
}

func (SettingsRecord) TableName() string { return "settings" }

func (r *Repository) Get(ctx context.Context) (*domain.Settings, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record SettingsRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", domain.SingletonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Save upserts the singleton, so two concurrent lazy creations converge.
func (r *Repository) Save(ctx context.Context, settings *domain.Settings) (*domain.Settings, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, errors.New("settings is nil")
	}
	record := SettingsRecord{
		ID:                    domain.SingletonID,
		RestaurantName:        settings.RestaurantName,
		Phone:                 settings.Phone,
		Email:                 settings.Email,
		Address:               settings.Address,
		OpeningHours:          settings.OpeningHours,
		WhatsappNumber:        settings.WhatsappNumber,
		DeliveryFee:           settings.DeliveryFee,
		FreeDeliveryThreshold: settings.FreeDeliveryThreshold,
		UpdatedAt:             time.Now().UTC(),
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&record).Error
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres settings repository not configured")
	}
	return nil
}

func (r SettingsRecord) toDomain() *domain.Settings {
	return &domain.Settings{
		ID:                    r.ID,
		RestaurantName:        r.RestaurantName,
		Phone:                 r.Phone,
		Email:                 r.Email,
		Address:               r.Address,
		OpeningHours:          r.OpeningHours,
		WhatsappNumber:        r.WhatsappNumber,
		DeliveryFee:           r.DeliveryFee,
		FreeDeliveryThreshold: r.FreeDeliveryThreshold,
		UpdatedAt:             r.UpdatedAt,
	}
}
