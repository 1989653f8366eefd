package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Apurer/catering-api/internal/domains/menus/domain"
	"github.com/Apurer/catering-api/internal/domains/menus/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists saved menus in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// MenuRecord stores the menu lines as a JSON document; they are only ever
// read back as a whole.
type MenuRecord struct {
	ID          string        `gorm:"primaryKey;column:id;size:64"`
	Name        string        `gorm:"column:name"`
	Description string        `gorm:"column:description"`
	Items       []domain.Item `gorm:"column:items;serializer:json"`
	CustomerID  string        `gorm:"column:customer_id;size:64;index"`
	CreatedAt   time.Time     `gorm:"column:created_at;index"`
	UpdatedAt   time.Time     `gorm:"column:updated_at"`
}

func (MenuRecord) TableName() string { return "saved_menus" }

func (r *Repository) Create(ctx context.Context, menu *domain.SavedMenu) (*domain.SavedMenu, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if menu == nil {
		return nil, errors.New("menu is nil")
	}
	record := MenuRecord{
		ID:          uuid.NewString(),
		Name:        menu.Name,
		Description: menu.Description,
		Items:       append([]domain.Item(nil), menu.Items...),
		CustomerID:  menu.CustomerID,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context, customerID string) ([]*domain.SavedMenu, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}
	var records []MenuRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	menus := make([]*domain.SavedMenu, 0, len(records))
	for i := range records {
		menus = append(menus, records[i].toDomain())
	}
	return menus, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&MenuRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres menu repository not configured")
	}
	return nil
}

func (r MenuRecord) toDomain() *domain.SavedMenu {
	return &domain.SavedMenu{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Items:       append([]domain.Item(nil), r.Items...),
		CustomerID:  r.CustomerID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
