package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/catering-api/internal/domains/reviews/domain"
	"github.com/Apurer/catering-api/internal/domains/reviews/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists reviews in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ReviewRecord maps a review; order_id is unique so an order has one review.
type ReviewRecord struct {
	ID            string    `gorm:"primaryKey;column:id;size:64"`
	OrderID       string    `gorm:"column:order_id;size:64;uniqueIndex"`
	CustomerName  string    `gorm:"column:customer_name"`
	CustomerCity  string    `gorm:"column:customer_city"`
	Rating        int       `gorm:"column:rating"`
	Comment       string    `gorm:"column:comment"`
	IsApproved    bool      `gorm:"column:is_approved;index"`
	AppliedRating int       `gorm:"column:applied_rating;not null;default:0"`
	CreatedAt     time.Time `gorm:"column:created_at;index"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (ReviewRecord) TableName() string { return "reviews" }

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByOrderID(ctx context.Context, orderID string) (*domain.Review, error) {
	return r.first(ctx, "order_id = ?", orderID)
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*domain.Review, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record ReviewRecord
	if err := r.db.WithContext(ctx).First(&record, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Upsert reads the existing row to tell creation from replacement, then
// writes with ON CONFLICT (order_id) so a concurrent first submission
// still ends up as a single row.
func (r *Repository) Upsert(ctx context.Context, review *domain.Review) (*domain.Review, bool, error) {
	if err := r.ensureDB(); err != nil {
		return nil, false, err
	}
	if review == nil {
		return nil, false, errors.New("review is nil")
	}
	var (
		stored  ReviewRecord
		created bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&ReviewRecord{}).Where("order_id = ?", review.OrderID).Count(&count).Error; err != nil {
			return err
		}
		created = count == 0
		now := time.Now().UTC()
		record := ReviewRecord{
			ID:           uuid.NewString(),
			OrderID:      review.OrderID,
			CustomerName: review.CustomerName,
			CustomerCity: review.CustomerCity,
			Rating:       review.Rating,
			Comment:      review.Comment,
			IsApproved:   false,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"customer_name": review.CustomerName,
				"customer_city": review.CustomerCity,
				"rating":        review.Rating,
				"comment":       review.Comment,
				"is_approved":   false,
				"updated_at":    now,
			}),
		}).Create(&record).Error
		if err != nil {
			return err
		}
		return tx.First(&stored, "order_id = ?", review.OrderID).Error
	})
	if err != nil {
		return nil, false, err
	}
	return stored.toDomain(), created, nil
}

// Approve flips the flag only if nobody approved the review since it was
// read, so the replaced score reported is the one dish ratings still count.
func (r *Repository) Approve(ctx context.Context, id string) (*domain.Approval, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	approval := &domain.Approval{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record ReviewRecord
		if err := tx.First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		if !record.IsApproved {
			result := tx.Model(&ReviewRecord{}).
				Where("id = ? AND is_approved = ? AND applied_rating = ?", id, false, record.AppliedRating).
				Updates(map[string]any{
					"is_approved":    true,
					"applied_rating": gorm.Expr("rating"),
					"updated_at":     time.Now().UTC(),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected > 0 {
				approval.Changed = true
				approval.Replaced = record.AppliedRating
			}
		}
		var stored ReviewRecord
		if err := tx.First(&stored, "id = ?", id).Error; err != nil {
			return err
		}
		approval.Review = stored.toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approval, nil
}

func (r *Repository) List(ctx context.Context, approvedOnly bool) ([]*domain.Review, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if approvedOnly {
		query = query.Where("is_approved = ?", true)
	}
	var records []ReviewRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	reviews := make([]*domain.Review, 0, len(records))
	for i := range records {
		reviews = append(reviews, records[i].toDomain())
	}
	return reviews, nil
}

func (r *Repository) Delete(ctx context.Context, id string) (*domain.Review, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record ReviewRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		result := tx.Delete(&ReviewRecord{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres review repository not configured")
	}
	return nil
}

func (r ReviewRecord) toDomain() *domain.Review {
	return &domain.Review{
		ID:            r.ID,
		OrderID:       r.OrderID,
		CustomerName:  r.CustomerName,
		CustomerCity:  r.CustomerCity,
		Rating:        r.Rating,
		Comment:       r.Comment,
		IsApproved:    r.IsApproved,
		AppliedRating: r.AppliedRating,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
