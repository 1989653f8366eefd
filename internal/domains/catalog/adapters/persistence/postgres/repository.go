package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/catering-api/internal/domains/catalog/domain"
	"github.com/Apurer/catering-api/internal/domains/catalog/ports"
)

var (
	_ ports.DishRepository     = (*DishRepository)(nil)
	_ ports.CategoryRepository = (*CategoryRepository)(nil)
)

// CategoryRecord maps a catalog category to a relational table.
type CategoryRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	Name      string    `gorm:"column:name"`
	NameAr    string    `gorm:"column:name_ar"`
	Slug      string    `gorm:"column:slug;uniqueIndex;size:128"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (CategoryRecord) TableName() string { return "categories" }

// DishRecord maps a dish; the category foreign key restricts category deletes.
type DishRecord struct {
	ID          string          `gorm:"primaryKey;column:id;size:64"`
	Name        string          `gorm:"column:name"`
	NameAr      string          `gorm:"column:name_ar"`
	Description string          `gorm:"column:description"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(10,2)"`
	Image       string          `gorm:"column:image"`
	Portions    []string        `gorm:"column:portions;serializer:json"`
	IsAvailable bool            `gorm:"column:is_available"`
	IsPopular   bool            `gorm:"column:is_popular"`
	Rating      float64         `gorm:"column:rating"`
	Reviews     int             `gorm:"column:reviews;index"`
	CategoryID  string          `gorm:"column:category_id;size:64;index"`
	Category    *CategoryRecord `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (DishRecord) TableName() string { return "dishes" }

// DishRepository persists dishes in PostgreSQL using GORM.
type DishRepository struct {
	db *gorm.DB
}

// CategoryRepository persists categories in PostgreSQL using GORM.
type CategoryRepository struct {
	db *gorm.DB
}

// NewRepositories wires PostgreSQL-backed catalog repositories. Caller manages DB lifecycle.
func NewRepositories(db *gorm.DB) (*DishRepository, *CategoryRepository) {
	return &DishRepository{db: db}, &CategoryRepository{db: db}
}

// Save inserts or updates a dish.
func (r *DishRepository) Save(ctx context.Context, dish *domain.Dish) (*domain.Dish, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	if dish == nil {
		return nil, errors.New("dish is nil")
	}
	record := toDishRecord(dish)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	record.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "name_ar", "description", "price", "image", "portions",
				"is_available", "is_popular", "rating", "reviews", "category_id", "updated_at",
			}),
		}).
		Create(&record).Error
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *DishRepository) GetByID(ctx context.Context, id string) (*domain.Dish, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	var record DishRecord
	if err := r.db.WithContext(ctx).Preload("Category").First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrDishNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *DishRepository) List(ctx context.Context, filter domain.DishFilter) ([]*domain.Dish, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	db := r.db.WithContext(ctx)
	query := db.Model(&DishRecord{}).Preload("Category")
	if slug := strings.TrimSpace(filter.CategorySlug); slug != "" {
		query = query.Where("category_id IN (?)", db.Model(&CategoryRecord{}).Select("id").Where("slug = ?", slug))
	}
	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		like := "%" + term + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	switch filter.Sort {
	case domain.SortPriceLow:
		query = query.Order("price ASC")
	case domain.SortPriceHigh:
		query = query.Order("price DESC")
	case domain.SortRating:
		query = query.Order("rating DESC")
	default:
		query = query.Order("reviews DESC").Order("name ASC")
	}
	var records []DishRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	dishes := make([]*domain.Dish, 0, len(records))
	for i := range records {
		dishes = append(dishes, records[i].toDomain())
	}
	return dishes, nil
}

func (r *DishRepository) Delete(ctx context.Context, id string) error {
	if err := ensureDB(r.db); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&DishRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrDishNotFound
	}
	return nil
}

func (r *DishRepository) Count(ctx context.Context) (int64, error) {
	if err := ensureDB(r.db); err != nil {
		return 0, err
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&DishRecord{}).Count(&count).Error
	return count, err
}

func (r *DishRepository) CountByCategory(ctx context.Context, categoryID string) (int64, error) {
	if err := ensureDB(r.db); err != nil {
		return 0, err
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&DishRecord{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// AdjustRating locks the dish row while the running average moves so
// concurrent approvals never lose a vote.
func (r *DishRepository) AdjustRating(ctx context.Context, id string, change domain.RatingChange) (*domain.Dish, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record DishRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrDishNotFound
			}
			return err
		}
		dish := record.toDomain()
		if err := dish.AdjustRating(change); err != nil {
			return err
		}
		return tx.Model(&DishRecord{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"rating":     dish.Rating,
				"reviews":    dish.Reviews,
				"updated_at": time.Now().UTC(),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Save inserts or updates a category, mapping slug collisions to ErrDuplicateSlug.
func (r *CategoryRepository) Save(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	if category == nil {
		return nil, errors.New("category is nil")
	}
	record := CategoryRecord{
		ID:        category.ID,
		Name:      category.Name,
		NameAr:    category.NameAr,
		Slug:      category.Slug,
		UpdatedAt: time.Now().UTC(),
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "name_ar", "slug", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateSlug
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

type categoryWithCount struct {
	CategoryRecord `gorm:"embedded"`
	DishCount      int64 `gorm:"column:dish_count"`
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	var rows []categoryWithCount
	if err := r.countedQuery(ctx).Where("categories.id = ?", id).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrCategoryNotFound
	}
	return rows[0].toDomain(), nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	if err := ensureDB(r.db); err != nil {
		return nil, err
	}
	var rows []categoryWithCount
	if err := r.countedQuery(ctx).Order("categories.name ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]*domain.Category, 0, len(rows))
	for i := range rows {
		categories = append(categories, rows[i].toDomain())
	}
	return categories, nil
}

func (r *CategoryRepository) countedQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&CategoryRecord{}).
		Select("categories.id, categories.name, categories.name_ar, categories.slug, categories.created_at, categories.updated_at, COUNT(dishes.id) AS dish_count").
		Joins("LEFT JOIN dishes ON dishes.category_id = categories.id").
		Group("categories.id, categories.name, categories.name_ar, categories.slug, categories.created_at, categories.updated_at")
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	if err := ensureDB(r.db); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&CategoryRecord{}, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			return ports.ErrCategoryInUse
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrCategoryNotFound
	}
	return nil
}

func ensureDB(db *gorm.DB) error {
	if db == nil {
		return errors.New("postgres catalog repository not configured")
	}
	return nil
}

func toDishRecord(dish *domain.Dish) DishRecord {
	return DishRecord{
		ID:          dish.ID,
		Name:        dish.Name,
		NameAr:      dish.NameAr,
		Description: dish.Description,
		Price:       dish.Price,
		Image:       dish.Image,
		Portions:    append([]string{}, dish.Portions...),
		IsAvailable: dish.IsAvailable,
		IsPopular:   dish.IsPopular,
		Rating:      dish.Rating,
		Reviews:     dish.Reviews,
		CategoryID:  dish.CategoryID,
		CreatedAt:   dish.CreatedAt,
	}
}

func (r DishRecord) toDomain() *domain.Dish {
	dish := &domain.Dish{
		ID:          r.ID,
		Name:        r.Name,
		NameAr:      r.NameAr,
		Description: r.Description,
		Price:       r.Price,
		Image:       r.Image,
		Portions:    append([]string{}, r.Portions...),
		IsAvailable: r.IsAvailable,
		IsPopular:   r.IsPopular,
		Rating:      r.Rating,
		Reviews:     r.Reviews,
		CategoryID:  r.CategoryID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Category != nil {
		dish.Category = &domain.Category{
			ID:     r.Category.ID,
			Name:   r.Category.Name,
			NameAr: r.Category.NameAr,
			Slug:   r.Category.Slug,
		}
	}
	return dish
}

func (r categoryWithCount) toDomain() *domain.Category {
	return &domain.Category{
		ID:        r.ID,
		Name:      r.Name,
		NameAr:    r.NameAr,
		Slug:      r.Slug,
		DishCount: r.DishCount,
	}
}
