package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/catering-api/internal/domains/customers/domain"
	"github.com/Apurer/catering-api/internal/domains/customers/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists customers in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle
// and schema (see platform/migrations).
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CustomerRecord maps the customer aggregate to a relational table.
type CustomerRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	FirstName string    `gorm:"column:first_name"`
	LastName  string    `gorm:"column:last_name"`
	Email     string    `gorm:"column:email;uniqueIndex;size:320"`
	Phone     string    `gorm:"column:phone"`
	Address   string    `gorm:"column:address"`
	CreatedAt time.Time `gorm:"column:created_at;index"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (CustomerRecord) TableName() string { return "customers" }

// Create inserts a customer, reporting ErrDuplicateEmail on a unique violation.
func (r *Repository) Create(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errors.New("customer is nil")
	}
	record := toRecord(customer)
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ports.ErrDuplicateEmail
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// UpsertByEmail relies on the unique email index: a single
// INSERT ... ON CONFLICT (email) DO UPDATE either creates the row or merges
// the supplied non-empty fields into it.
func (r *Repository) UpsertByEmail(ctx context.Context, contact domain.Contact) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	contact = contact.Normalize()
	candidate, err := domain.NewCustomer(contact)
	if err != nil {
		return nil, err
	}
	record := toRecord(candidate)
	record.ID = uuid.NewString()
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "email"}},
			DoUpdates: clause.Assignments(map[string]any{
				"first_name": keepUnlessSupplied("first_name", contact.FirstName),
				"last_name":  keepUnlessSupplied("last_name", contact.LastName),
				"phone":      keepUnlessSupplied("phone", contact.Phone),
				"address":    keepUnlessSupplied("address", contact.Address),
				"updated_at": time.Now().UTC(),
			}),
		}).
		Create(&record).Error
	if err != nil {
		return nil, err
	}
	var stored CustomerRecord
	if err := r.db.WithContext(ctx).First(&stored, "email = ?", contact.Email).Error; err != nil {
		return nil, err
	}
	return stored.toDomain(), nil
}

func keepUnlessSupplied(column, value string) clause.Expr {
	return gorm.Expr("COALESCE(NULLIF(?, ''), customers."+column+")", value)
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record CustomerRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context) ([]*domain.Customer, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []CustomerRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	customers := make([]*domain.Customer, 0, len(records))
	for i := range records {
		customers = append(customers, records[i].toDomain())
	}
	return customers, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	if err := r.ensureDB(); err != nil {
		return 0, err
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&CustomerRecord{}).Count(&count).Error
	return count, err
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres customer repository not configured")
	}
	return nil
}

func toRecord(customer *domain.Customer) CustomerRecord {
	return CustomerRecord{
		ID:        customer.ID,
		FirstName: customer.FirstName,
		LastName:  customer.LastName,
		Email:     customer.Email,
		Phone:     customer.Phone,
		Address:   customer.Address,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}

func (r CustomerRecord) toDomain() *domain.Customer {
	return &domain.Customer{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Address:   r.Address,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
