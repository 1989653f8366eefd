package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/catering-api/internal/domains/orders/domain"
	"github.com/Apurer/catering-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// OrderRecord maps the order aggregate root.
type OrderRecord struct {
	ID           string            `gorm:"primaryKey;column:id;size:64"`
	CustomerID   string            `gorm:"column:customer_id;size:64;index"`
	Subtotal     decimal.Decimal   `gorm:"column:subtotal;type:decimal(10,2)"`
	DeliveryFee  decimal.Decimal   `gorm:"column:delivery_fee;type:decimal(10,2)"`
	Total        decimal.Decimal   `gorm:"column:total;type:decimal(10,2)"`
	Address      string            `gorm:"column:address"`
	Phone        string            `gorm:"column:phone"`
	Notes        string            `gorm:"column:notes"`
	DeliveryDate *time.Time        `gorm:"column:delivery_date;type:date"`
	DeliveryTime string            `gorm:"column:delivery_time"`
	Status       string            `gorm:"column:status;type:varchar(16);index"`
	Items        []OrderItemRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time         `gorm:"column:created_at;index"`
	UpdatedAt    time.Time         `gorm:"column:updated_at"`
}

func (OrderRecord) TableName() string { return "orders" }

// OrderItemRecord maps one order line. The dish name and unit price are
// snapshots taken when the order was placed.
type OrderItemRecord struct {
	ID        string          `gorm:"primaryKey;column:id;size:64"`
	OrderID   string          `gorm:"column:order_id;size:64;index"`
	Position  int             `gorm:"column:position"`
	DishID    string          `gorm:"column:dish_id;size:64;index"`
	DishName  string          `gorm:"column:dish_name"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(10,2)"`
	Portion   string          `gorm:"column:portion"`
}

func (OrderItemRecord) TableName() string { return "order_items" }

// Create writes the order row and its item rows in a single transaction.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	now := time.Now().UTC()
	record.ID = uuid.NewString()
	record.CreatedAt = now
	record.UpdatedAt = now
	for i := range record.Items {
		record.Items[i].ID = uuid.NewString()
		record.Items[i].OrderID = record.ID
		record.Items[i].Position = i
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&record).Error; err != nil {
			return err
		}
		return tx.Create(&record.Items).Error
	})
	if err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record OrderRecord
	err := r.withItems(r.db.WithContext(ctx)).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.withItems(r.db.WithContext(ctx))
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		query = query.Where("status IN ?", statuses)
	}
	var records []OrderRecord
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

// UpdateStatus is a compare-and-set on the status column.
func (r *Repository) UpdateStatus(ctx context.Context, id string, from, to domain.Status) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).
		Model(&OrderRecord{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{"status": string(to), "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&OrderRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ports.ErrNotFound
		}
		return nil, ports.ErrStatusConflict
	}
	return r.GetByID(ctx, id)
}

type summaryRow struct {
	TotalOrders   int64           `gorm:"column:total_orders"`
	PendingOrders int64           `gorm:"column:pending_orders"`
	Revenue       decimal.Decimal `gorm:"column:revenue"`
}

func (r *Repository) Summarize(ctx context.Context) (domain.Summary, error) {
	if err := r.ensureDB(); err != nil {
		return domain.Summary{}, err
	}
	var row summaryRow
	err := r.db.WithContext(ctx).
		Model(&OrderRecord{}).
		Select(
			"COUNT(*) AS total_orders, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_orders, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN total ELSE 0 END), 0) AS revenue",
			string(domain.StatusPending), string(domain.StatusDelivered),
		).
		Scan(&row).Error
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summary{TotalOrders: row.TotalOrders, PendingOrders: row.PendingOrders, Revenue: row.Revenue}, nil
}

func (r *Repository) CountByCustomer(ctx context.Context) (map[string]int64, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var rows []struct {
		CustomerID string `gorm:"column:customer_id"`
		Orders     int64  `gorm:"column:orders"`
	}
	err := r.db.WithContext(ctx).
		Model(&OrderRecord{}).
		Select("customer_id, COUNT(*) AS orders").
		Group("customer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.CustomerID] = row.Orders
	}
	return counts, nil
}

func (r *Repository) withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") })
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) OrderRecord {
	record := OrderRecord{
		ID:           order.ID,
		CustomerID:   order.CustomerID,
		Subtotal:     order.Subtotal,
		DeliveryFee:  order.DeliveryFee,
		Total:        order.Total,
		Address:      order.Delivery.Address,
		Phone:        order.Delivery.Phone,
		Notes:        order.Delivery.Notes,
		DeliveryDate: order.Delivery.Date,
		DeliveryTime: order.Delivery.Time,
		Status:       string(order.Status),
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
	record.Items = make([]OrderItemRecord, 0, len(order.Items))
	for _, item := range order.Items {
		record.Items = append(record.Items, OrderItemRecord{
			ID:        item.ID,
			DishID:    item.DishID,
			DishName:  item.DishName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Portion:   item.Portion,
		})
	}
	return record
}

func (r OrderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:          r.ID,
		CustomerID:  r.CustomerID,
		Subtotal:    r.Subtotal,
		DeliveryFee: r.DeliveryFee,
		Total:       r.Total,
		Delivery: domain.Delivery{
			Address: r.Address,
			Phone:   r.Phone,
			Notes:   r.Notes,
			Date:    r.DeliveryDate,
			Time:    r.DeliveryTime,
		},
		Status:    domain.Status(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	order.Items = make([]domain.Item, 0, len(r.Items))
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.Item{
			ID:        item.ID,
			DishID:    item.DishID,
			DishName:  item.DishName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Portion:   item.Portion,
		})
	}
	return order
}
