package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/catering-api/internal/domains/admins/domain"
	"github.com/Apurer/catering-api/internal/domains/admins/ports"
)

// SessionStore persists admin sessions in PostgreSQL.
type SessionStore struct {
	db *gorm.DB
}

// NewSessionStore wires a PostgreSQL-backed session store. Caller owns DB lifecycle.
func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

type SessionRecord struct {
	ID        string    `gorm:"primaryKey;column:id;size:64"`
	AdminID   string    `gorm:"column:admin_id;size:64;index"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SessionRecord) TableName() string { return "admin_sessions" }

func (s *SessionStore) Save(ctx context.Context, session domain.Session) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if session.ID == "" || session.AdminID == "" {
		return errors.New("session id and admin id are required")
	}
	return s.db.WithContext(ctx).Create(&SessionRecord{
		ID:        session.ID,
		AdminID:   session.AdminID,
		ExpiresAt: session.ExpiresAt,
		CreatedAt: session.CreatedAt,
	}).Error
}

func (s *SessionStore) Get(ctx context.Context, id string) (domain.Session, error) {
	if err := s.ensureDB(); err != nil {
		return domain.Session{}, err
	}
	var record SessionRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Session{}, ports.ErrNotFound
		}
		return domain.Session{}, err
	}
	return domain.Session{ID: record.ID, AdminID: record.AdminID, ExpiresAt: record.ExpiresAt, CreatedAt: record.CreatedAt}, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&SessionRecord{}, "id = ?", id).Error
}

// PurgeExpired removes all expired sessions. Used by the session-purger job.
func (s *SessionStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&SessionRecord{})
	return result.RowsAffected, result.Error
}

func (s *SessionStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres session store not configured")
	}
	return nil
}

var _ ports.SessionStore = (*SessionStore)(nil)
