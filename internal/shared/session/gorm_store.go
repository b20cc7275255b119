package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is the sessions table row used by GormStore
type Record struct {
	ID        string    `gorm:"type:varchar(64);primaryKey"`
	Data      []byte    `gorm:"type:bytea;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Record) TableName() string {
	return "sessions"
}

// GormStore keeps sessions in Postgres for deployments without Redis
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (g *GormStore) Load(ctx context.Context, id string) (*Session, error) {
	var record Record
	err := g.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, time.Now().UTC()).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	return decode(id, record.Data)
}

func (g *GormStore) Save(ctx context.Context, s *Session, ttl time.Duration) error {
	data, err := s.encode()
	if err != nil {
		return err
	}

	record := Record{
		ID:        s.ID,
		Data:      data,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	err = g.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.markSaved()
	return nil
}

func (g *GormStore) Destroy(ctx context.Context, id string) error {
	if err := g.db.WithContext(ctx).Delete(&Record{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// PurgeExpired removes rows past their expiry and returns how many went
func (g *GormStore) PurgeExpired(ctx context.Context) (int64, error) {
	result := g.db.WithContext(ctx).Where("expires_at <= ?", time.Now().UTC()).Delete(&Record{})
	if result.Error != nil {
		return 0, fmt.Errorf("purge sessions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
