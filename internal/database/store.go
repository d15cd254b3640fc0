package database

import (
	"context"

	"foodtruck-pos/internal/models"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Store is the gorm implementation of every store interface the services
// declare. All lookups are scoped by truck.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql db")
	}
	return errors.Wrap(sqlDB.PingContext(ctx), "ping")
}

func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return errors.Wrap(err, op)
}
