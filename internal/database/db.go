package database

import (
	"time"

	"foodtruck-pos/internal/config"
	"foodtruck-pos/internal/logging"
	"foodtruck-pos/internal/models"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const connectAttempts = 5

// Connect opens the database named by cfg, waiting for it to come up.
func Connect(cfg *config.Config, log logrus.FieldLogger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DBDSN)
	default:
		dialector = mysql.Open(cfg.DBDSN)
	}

	var (
		db  *gorm.DB
		err error
	)
	// The DB container may still be starting, so give it a few tries
	for i := 0; i < connectAttempts; i++ {
		db, err = Open(dialector, log, cfg.LogLevel == "debug")
		if err == nil {
			break
		}
		log.WithError(err).Warnf("Failed to connect to database. Retrying in 2 seconds... (%d/%d)", i+1, connectAttempts)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to database after %d attempts", connectAttempts)
	}

	log.WithField("driver", cfg.DBDriver).Info("Connected to database")
	return db, nil
}

// Open opens a single connection pool for dialector.
func Open(dialector gorm.Dialector, log logrus.FieldLogger, debug bool) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		Logger: logging.NewGormLogger(log, debug),
		// Order lines keep their menu snapshot, so menus may be deleted freely
		DisableForeignKeyConstraintWhenMigrating: true,
	})
}

// Migrate syncs the schema.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.FoodTruck{},
		&models.Menu{},
		&models.BusinessDay{},
		&models.Order{},
		&models.OrderLine{},
	)
	return errors.Wrap(err, "auto-migrate")
}
