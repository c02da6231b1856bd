package database

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/calibre-xmnote/internal/database/exports"
	"github.com/mrlokans/calibre-xmnote/internal/database/marks"
	"github.com/mrlokans/calibre-xmnote/internal/database/settings"
	"github.com/mrlokans/calibre-xmnote/internal/entities"
)

// Database is the local state store. It never touches the Calibre library.
type Database struct {
	DB *gorm.DB

	settings *settings.Repository
	exports  *exports.Repository
	marks    *marks.Repository
}

func NewDatabase(dbPath string) (*Database, error) {
	return newDatabase(dbPath, newGormLogger(os.Stderr))
}

// newGormLogger reports slow queries and real failures only. Unsaved settings
// are looked up on every run, so a missing row is not worth a line.
func newGormLogger(w io.Writer) logger.Interface {
	return logger.New(log.New(w, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func newDatabase(dbPath string, gormLogger logger.Interface) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Setting{},
		&entities.ExportRecord{},
		&entities.BookMark{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Database{
		DB:       db,
		settings: settings.NewRepository(db),
		exports:  exports.NewRepository(db),
		marks:    marks.NewRepository(db),
	}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the underlying connection is usable.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (d *Database) GetSetting(key string) (*entities.Setting, error) {
	return d.settings.GetSetting(key)
}

func (d *Database) SetSetting(key, value string) error {
	return d.settings.SetSetting(key, value)
}

// SetSettings writes all pairs in one transaction so a settings form is saved atomically.
func (d *Database) SetSettings(values map[string]string) error {
	return d.DB.Transaction(func(tx *gorm.DB) error {
		repo := settings.NewRepository(tx)
		for key, value := range values {
			if err := repo.SetSetting(key, value); err != nil {
				return fmt.Errorf("failed to save setting %s: %w", key, err)
			}
		}
		return nil
	})
}

func (d *Database) DeleteSetting(key string) error {
	return d.settings.DeleteSetting(key)
}

func (d *Database) RecordExport(record *entities.ExportRecord) error {
	return d.exports.Create(record)
}

func (d *Database) RecentExports(limit int) ([]entities.ExportRecord, error) {
	return d.exports.Recent(limit)
}

func (d *Database) ExportsForBook(bookID int64, limit int) ([]entities.ExportRecord, error) {
	return d.exports.ForBook(bookID, limit)
}

func (d *Database) ReplaceMarks(bookIDs []int64, label string) error {
	return d.marks.Replace(bookIDs, label)
}

func (d *Database) MarkedBookIDs() ([]int64, error) {
	return d.marks.BookIDs()
}

// IsNotFound reports whether err means the requested row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
