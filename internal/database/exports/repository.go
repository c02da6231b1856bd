// Package exports keeps a history of attempts to send books to a device.
package exports

import (
	"gorm.io/gorm"

	"github.com/mrlokans/calibre-xmnote/internal/entities"
)

const defaultRecentLimit = 50

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(record *entities.ExportRecord) error {
	return r.db.Create(record).Error
}

// Recent returns the newest records first. A non-positive limit uses the default.
func (r *Repository) Recent(limit int) ([]entities.ExportRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	var records []entities.ExportRecord
	err := r.db.Order("created_at DESC, id DESC").Limit(limit).Find(&records).Error
	return records, err
}

// ForBook returns the attempts for one Calibre book, newest first.
func (r *Repository) ForBook(bookID int64, limit int) ([]entities.ExportRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	var records []entities.ExportRecord
	err := r.db.Where("book_id = ?", bookID).Order("created_at DESC, id DESC").Limit(limit).Find(&records).Error
	return records, err
}
