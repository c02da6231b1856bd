// Package marks persists the set of book ids flagged by a utility action.
package marks

import (
	"gorm.io/gorm"

	"github.com/mrlokans/calibre-xmnote/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Replace clears the current marks and flags bookIDs instead.
func (r *Repository) Replace(bookIDs []int64, label string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entities.BookMark{}).Error; err != nil {
			return err
		}
		if len(bookIDs) == 0 {
			return nil
		}
		rows := make([]entities.BookMark, 0, len(bookIDs))
		for _, id := range bookIDs {
			rows = append(rows, entities.BookMark{BookID: id, Label: label})
		}
		return tx.Create(&rows).Error
	})
}

// BookIDs returns marked ids in ascending order.
func (r *Repository) BookIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&entities.BookMark{}).Order("book_id").Pluck("book_id", &ids).Error
	return ids, err
}
