package entities

import (
	"time"
)

type ExportStatus string

const (
	ExportStatusSent   ExportStatus = "sent"
	ExportStatusFailed ExportStatus = "failed"
)

// ExportRecord is one attempt to send a book's highlights to a device.
type ExportRecord struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	BookID    int64        `gorm:"index" json:"book_id"`
	Title     string       `gorm:"size:512" json:"title"`
	TargetURL string       `gorm:"size:256" json:"target_url"`
	Entries   int          `json:"entries"`
	Status    ExportStatus `gorm:"size:20;index" json:"status"`
	Error     string       `gorm:"type:text" json:"error,omitempty"`
	AuditFile string       `gorm:"size:64" json:"audit_file,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

func (ExportRecord) TableName() string {
	return "export_records"
}

// BookMark flags a Calibre book id, mirroring the host's marked-books feature.
type BookMark struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookID    int64     `gorm:"uniqueIndex" json:"book_id"`
	Label     string    `gorm:"size:100" json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

func (BookMark) TableName() string {
	return "book_marks"
}
