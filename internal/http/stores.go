package http

import (
	"context"

	"github.com/mrlokans/calibre-xmnote/internal/entities"
	"github.com/mrlokans/calibre-xmnote/internal/services"
	"github.com/mrlokans/calibre-xmnote/internal/settingsstore"
)

// This file consolidates the interfaces the controllers depend on.

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping() error
}

// BookExporter sends books to the device.
type BookExporter interface {
	Export(ctx context.Context, bookIDs []int64) (services.ExportResult, error)
}

// LibraryActions covers the dialog actions that do not talk to the device.
type LibraryActions interface {
	Summary(bookIDs []int64) (string, error)
	Books() ([]entities.Book, error)
	MarkSingleFormat() ([]int64, error)
	MarkedBooks() ([]int64, error)
	OpenLatest() (*entities.Book, string, error)
}

// DeviceSettingsStore reads and writes the device address.
type DeviceSettingsStore interface {
	Device() settingsstore.DeviceSettings
	Save(ip, port string) error
	Reset() error
}

// ExportHistoryReader lists past send attempts.
type ExportHistoryReader interface {
	RecentExports(limit int) ([]entities.ExportRecord, error)
	ExportsForBook(bookID int64, limit int) ([]entities.ExportRecord, error)
}
