package services

import (
	"context"

	"github.com/mrlokans/calibre-xmnote/internal/entities"
	"github.com/mrlokans/calibre-xmnote/internal/xmnote"
)

// LibraryReader provides read-only access to the Calibre library.
type LibraryReader interface {
	GetBook(id int64) (*entities.Book, error)
	ListBooks() ([]entities.Book, error)
	GetAnnotations(bookID int64) ([]entities.Annotation, error)
	BooksWithSingleFormat() ([]int64, error)
	LatestAdded() (*entities.Book, error)
	FormatPath(book *entities.Book, format string) (string, error)
}

// DocumentSender delivers a document to the device.
type DocumentSender interface {
	Send(ctx context.Context, target xmnote.Target, doc *xmnote.Document) (xmnote.Response, error)
}

// DeviceSettings resolves the currently configured device address.
type DeviceSettings interface {
	ServerIPAddr() string
	ServerPort() string
}

// ExportHistory stores one record per attempted send.
type ExportHistory interface {
	RecordExport(record *entities.ExportRecord) error
}

// MarkStore persists the mark set produced by the single-format action.
type MarkStore interface {
	ReplaceMarks(bookIDs []int64, label string) error
	MarkedBookIDs() ([]int64, error)
}

// DocumentAuditor keeps a copy of outgoing documents. It returns the file name.
type DocumentAuditor interface {
	SaveDocument(bookID int64, payload any) (string, error)
}

// FileOpener opens a file with the desktop's default application.
type FileOpener interface {
	Open(path string) error
}

// BookResult is the outcome of exporting one book.
type BookResult struct {
	BookID    int64                 `json:"book_id"`
	Title     string                `json:"title"`
	Entries   int                   `json:"entries"`
	Status    entities.ExportStatus `json:"status"`
	Error     string                `json:"error,omitempty"`
	AuditFile string                `json:"audit_file,omitempty"`
	Response  xmnote.Response       `json:"response,omitempty"`
}

// ExportResult contains the outcome of an export operation.
type ExportResult struct {
	TargetURL string       `json:"target_url"`
	Books     []BookResult `json:"books"`
}

// Sent returns how many books reached the device.
func (r ExportResult) Sent() int {
	n := 0
	for _, b := range r.Books {
		if b.Status == entities.ExportStatusSent {
			n++
		}
	}
	return n
}
