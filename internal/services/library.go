package services

import (
	"errors"
	"fmt"

	"github.com/mrlokans/calibre-xmnote/internal/calibre"
	"github.com/mrlokans/calibre-xmnote/internal/entities"
	"github.com/mrlokans/calibre-xmnote/internal/logger"
)

// SingleFormatLabel is stored with every mark set by MarkSingleFormat.
const SingleFormatLabel = "single_format"

// ErrNoLibrary is returned when no Calibre library is configured.
var ErrNoLibrary = errors.New("calibre library is not configured (set CALIBRE_LIBRARY_PATH or --library)")

// ErrEmptyLibrary is returned by OpenLatest when the library has no books.
var ErrEmptyLibrary = errors.New("calibre library has no books")

// ErrNoFormats is returned by OpenLatest when the newest book has no files.
var ErrNoFormats = errors.New("book has no formats")

// LibraryService implements the non-export actions of the dialog.
type LibraryService struct {
	library  LibraryReader
	settings DeviceSettings
	marks    MarkStore
	opener   FileOpener
	log      logger.Logger
}

func NewLibraryService(library LibraryReader, settings DeviceSettings, marks MarkStore, opener FileOpener, log logger.Logger) *LibraryService {
	if log == nil {
		log = logger.NewNop()
	}
	return &LibraryService{
		library:  library,
		settings: settings,
		marks:    marks,
		opener:   opener,
		log:      log,
	}
}

// Summary returns the dialog label for the given selection. The IP is shown
// as stored, valid or not.
func (s *LibraryService) Summary(bookIDs []int64) (string, error) {
	titles := make([]string, 0, len(bookIDs))
	for _, id := range bookIDs {
		book, err := s.library.GetBook(id)
		if err != nil {
			return "", fmt.Errorf("book %d: %w", id, err)
		}
		titles = append(titles, book.Title)
	}
	return SummaryLabel(s.settings.ServerIPAddr(), titles), nil
}

// Books lists the whole library.
func (s *LibraryService) Books() ([]entities.Book, error) {
	return s.library.ListBooks()
}

// MarkSingleFormat marks every book that has exactly one format, replacing
// the previous mark set, and returns the marked ids.
func (s *LibraryService) MarkSingleFormat() ([]int64, error) {
	ids, err := s.library.BooksWithSingleFormat()
	if err != nil {
		return nil, fmt.Errorf("failed to find single-format books: %w", err)
	}
	if err := s.marks.ReplaceMarks(ids, SingleFormatLabel); err != nil {
		return nil, fmt.Errorf("failed to save marks: %w", err)
	}
	s.log.Info("marked single-format books", logger.Int("count", len(ids)))
	return ids, nil
}

// MarkedBooks returns the ids marked by the last MarkSingleFormat call.
func (s *LibraryService) MarkedBooks() ([]int64, error) {
	return s.marks.MarkedBookIDs()
}

// OpenLatest opens the first format of the most recently added book and
// returns that book together with the opened path.
func (s *LibraryService) OpenLatest() (*entities.Book, string, error) {
	book, err := s.library.LatestAdded()
	if errors.Is(err, calibre.ErrBookNotFound) {
		return nil, "", ErrEmptyLibrary
	}
	if err != nil {
		return nil, "", err
	}
	if book == nil {
		return nil, "", ErrEmptyLibrary
	}
	if len(book.Formats) == 0 {
		return book, "", fmt.Errorf("%w: %s", ErrNoFormats, book.Title)
	}

	path, err := s.library.FormatPath(book, book.Formats[0].Format)
	if err != nil {
		return book, "", err
	}
	if err := s.opener.Open(path); err != nil {
		return book, path, fmt.Errorf("failed to open %s: %w", path, err)
	}
	s.log.Info("opened latest book", logger.Int64("book_id", book.ID), logger.String("path", path))
	return book, path, nil
}
