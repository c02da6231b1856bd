// Package calibre reads book metadata and highlights from a Calibre library.
//
// The library's metadata.db is opened read-only; nothing here writes to it.
package calibre

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mrlokans/calibre-xmnote/internal/entities"
)

const metadataDBName = "metadata.db"

// ErrBookNotFound is returned when a book id does not exist in the library.
var ErrBookNotFound = errors.New("book not found in calibre library")

// Calibre stores date-added as e.g. "2023-05-01 10:20:30.123456+00:00".
var addedLayouts = []string{
	"2006-01-02 15:04:05.999999-07:00",
	"2006-01-02 15:04:05-07:00",
	time.RFC3339Nano,
}

type Reader struct {
	libraryPath string
	db          *sql.DB
}

// annotData is the JSON stored in annotations.annot_data for highlights.
type annotData struct {
	Type            string   `json:"type"`
	HighlightedText string   `json:"highlighted_text"`
	Notes           string   `json:"notes"`
	TocFamilyTitles []string `json:"toc_family_titles"`
	Timestamp       string   `json:"timestamp"`
	Removed         bool     `json:"removed"`
}

// NewReader opens <libraryPath>/metadata.db read-only.
func NewReader(libraryPath string) (*Reader, error) {
	if libraryPath == "" {
		return nil, fmt.Errorf("calibre library path is not set")
	}
	dbPath := filepath.Join(libraryPath, metadataDBName)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("calibre database not found: %s", dbPath)
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open calibre database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open calibre database: %w", err)
	}

	return &Reader{libraryPath: libraryPath, db: db}, nil
}

func (r *Reader) Close() error {
	return r.db.Close()
}

// Ping checks that metadata.db is still readable.
func (r *Reader) Ping() error {
	return r.db.Ping()
}

func (r *Reader) LibraryPath() string {
	return r.libraryPath
}

// GetBook returns the metadata snapshot for one book.
func (r *Reader) GetBook(id int64) (*entities.Book, error) {
	var book entities.Book
	var pubdate, added sql.NullString
	err := r.db.QueryRow(`
		SELECT id, title, pubdate, timestamp, path
		FROM books
		WHERE id = ?
	`, id).Scan(&book.ID, &book.Title, &pubdate, &added, &book.Path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrBookNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query book %d: %w", id, err)
	}
	book.PubDate = pubdate.String
	book.AddedAt = parseAdded(added.String)

	if book.Authors, err = r.authors(id); err != nil {
		return nil, err
	}
	if book.Publisher, err = r.publisher(id); err != nil {
		return nil, err
	}
	if book.ISBN, err = r.isbn(id); err != nil {
		return nil, err
	}
	if book.Formats, err = r.formats(id); err != nil {
		return nil, err
	}
	return &book, nil
}

// ListBooks returns every book in the library ordered by id.
func (r *Reader) ListBooks() ([]entities.Book, error) {
	ids, err := r.queryIDs(`SELECT id FROM books ORDER BY id`)
	if err != nil {
		return nil, err
	}
	books := make([]entities.Book, 0, len(ids))
	for _, id := range ids {
		book, err := r.GetBook(id)
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	return books, nil
}

// GetAnnotations returns the highlights stored for a book in storage order,
// including ones flagged as removed.
func (r *Reader) GetAnnotations(bookID int64) ([]entities.Annotation, error) {
	rows, err := r.db.Query(`
		SELECT id, book, format, annot_data
		FROM annotations
		WHERE book = ? AND annot_type = 'highlight'
		ORDER BY id
	`, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query annotations: %w", err)
	}
	defer rows.Close()

	var annotations []entities.Annotation
	for rows.Next() {
		var a entities.Annotation
		var raw string
		if err := rows.Scan(&a.ID, &a.BookID, &a.Format, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}

		var data annotData
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, fmt.Errorf("failed to decode annotation %d: %w", a.ID, err)
		}
		a.HighlightedText = data.HighlightedText
		a.Notes = data.Notes
		a.TocFamilyTitles = data.TocFamilyTitles
		a.Timestamp = data.Timestamp
		a.Removed = data.Removed

		annotations = append(annotations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating annotations: %w", err)
	}
	return annotations, nil
}

// BooksWithSingleFormat returns ids of books that have exactly one format.
func (r *Reader) BooksWithSingleFormat() ([]int64, error) {
	return r.queryIDs(`
		SELECT book
		FROM data
		GROUP BY book
		HAVING COUNT(*) = 1
		ORDER BY book
	`)
}

// LatestAdded returns the most recently added book.
func (r *Reader) LatestAdded() (*entities.Book, error) {
	var id int64
	err := r.db.QueryRow(`SELECT id FROM books ORDER BY timestamp DESC, id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: library is empty", ErrBookNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest book: %w", err)
	}
	return r.GetBook(id)
}

// FormatPath returns the absolute path of a book's file in the given format,
// or of its first format when format is empty.
func (r *Reader) FormatPath(book *entities.Book, format string) (string, error) {
	if len(book.Formats) == 0 {
		return "", fmt.Errorf("book %d has no formats", book.ID)
	}
	chosen := book.Formats[0]
	if format != "" {
		found := false
		for _, f := range book.Formats {
			if strings.EqualFold(f.Format, format) {
				chosen, found = f, true
				break
			}
		}
		if !found {
			return "", fmt.Errorf("book %d has no %s format", book.ID, strings.ToUpper(format))
		}
	}
	name := chosen.Name + "." + strings.ToLower(chosen.Format)
	return filepath.Join(r.libraryPath, filepath.FromSlash(book.Path), name), nil
}

func (r *Reader) authors(bookID int64) ([]string, error) {
	rows, err := r.db.Query(`
		SELECT authors.name
		FROM books_authors_link
		JOIN authors ON authors.id = books_authors_link.author
		WHERE books_authors_link.book = ?
		ORDER BY books_authors_link.id
	`, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	var authors []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		// Calibre stores a comma in an author name as "|".
		authors = append(authors, strings.ReplaceAll(name, "|", ","))
	}
	return authors, rows.Err()
}

func (r *Reader) publisher(bookID int64) (string, error) {
	var name string
	err := r.db.QueryRow(`
		SELECT publishers.name
		FROM books_publishers_link
		JOIN publishers ON publishers.id = books_publishers_link.publisher
		WHERE books_publishers_link.book = ?
	`, bookID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query publisher: %w", err)
	}
	return name, nil
}

func (r *Reader) isbn(bookID int64) (string, error) {
	var val string
	err := r.db.QueryRow(`
		SELECT val FROM identifiers WHERE book = ? AND type = 'isbn'
	`, bookID).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query isbn: %w", err)
	}
	return val, nil
}

func (r *Reader) formats(bookID int64) ([]entities.Format, error) {
	rows, err := r.db.Query(`
		SELECT format, name FROM data WHERE book = ? ORDER BY id
	`, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to query formats: %w", err)
	}
	defer rows.Close()

	var formats []entities.Format
	for rows.Next() {
		var f entities.Format
		if err := rows.Scan(&f.Format, &f.Name); err != nil {
			return nil, fmt.Errorf("failed to scan format: %w", err)
		}
		f.Format = strings.ToUpper(f.Format)
		formats = append(formats, f)
	}
	return formats, rows.Err()
}

func (r *Reader) queryIDs(query string, args ...any) ([]int64, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func parseAdded(s string) time.Time {
	for _, layout := range addedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
