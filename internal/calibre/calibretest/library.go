// Package calibretest builds throwaway Calibre libraries for tests.
package calibretest

import (
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// Subset of the real Calibre schema that the reader touches.
const schema = `
CREATE TABLE books (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL DEFAULT 'Unknown',
	sort TEXT,
	timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	pubdate TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	series_index REAL NOT NULL DEFAULT 1.0,
	author_sort TEXT,
	isbn TEXT DEFAULT '',
	path TEXT NOT NULL DEFAULT '',
	uuid TEXT,
	has_cover BOOL DEFAULT 0
);
CREATE TABLE authors (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	sort TEXT,
	link TEXT NOT NULL DEFAULT ''
);
CREATE TABLE books_authors_link (
	id INTEGER PRIMARY KEY,
	book INTEGER NOT NULL,
	author INTEGER NOT NULL
);
CREATE TABLE publishers (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	sort TEXT
);
CREATE TABLE books_publishers_link (
	id INTEGER PRIMARY KEY,
	book INTEGER NOT NULL,
	publisher INTEGER NOT NULL
);
CREATE TABLE identifiers (
	id INTEGER PRIMARY KEY,
	book INTEGER NOT NULL,
	type TEXT NOT NULL DEFAULT 'isbn',
	val TEXT NOT NULL
);
CREATE TABLE data (
	id INTEGER PRIMARY KEY,
	book INTEGER NOT NULL,
	format TEXT NOT NULL,
	uncompressed_size INTEGER NOT NULL DEFAULT 0,
	name TEXT NOT NULL
);
CREATE TABLE annotations (
	id INTEGER PRIMARY KEY,
	book INTEGER NOT NULL,
	format TEXT NOT NULL,
	user_type TEXT NOT NULL,
	user TEXT NOT NULL,
	timestamp REAL NOT NULL,
	annot_id TEXT NOT NULL,
	annot_type TEXT NOT NULL,
	annot_data TEXT NOT NULL,
	searchable_text TEXT NOT NULL DEFAULT ''
);
`

// Book describes a fixture row set.
type Book struct {
	Title     string
	Authors   []string
	Publisher string
	PubDate   string // e.g. "2010-01-01 00:00:00+00:00"
	Added     string
	ISBN      string
	Path      string
	Formats   []Format
}

// Format is one row of the data table.
type Format struct {
	Format string // e.g. "EPUB"
	Name   string // file name without extension
}

// Highlight describes one annotations row.
type Highlight struct {
	Text     string
	Notes    string
	Chapters []string
	Time     string
	Removed  bool
	Type     string // defaults to "highlight"
	RawData  string // overrides the generated annot_data when set
}

// Library is a Calibre library directory with a metadata.db.
type Library struct {
	Path string
	t    *testing.T
	db   *sql.DB
}

// NewLibrary creates an empty library in a temp directory.
func NewLibrary(t *testing.T) *Library {
	t.Helper()

	dir := t.TempDir()
	db, err := sql.Open("sqlite3", filepath.Join(dir, "metadata.db"))
	if err != nil {
		t.Fatalf("failed to create calibre database: %v", err)
	}
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create calibre schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return &Library{Path: dir, t: t, db: db}
}

// AddBook inserts a book with its authors, publisher, identifiers and formats.
func (l *Library) AddBook(b Book) int64 {
	l.t.Helper()

	if b.PubDate == "" {
		b.PubDate = "0101-01-01 00:00:00+00:00"
	}
	if b.Added == "" {
		b.Added = "2024-01-01 00:00:00+00:00"
	}
	res := l.exec(`INSERT INTO books (title, pubdate, timestamp, path) VALUES (?, ?, ?, ?)`,
		b.Title, b.PubDate, b.Added, b.Path)
	bookID, err := res.LastInsertId()
	if err != nil {
		l.t.Fatalf("failed to read book id: %v", err)
	}

	for _, name := range b.Authors {
		var authorID int64
		err := l.db.QueryRow(`SELECT id FROM authors WHERE name = ?`, name).Scan(&authorID)
		if err == sql.ErrNoRows {
			r := l.exec(`INSERT INTO authors (name, sort) VALUES (?, ?)`, name, name)
			authorID, _ = r.LastInsertId()
		} else if err != nil {
			l.t.Fatalf("failed to look up author: %v", err)
		}
		l.exec(`INSERT INTO books_authors_link (book, author) VALUES (?, ?)`, bookID, authorID)
	}

	if b.Publisher != "" {
		r := l.exec(`INSERT INTO publishers (name, sort) VALUES (?, ?)`, b.Publisher, b.Publisher)
		publisherID, _ := r.LastInsertId()
		l.exec(`INSERT INTO books_publishers_link (book, publisher) VALUES (?, ?)`, bookID, publisherID)
	}

	if b.ISBN != "" {
		l.exec(`INSERT INTO identifiers (book, type, val) VALUES (?, 'isbn', ?)`, bookID, b.ISBN)
	}

	for _, f := range b.Formats {
		l.exec(`INSERT INTO data (book, format, name) VALUES (?, ?, ?)`, bookID, f.Format, f.Name)
	}

	return bookID
}

// AddHighlight inserts one annotation row for bookID.
func (l *Library) AddHighlight(bookID int64, h Highlight) {
	l.t.Helper()

	annotType := h.Type
	if annotType == "" {
		annotType = "highlight"
	}

	data := h.RawData
	if data == "" {
		payload := map[string]any{
			"type":             annotType,
			"highlighted_text": h.Text,
			"timestamp":        h.Time,
		}
		if h.Notes != "" {
			payload["notes"] = h.Notes
		}
		if len(h.Chapters) > 0 {
			payload["toc_family_titles"] = h.Chapters
		}
		if h.Removed {
			payload["removed"] = true
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			l.t.Fatalf("failed to encode annotation: %v", err)
		}
		data = string(encoded)
	}

	l.exec(`
		INSERT INTO annotations (book, format, user_type, user, timestamp, annot_id, annot_type, annot_data)
		VALUES (?, 'EPUB', 'local', 'viewer', 0, hex(randomblob(8)), ?, ?)
	`, bookID, annotType, data)
}

func (l *Library) exec(query string, args ...any) sql.Result {
	l.t.Helper()
	res, err := l.db.Exec(query, args...)
	if err != nil {
		l.t.Fatalf("fixture query failed: %v", err)
	}
	return res
}
