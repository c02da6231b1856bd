package entities

import (
	"strings"
	"time"
)

// Book is a read-only snapshot of a Calibre book's metadata.
type Book struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Authors   []string  `json:"authors"`
	Publisher string    `json:"publisher,omitempty"`
	PubDate   string    `json:"pubdate,omitempty"` // as stored by Calibre, e.g. "2010-01-01 00:00:00+00:00"
	ISBN      string    `json:"isbn,omitempty"`
	Path      string    `json:"path"` // relative to the library root
	Formats   []Format  `json:"formats,omitempty"`
	AddedAt   time.Time `json:"added_at"`
}

// Format is one stored file of a book.
type Format struct {
	Format string `json:"format"` // upper case, e.g. "EPUB"
	Name   string `json:"name"`   // file name without extension
}

// AuthorString joins authors the way Calibre displays them.
func (b Book) AuthorString() string {
	names := make([]string, 0, len(b.Authors))
	for _, a := range b.Authors {
		if a == "" {
			continue
		}
		names = append(names, strings.ReplaceAll(a, "&", "&&"))
	}
	return strings.Join(names, " & ")
}

// Annotation is a highlight stored in a Calibre library.
type Annotation struct {
	ID              int64    `json:"id"`
	BookID          int64    `json:"book_id"`
	Format          string   `json:"format"`
	HighlightedText string   `json:"highlighted_text"`
	Notes           string   `json:"notes,omitempty"`
	TocFamilyTitles []string `json:"toc_family_titles,omitempty"`
	Timestamp       string   `json:"timestamp"`
	Removed         bool     `json:"removed,omitempty"`
}
