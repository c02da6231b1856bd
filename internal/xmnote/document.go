// Package xmnote builds and sends export documents to an XMnote device's
// LAN import API.
package xmnote

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/mrlokans/calibre-xmnote/internal/entities"
)

const (
	// DocumentTypeBook is the only document type the exporter produces.
	DocumentTypeBook = 1
	// LocationUnitPosition tells the device entries carry no page numbers.
	LocationUnitPosition = 1

	chapterSeparator = " > "
)

// Layouts Calibre is known to write; anything else goes through dateparse.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
}

// Document is the JSON body accepted by the device's /send endpoint.
type Document struct {
	Title        string  `json:"title"`
	Author       string  `json:"author"`
	Publisher    string  `json:"publisher"`
	PublishDate  int64   `json:"publishDate"`
	Type         int     `json:"type"`
	LocationUnit int     `json:"locationUnit"`
	ISBN         string  `json:"isbn,omitempty"`
	Entries      []Entry `json:"entries"`
}

// Entry is a single highlight inside a Document.
type Entry struct {
	Text    string `json:"text"`
	Note    string `json:"note,omitempty"`
	Chapter string `json:"chapter,omitempty"`
	Time    int64  `json:"time"`
}

// BuildDocument assembles the export document for one book. Removed
// annotations are skipped; the rest keep their input order. A timestamp that
// cannot be parsed aborts the whole book with a *ParseError.
func BuildDocument(book entities.Book, annotations []entities.Annotation) (*Document, error) {
	publishDate, err := ParseTimestamp(book.PubDate)
	if err != nil {
		return nil, &ParseError{Field: "pubdate", Value: book.PubDate, Err: err}
	}

	doc := &Document{
		Title:        book.Title,
		Author:       book.AuthorString(),
		Publisher:    book.Publisher,
		PublishDate:  publishDate,
		Type:         DocumentTypeBook,
		LocationUnit: LocationUnitPosition,
		ISBN:         book.ISBN,
		Entries:      []Entry{},
	}

	for _, a := range annotations {
		if a.Removed {
			continue
		}
		ts, err := ParseTimestamp(a.Timestamp)
		if err != nil {
			return nil, &ParseError{Field: "timestamp", Value: a.Timestamp, AnnotationID: a.ID, Err: err}
		}
		doc.Entries = append(doc.Entries, Entry{
			Text:    a.HighlightedText,
			Note:    a.Notes,
			Chapter: strings.Join(a.TocFamilyTitles, chapterSeparator),
			Time:    ts,
		})
	}

	return doc, nil
}

// ParseTimestamp converts an ISO-ish date string to epoch seconds.
// Strings without a zone are read as UTC.
func ParseTimestamp(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmptyTimestamp
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix(), nil
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return 0, err
	}
	return t.Unix(), nil
}
