package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/mrlokans/calibre-xmnote/internal/entities"
	"github.com/mrlokans/calibre-xmnote/internal/logger"
	"github.com/mrlokans/calibre-xmnote/internal/validate"
	"github.com/mrlokans/calibre-xmnote/internal/xmnote"
)

// ErrNoBooksSelected is returned when an export is started without books.
var ErrNoBooksSelected = errors.New("no books selected")

// Exporter sends the highlights of selected books to the configured device.
type Exporter struct {
	library     LibraryReader
	sender      DocumentSender
	settings    DeviceSettings
	history     ExportHistory
	auditor     DocumentAuditor
	log         logger.Logger
	portEnabled bool
}

// ExporterOption customizes an Exporter.
type ExporterOption func(*Exporter)

// WithHistory records every send attempt.
func WithHistory(history ExportHistory) ExporterOption {
	return func(e *Exporter) { e.history = history }
}

// WithAuditor saves a copy of every outgoing document.
func WithAuditor(auditor DocumentAuditor) ExporterOption {
	return func(e *Exporter) { e.auditor = auditor }
}

// WithLogger sets the logger; the default discards everything.
func WithLogger(log logger.Logger) ExporterOption {
	return func(e *Exporter) { e.log = log }
}

// WithConfigurablePort makes the exporter use the saved server_port instead
// of the device's default port.
func WithConfigurablePort(enabled bool) ExporterOption {
	return func(e *Exporter) { e.portEnabled = enabled }
}

func NewExporter(library LibraryReader, sender DocumentSender, settings DeviceSettings, opts ...ExporterOption) *Exporter {
	e := &Exporter{
		library:  library,
		sender:   sender,
		settings: settings,
		log:      logger.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Target resolves and validates the device address from current settings.
func (e *Exporter) Target() (xmnote.Target, error) {
	ip := e.settings.ServerIPAddr()
	if err := validate.IPAddress(ip); err != nil {
		return xmnote.Target{}, err
	}

	target := xmnote.Target{IPAddr: ip, Port: xmnote.DefaultPort}
	if !e.portEnabled {
		return target, nil
	}

	port := e.settings.ServerPort()
	if err := validate.Port(port); err != nil {
		return xmnote.Target{}, err
	}
	target.Port, _ = strconv.Atoi(port)
	return target, nil
}

// Export sends one request per book, in the given order. It stops at the first
// failure and returns the results gathered so far together with the error.
// An invalid target is reported before anything is sent.
func (e *Exporter) Export(ctx context.Context, bookIDs []int64) (ExportResult, error) {
	if len(bookIDs) == 0 {
		return ExportResult{}, ErrNoBooksSelected
	}

	target, err := e.Target()
	if err != nil {
		return ExportResult{}, err
	}

	result := ExportResult{TargetURL: target.URL(), Books: make([]BookResult, 0, len(bookIDs))}
	log := e.log.With(logger.String("target", result.TargetURL))
	log.Info("starting export", logger.Int64s("book_ids", bookIDs))

	for _, bookID := range bookIDs {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		bookResult, err := e.exportBook(ctx, log, target, bookID)
		if bookResult != nil {
			result.Books = append(result.Books, *bookResult)
		}
		if err != nil {
			log.Warn("export stopped", logger.Int64("book_id", bookID), logger.Error(err))
			return result, err
		}
	}

	log.Info("export finished", logger.Int("books", len(result.Books)))
	return result, nil
}

func (e *Exporter) exportBook(ctx context.Context, log logger.Logger, target xmnote.Target, bookID int64) (*BookResult, error) {
	book, err := e.library.GetBook(bookID)
	if err != nil {
		return nil, fmt.Errorf("book %d: %w", bookID, err)
	}

	annotations, err := e.library.GetAnnotations(bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotations for book %d: %w", bookID, err)
	}

	doc, err := xmnote.BuildDocument(*book, annotations)
	if err != nil {
		return nil, fmt.Errorf("book %d (%s): %w", bookID, book.Title, err)
	}

	res := &BookResult{
		BookID:  bookID,
		Title:   book.Title,
		Entries: len(doc.Entries),
	}

	if e.auditor != nil {
		name, err := e.auditor.SaveDocument(bookID, doc)
		if err != nil {
			log.Warn("failed to save audit copy", logger.Int64("book_id", bookID), logger.Error(err))
		}
		res.AuditFile = name
	}

	resp, sendErr := e.sender.Send(ctx, target, doc)
	if sendErr != nil {
		res.Status = entities.ExportStatusFailed
		res.Error = sendErr.Error()
	} else {
		res.Status = entities.ExportStatusSent
		res.Response = resp
		log.Info("book sent", logger.Int64("book_id", bookID), logger.Int("entries", res.Entries))
	}

	e.record(log, target, res)
	return res, sendErr
}

func (e *Exporter) record(log logger.Logger, target xmnote.Target, res *BookResult) {
	if e.history == nil {
		return
	}
	record := &entities.ExportRecord{
		BookID:    res.BookID,
		Title:     res.Title,
		TargetURL: target.URL(),
		Entries:   res.Entries,
		Status:    res.Status,
		Error:     res.Error,
		AuditFile: res.AuditFile,
	}
	if err := e.history.RecordExport(record); err != nil {
		log.Warn("failed to record export history", logger.Int64("book_id", res.BookID), logger.Error(err))
	}
}
