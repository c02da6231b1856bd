package entrypoint

import (
	"context"

	"github.com/mrlokans/calibre-xmnote/internal/entities"
	"github.com/mrlokans/calibre-xmnote/internal/services"
)

// unavailableExporter and unavailableLibrary stand in for the Calibre-backed
// services when no library is configured, so settings and history stay usable.
type unavailableExporter struct{}

func (unavailableExporter) Export(context.Context, []int64) (services.ExportResult, error) {
	return services.ExportResult{}, services.ErrNoLibrary
}

type unavailableLibrary struct{}

func (unavailableLibrary) Summary([]int64) (string, error) { return "", services.ErrNoLibrary }
func (unavailableLibrary) Books() ([]entities.Book, error) { return nil, services.ErrNoLibrary }
func (unavailableLibrary) MarkSingleFormat() ([]int64, error) { return nil, services.ErrNoLibrary }
func (unavailableLibrary) MarkedBooks() ([]int64, error) { return nil, services.ErrNoLibrary }
func (unavailableLibrary) OpenLatest() (*entities.Book, string, error) { return nil, "", services.ErrNoLibrary }
