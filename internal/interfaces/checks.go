package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/calibre-xmnote/internal/audit"
	"github.com/mrlokans/calibre-xmnote/internal/calibre"
	"github.com/mrlokans/calibre-xmnote/internal/database"
	"github.com/mrlokans/calibre-xmnote/internal/desktop"
	"github.com/mrlokans/calibre-xmnote/internal/http"
	"github.com/mrlokans/calibre-xmnote/internal/services"
	"github.com/mrlokans/calibre-xmnote/internal/settingsstore"
	"github.com/mrlokans/calibre-xmnote/internal/xmnote"
)

// =============================================================================
// Calibre Library
// =============================================================================

var _ services.LibraryReader = (*calibre.Reader)(nil)
var _ http.Pinger = (*calibre.Reader)(nil)

// =============================================================================
// State Database
// =============================================================================

var _ services.ExportHistory = (*database.Database)(nil)
var _ services.MarkStore = (*database.Database)(nil)
var _ settingsstore.Backend = (*database.Database)(nil)
var _ http.ExportHistoryReader = (*database.Database)(nil)
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Device Transport
// =============================================================================

var _ services.DocumentSender = (*xmnote.Client)(nil)
var _ services.DocumentAuditor = (*audit.Auditor)(nil)
var _ services.DeviceSettings = (*settingsstore.SettingsStore)(nil)
var _ http.DeviceSettingsStore = (*settingsstore.SettingsStore)(nil)

// =============================================================================
// Dialog Actions
// =============================================================================

var _ http.BookExporter = (*services.Exporter)(nil)
var _ http.LibraryActions = (*services.LibraryService)(nil)
var _ services.FileOpener = (*desktop.Opener)(nil)
