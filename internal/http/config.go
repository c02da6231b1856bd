package http

import "github.com/mrlokans/calibre-xmnote/internal/logger"

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Exporter BookExporter
	Library  LibraryActions
	Settings DeviceSettingsStore
	History  ExportHistoryReader

	// Health checks; either may be nil
	Database Pinger
	Calibre  Pinger

	// Whether the saved server_port is used for exports
	PortEnabled bool

	Logger logger.Logger

	// Application info
	Version string
}
