package config

// Default paths
const (
	// DefaultDatabasePath is where settings, export history and marks are kept
	DefaultDatabasePath = "./calibre-xmnote.db"

	// DefaultAuditDir receives a copy of every document sent to the device
	DefaultAuditDir = "./audit"
)
