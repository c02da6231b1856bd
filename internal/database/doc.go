// Package database provides the local state store for the exporter.
//
// The Calibre library itself is read through package calibre and is never
// written; this database only keeps what the exporter owns:
//
//	database/
//	├── database.go   # Connection setup, migrations, facade methods
//	├── settings/     # Device address preferences (key/value)
//	├── exports/      # History of send attempts
//	└── marks/        # Book ids flagged by the mark-single-format action
//
// Each sub-package provides a Repository constructed from a *gorm.DB, so
// callers that only need one concern can depend on it directly:
//
//	db, err := database.NewDatabase("./xmnote.db")
//	history := exports.NewRepository(db.DB)
//	records, err := history.Recent(20)
package database
