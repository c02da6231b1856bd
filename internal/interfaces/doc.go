// Package interfaces holds compile-time checks that the concrete types wired
// in internal/entrypoint satisfy the interfaces their consumers declare.
//
// Consumers define the narrow interface they need next to the code that uses
// it:
//
//   - services.LibraryReader, DocumentSender, DeviceSettings, ExportHistory,
//     MarkStore, DocumentAuditor, FileOpener (internal/services/interfaces.go)
//   - http.BookExporter, LibraryActions, DeviceSettingsStore,
//     ExportHistoryReader, Pinger (internal/http/stores.go)
//   - settingsstore.Backend (internal/settingsstore/settingsstore.go)
//
// When adding an implementation, add a check to checks.go:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
package interfaces
