// Package audit keeps a copy of every document sent to a device.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type Auditor struct {
	AuditDir string
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
	}
}

// SaveDocument writes payload as indented JSON to "<bookID>-<uuid4>.json" and
// returns the file name. A nil auditor or empty directory disables auditing.
func (a *Auditor) SaveDocument(bookID int64, payload any) (string, error) {
	if a == nil || a.AuditDir == "" {
		return "", nil
	}

	if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audit directory: %w", err)
	}

	filename := fmt.Sprintf("%d-%s.json", bookID, uuid.New().String())

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal document to JSON: %w", err)
	}

	if err := os.WriteFile(filepath.Join(a.AuditDir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}

	return filename, nil
}
