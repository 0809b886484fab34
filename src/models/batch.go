package models

import "time"

// BatchMetadata records the provenance of an imported batch. It is attached
// to every transaction inserted from that batch but never participates in the
// fingerprint.
type BatchMetadata struct {
	BatchID       string    `json:"batch_id"`
	Source        string    `json:"source"`
	Subtype       Subtype   `json:"subtype"`
	FileHash      string    `json:"file_hash,omitempty"`
	ParserVersion string    `json:"parser_version"`
	ImportedAt    time.Time `json:"imported_at"`
}
