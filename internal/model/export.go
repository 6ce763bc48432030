package model

import "time"

// PaperExport is the top-level JSON structure for exporting stored papers.
type PaperExport struct {
	ExportedAt time.Time `json:"exported_at"`
	Count      int       `json:"count"`
	Papers     []Paper   `json:"papers"`
}
