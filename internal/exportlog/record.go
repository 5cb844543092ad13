// Package exportlog keeps a local history of files written by demodash
// exports.
package exportlog

import "time"

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Entry is one exported file, or one failed attempt to write it.
type Entry struct {
	ID        int64     `json:"id"`
	BatchID   string    `json:"batch_id"`
	Timestamp time.Time `json:"timestamp"`
	Category  string    `json:"category"`
	Format    string    `json:"format"`
	Path      string    `json:"path,omitempty"`
	Rows      int       `json:"rows"`
	Outcome   string    `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
}
