package util

import (
	"encoding/json"
	"io"
)

// Envelope is the document every command prints when --json is set.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	DryRun  bool        `json:"dry_run,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Encode writes the envelope to w as indented JSON.
func (e Envelope) Encode(w io.Writer) error {
	return PrintJSON(w, e)
}

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
