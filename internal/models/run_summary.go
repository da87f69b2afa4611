package models

import (
	"sort"
	"time"
)

// RunSummary aggregates one run over a remote folder.
type RunSummary struct {
	RunID      string         `json:"run_id"`
	Folder     string         `json:"folder"`
	FolderName string         `json:"folder_name"`
	MaxBytes   int64          `json:"max_bytes"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	TotalFiles int            `json:"total_files"`
	ImageFiles int            `json:"image_files"`
	MIMETypes  map[string]int `json:"mime_types"`
	Results    []ItemResult   `json:"results"`
}

func (s *RunSummary) Record(result ItemResult) {
	s.Results = append(s.Results, result)
}

func (s *RunSummary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.Succeeded() {
			n++
		}
	}
	return n
}

func (s *RunSummary) Skipped() int {
	return len(s.Results) - s.Succeeded()
}

// Savings returns the total original and compressed sizes of successful items.
func (s *RunSummary) Savings() (original, compressed int64) {
	for _, r := range s.Results {
		if !r.Succeeded() {
			continue
		}
		original += r.OriginalSize
		compressed += r.CompressedSize
	}
	return original, compressed
}

// SortedMIMETypes returns the MIME types seen in the folder in a stable order.
func (s *RunSummary) SortedMIMETypes() []string {
	types := make([]string, 0, len(s.MIMETypes))
	for t := range s.MIMETypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
