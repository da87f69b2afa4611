package models

import "time"

const (
	StatusCompressed = "compressed"
	StatusSkipped    = "skipped"
)

// Stage names the step of the per-item pipeline that failed.
type Stage string

const (
	StageSetup      Stage = "setup"
	StageDownload   Stage = "download"
	StageDecode     Stage = "decode"
	StageCompress   Stage = "compress"
	StageUpload     Stage = "upload"
	StageUnexpected Stage = "unexpected"
)

// ItemResult is the outcome of processing one image. Exactly one of the
// success fields (OutputKey onwards) or the skip fields (Stage, Reason) is set.
type ItemResult struct {
	FileID       string `json:"file_id"`
	FileName     string `json:"file_name"`
	MIMEType     string `json:"mime_type"`
	Status       string `json:"status"`
	OriginalSize int64  `json:"original_size"`

	OutputName     string `json:"output_name,omitempty"`
	OutputKey      string `json:"output_key,omitempty"`
	CompressedSize int64  `json:"compressed_size,omitempty"`
	Quality        int    `json:"quality,omitempty"`
	Attempts       int    `json:"attempts,omitempty"`
	WithinBudget   bool   `json:"within_budget,omitempty"`
	Checksum       string `json:"checksum,omitempty"`

	Stage  Stage  `json:"stage,omitempty"`
	Reason string `json:"reason,omitempty"`

	ProcessedAt time.Time `json:"processed_at"`
}

// Skip marks the result as skipped at stage with err's message.
func (r ItemResult) Skip(stage Stage, err error) ItemResult {
	r.Status = StatusSkipped
	r.Stage = stage
	r.Reason = err.Error()
	return r
}

func (r ItemResult) Succeeded() bool {
	return r.Status == StatusCompressed
}
