package domain

import "context"

// ResumeUpload is a file posted for text extraction.
type ResumeUpload struct {
	Filename string
	Data     []byte
}

type ExtractTextResponse struct {
	Text  string `json:"text"`
	Chars int    `json:"chars"`
}

type UploadUsecase interface {
	ExtractText(ctx context.Context, caller Caller, upload ResumeUpload) (*ExtractTextResponse, error)
}

// HealthStatus reports each dependency as "ok", "degraded" or "disabled".
type HealthStatus struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthStatus
}
