package domain

import (
	"context"

	"resumeai-backend/pkg/document"
)

// Export formats for /api/export-pdf.
const (
	ExportFormatHTML = "html"
	ExportFormatPDF  = "pdf"
)

// ExportDocumentRequest carries either free-form content or a structured resume.
type ExportDocumentRequest struct {
	Content    string           `json:"content" binding:"max=60000"`
	Title      string           `json:"title" binding:"max=200"`
	Type       string           `json:"type" binding:"omitempty,oneof=resume cover-letter"`
	Format     string           `json:"format" binding:"omitempty,oneof=html pdf"`
	Structured *document.Resume `json:"structured"`
}

// HasBody reports whether the request names anything to render.
func (r ExportDocumentRequest) HasBody() bool {
	return r.Structured != nil || r.Content != ""
}

type ExportHTMLResponse struct {
	HTML string `json:"html"`
}

// ExportFile is a rendered binary download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// TrackedJob is one row of the job tracker spreadsheet.
type TrackedJob struct {
	Title      string `json:"title" binding:"required"`
	Company    string `json:"company"`
	Location   string `json:"location"`
	Status     string `json:"status"`
	AppliedAt  string `json:"appliedAt"`
	ApplyURL   string `json:"applyUrl"`
	MatchScore *int   `json:"matchScore"`
	Notes      string `json:"notes"`
}

type ExportJobsRequest struct {
	Jobs []TrackedJob `json:"jobs" binding:"required,min=1,max=1000,dive"`
}

type ExportUsecase interface {
	DOCX(ctx context.Context, req ExportDocumentRequest) (*ExportFile, error)
	HTML(ctx context.Context, req ExportDocumentRequest) (*ExportHTMLResponse, error)
	PDF(ctx context.Context, req ExportDocumentRequest) (*ExportFile, error)
	JobsXLSX(ctx context.Context, req ExportJobsRequest) (*ExportFile, error)
}
