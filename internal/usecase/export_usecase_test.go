package usecase

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"resumeai-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubPDF struct {
	html string
	err  error
}

func (s *stubPDF) RenderPDF(_ context.Context, html string) ([]byte, error) {
	s.html = html
	if s.err != nil {
		return nil, s.err
	}
	return []byte("%PDF-1.7"), nil
}

const sampleResume = `Jane Doe
jane@example.com | Berlin

EXPERIENCE
Backend Engineer
Acme Corp | 2020 - Present
- Built the billing service`

func TestExportDOCX(t *testing.T) {
	uc := NewExportUsecase(nil)
	file, err := uc.DOCX(context.Background(), domain.ExportDocumentRequest{Content: sampleResume, Title: "Jane Doe Resume"})
	require.NoError(t, err)
	assert.Equal(t, "jane-doe-resume.docx", file.Filename)
	assert.Equal(t, contentTypeDOCX, file.ContentType)

	zr, err := zip.NewReader(bytes.NewReader(file.Data), int64(len(file.Data)))
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	assert.True(t, names["word/document.xml"])
	assert.True(t, names["[Content_Types].xml"])
}

func TestExportRequiresBody(t *testing.T) {
	uc := NewExportUsecase(nil)
	_, err := uc.HTML(context.Background(), domain.ExportDocumentRequest{Content: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExportHTMLEscapes(t *testing.T) {
	uc := NewExportUsecase(nil)
	resp, err := uc.HTML(context.Background(), domain.ExportDocumentRequest{Content: "Jane <script>alert(1)</script>", Type: "cover-letter"})
	require.NoError(t, err)
	assert.NotContains(t, resp.HTML, "<script>")
	assert.Contains(t, resp.HTML, "Cover Letter")
}

func TestExportPDF(t *testing.T) {
	_, err := NewExportUsecase(nil).PDF(context.Background(), domain.ExportDocumentRequest{Content: sampleResume})
	assert.ErrorIs(t, err, domain.ErrNotConfigured)

	renderer := &stubPDF{}
	file, err := NewExportUsecase(renderer).PDF(context.Background(), domain.ExportDocumentRequest{Content: sampleResume})
	require.NoError(t, err)
	assert.Equal(t, "resume.pdf", file.Filename)
	assert.Contains(t, renderer.html, "Jane Doe")

	_, err = NewExportUsecase(&stubPDF{err: errors.New("chrome crashed")}).PDF(context.Background(), domain.ExportDocumentRequest{Content: sampleResume})
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestExportJobsXLSX(t *testing.T) {
	score := 87
	uc := NewExportUsecase(nil).(*exportUsecase)
	uc.now = func() time.Time { return fixedDay }

	file, err := uc.JobsXLSX(context.Background(), domain.ExportJobsRequest{Jobs: []domain.TrackedJob{
		{Title: "Go Engineer", Company: "Acme", Status: "applied", ApplyURL: "https://acme.test/jobs/1", MatchScore: &score},
		{Title: "SRE", Company: "Beta"},
	}})
	require.NoError(t, err)
	assert.Equal(t, "job-tracker-2026-03-14.xlsx", file.Filename)

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Job Tracker")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, trackerColumns, rows[0])
	assert.Equal(t, "Go Engineer", rows[1][0])
	assert.Equal(t, "87", rows[1][5])
	assert.Equal(t, "Beta", rows[2][1])
}

func TestExportJobsXLSXRequiresRows(t *testing.T) {
	_, err := NewExportUsecase(nil).JobsXLSX(context.Background(), domain.ExportJobsRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
