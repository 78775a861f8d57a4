package usecase

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/document"

	"github.com/xuri/excelize/v2"
)

const (
	contentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type exportUsecase struct {
	pdf document.PDFRenderer
	now func() time.Time
}

// NewExportUsecase builds the export features. pdf may be nil, which disables binary PDF.
func NewExportUsecase(pdf document.PDFRenderer) domain.ExportUsecase {
	return &exportUsecase{pdf: pdf, now: time.Now}
}

func (u *exportUsecase) blocks(req domain.ExportDocumentRequest) ([]document.Block, error) {
	if req.Structured != nil {
		return document.FromResume(*req.Structured), nil
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, domain.NewInputError("Content or structured resume is required")
	}
	return document.FromText(req.Content, document.ParseDocType(req.Type)), nil
}

func (u *exportUsecase) DOCX(_ context.Context, req domain.ExportDocumentRequest) (*domain.ExportFile, error) {
	blocks, err := u.blocks(req)
	if err != nil {
		return nil, err
	}
	title := exportTitle(req)
	data, err := document.DOCX(blocks, title)
	if err != nil {
		return nil, fmt.Errorf("render docx: %w", err)
	}
	return &domain.ExportFile{Filename: fileSlug(title) + ".docx", ContentType: contentTypeDOCX, Data: data}, nil
}

func (u *exportUsecase) HTML(_ context.Context, req domain.ExportDocumentRequest) (*domain.ExportHTMLResponse, error) {
	blocks, err := u.blocks(req)
	if err != nil {
		return nil, err
	}
	return &domain.ExportHTMLResponse{HTML: document.HTML(blocks, exportTitle(req))}, nil
}

func (u *exportUsecase) PDF(ctx context.Context, req domain.ExportDocumentRequest) (*domain.ExportFile, error) {
	if u.pdf == nil {
		return nil, domain.ErrNotConfigured
	}
	blocks, err := u.blocks(req)
	if err != nil {
		return nil, err
	}
	title := exportTitle(req)
	data, err := u.pdf.RenderPDF(ctx, document.HTML(blocks, title))
	if err != nil {
		return nil, fmt.Errorf("%w: render pdf: %v", domain.ErrUpstream, err)
	}
	return &domain.ExportFile{Filename: fileSlug(title) + ".pdf", ContentType: contentTypePDF, Data: data}, nil
}

var trackerColumns = []string{"Title", "Company", "Location", "Status", "Applied", "Match", "Apply URL", "Notes"}

func (u *exportUsecase) JobsXLSX(_ context.Context, req domain.ExportJobsRequest) (*domain.ExportFile, error) {
	if len(req.Jobs) == 0 {
		return nil, domain.NewInputError("At least one job is required")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Job Tracker"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, headerName := range trackerColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, headerName)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(trackerColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, job := range req.Jobs {
		var match any
		if job.MatchScore != nil {
			match = *job.MatchScore
		}
		values := []any{job.Title, job.Company, job.Location, job.Status, job.AppliedAt, match, job.ApplyURL, job.Notes}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
		if job.ApplyURL != "" {
			cell, _ := excelize.CoordinatesToCellName(7, rowIdx+2)
			_ = f.SetCellHyperLink(sheetName, cell, job.ApplyURL, "External")
		}
	}

	for i := range trackerColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 22)
	}
	_ = f.SetPanes(sheetName, &excelize.Panes{Freeze: true, Split: false, XSplit: 0, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	filename := fmt.Sprintf("job-tracker-%s.xlsx", u.now().UTC().Format("2006-01-02"))
	return &domain.ExportFile{Filename: filename, ContentType: contentTypeXLSX, Data: buf.Bytes()}, nil
}

func exportTitle(req domain.ExportDocumentRequest) string {
	if t := strings.TrimSpace(req.Title); t != "" {
		return t
	}
	if req.Structured != nil && strings.TrimSpace(req.Structured.Name) != "" {
		return strings.TrimSpace(req.Structured.Name) + " Resume"
	}
	if document.ParseDocType(req.Type) == document.DocCoverLetter {
		return "Cover Letter"
	}
	return "Resume"
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

func fileSlug(title string) string {
	s := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if s == "" {
		return "document"
	}
	if len(s) > 80 {
		s = strings.TrimRight(s[:80], "-")
	}
	return s
}
