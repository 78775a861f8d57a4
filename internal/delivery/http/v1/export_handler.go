package v1

import (
	"net/http"

	"resumeai-backend/internal/delivery/http/middleware"
	"resumeai-backend/internal/delivery/http/response"
	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	exportUC domain.ExportUsecase
}

// NewExportHandler registers the export endpoints behind the pro tier gate.
func NewExportHandler(api *gin.RouterGroup, exportUC domain.ExportUsecase) {
	handler := &ExportHandler{exportUC: exportUC}

	paid := api.Group("", middleware.RequireUser(), middleware.RequireTier(domain.TierPro))
	paid.POST("/export-docx", handler.DOCX)
	paid.POST("/export-pdf", handler.PDF)
	paid.POST("/export-jobs", handler.Jobs)
}

// DOCX godoc
// @Summary      Export a resume or cover letter as DOCX
// @Tags         export
// @Accept       json
// @Produce      application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Security     BearerAuth
// @Param        request  body      domain.ExportDocumentRequest  true  "Content or structured resume"
// @Success      200      {file}    file
// @Failure      400      {object}  response.ErrorBody
// @Failure      401      {object}  response.ErrorBody
// @Failure      403      {object}  response.ErrorBody
// @Router       /export-docx [post]
func (h *ExportHandler) DOCX(c *gin.Context) {
	var req domain.ExportDocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	if !req.HasBody() {
		c.Error(apperror.BadRequest("Content is required"))
		return
	}
	file, err := h.exportUC.DOCX(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}

// PDF godoc
// @Summary      Export print-ready HTML, or a PDF with format=pdf
// @Tags         export
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.ExportDocumentRequest  true  "Content or structured resume"
// @Success      200      {object}  domain.ExportHTMLResponse
// @Failure      400      {object}  response.ErrorBody
// @Failure      401      {object}  response.ErrorBody
// @Failure      403      {object}  response.ErrorBody
// @Router       /export-pdf [post]
func (h *ExportHandler) PDF(c *gin.Context) {
	var req domain.ExportDocumentRequest
	if !bindJSON(c, &req) {
		return
	}
	if !req.HasBody() {
		c.Error(apperror.BadRequest("Content or structured resume is required"))
		return
	}

	if req.Format == domain.ExportFormatPDF {
		file, err := h.exportUC.PDF(c.Request.Context(), req)
		if err != nil {
			fail(c, err)
			return
		}
		response.File(c, file.Filename, file.ContentType, file.Data)
		return
	}

	resp, err := h.exportUC.HTML(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Jobs godoc
// @Summary      Export a job tracker spreadsheet
// @Tags         export
// @Accept       json
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        request  body      domain.ExportJobsRequest  true  "Tracked jobs"
// @Success      200      {file}    file
// @Failure      400      {object}  response.ErrorBody
// @Failure      403      {object}  response.ErrorBody
// @Router       /export-jobs [post]
func (h *ExportHandler) Jobs(c *gin.Context) {
	var req domain.ExportJobsRequest
	if !bindJSON(c, &req) {
		return
	}
	file, err := h.exportUC.JobsXLSX(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Data)
}
