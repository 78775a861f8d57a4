package v1

import (
	"io"
	"net/http"

	"resumeai-backend/internal/delivery/http/middleware"
	"resumeai-backend/internal/delivery/http/response"
	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/apperror"
	"resumeai-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	uploadUC domain.UploadUsecase
}

func NewUploadHandler(api *gin.RouterGroup, uploadUC domain.UploadUsecase) {
	handler := &UploadHandler{uploadUC: uploadUC}
	api.POST("/extract-text", handler.ExtractText)
}

// ExtractText godoc
// @Summary      Extract text from a resume file
// @Description  Accepts PDF, DOCX or TXT up to 5MB in the multipart field "file".
// @Tags         upload
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Resume file"
// @Success      200   {object}  domain.ExtractTextResponse
// @Failure      400   {object}  response.ErrorBody
// @Failure      429   {object}  response.ErrorBody
// @Router       /extract-text [post]
func (h *UploadHandler) ExtractText(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, security.MaxResumeUploadBytes+64<<10)
	fh, err := c.FormFile("file")
	if err != nil {
		c.Error(apperror.BadRequest("A resume file is required in the \"file\" field"))
		return
	}
	if fh.Size > security.MaxResumeUploadBytes {
		c.Error(apperror.BadRequest("File exceeds the 5MB limit"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.Error(apperror.BadRequest("The file could not be read"))
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, security.MaxResumeUploadBytes+1))
	if err != nil {
		c.Error(apperror.BadRequest("The file could not be read"))
		return
	}

	resp, err := h.uploadUC.ExtractText(c.Request.Context(), middleware.CallerFrom(c), domain.ResumeUpload{Filename: fh.Filename, Data: data})
	if err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
