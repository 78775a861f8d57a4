package v1

import (
	"errors"
	"net/http"

	"resumeai-backend/internal/delivery/http/middleware"
	"resumeai-backend/internal/delivery/http/response"
	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobUC domain.JobSearchUsecase
}

func NewJobHandler(api *gin.RouterGroup, jobUC domain.JobSearchUsecase) {
	handler := &JobHandler{jobUC: jobUC}
	api.POST("/search-jobs", handler.Search)
}

// Search godoc
// @Summary      Search jobs
// @Description  Cached for 24 hours per query page. Cached responses still count toward the daily quota.
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        request  body      domain.SearchJobsRequest  true  "Search query"
// @Success      200      {object}  domain.SearchJobsResponse
// @Failure      400      {object}  response.ErrorBody
// @Failure      429      {object}  response.ErrorBody
// @Failure      502      {object}  response.ErrorBody
// @Router       /search-jobs [post]
func (h *JobHandler) Search(c *gin.Context) {
	var req domain.SearchJobsRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.jobUC.Search(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		if errors.Is(err, domain.ErrUpstream) {
			c.Error(apperror.BadGateway("Job search is temporarily unavailable. Please try again.", err))
			return
		}
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
