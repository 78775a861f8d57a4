package v1

import (
	"net/http"

	"resumeai-backend/internal/delivery/http/middleware"
	"resumeai-backend/internal/delivery/http/response"
	"resumeai-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	aiUC domain.AIUsecase
}

// NewAIHandler registers the model-backed endpoints.
func NewAIHandler(api *gin.RouterGroup, aiUC domain.AIUsecase) {
	handler := &AIHandler{aiUC: aiUC}

	api.POST("/ats-score", handler.ScoreATS)
	api.POST("/tailor-resume", handler.TailorResume)
	api.POST("/parse-resume", middleware.RequireUser(), handler.ParseResume)
	api.POST("/enhance-bullet", handler.EnhanceBullet)
	api.POST("/generate", handler.Generate)
	api.POST("/interview-prep", handler.InterviewPrep)
}

// ScoreATS godoc
// @Summary      ATS compatibility score
// @Description  Scores a resume against an optional job description. Metered daily per tier.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request  body      domain.ATSScoreRequest  true  "Resume and job description"
// @Success      200      {object}  domain.ATSScoreResponse
// @Failure      400      {object}  response.ErrorBody
// @Failure      429      {object}  response.ErrorBody
// @Failure      500      {object}  response.ErrorBody
// @Router       /ats-score [post]
func (h *AIHandler) ScoreATS(c *gin.Context) {
	var req domain.ATSScoreRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.aiUC.ScoreATS(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// TailorResume godoc
// @Summary      Tailor a resume to a job
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request  body      domain.TailorResumeRequest  true  "Resume and job description"
// @Success      200      {object}  domain.TailorResumeResponse
// @Failure      400      {object}  response.ErrorBody
// @Failure      429      {object}  response.ErrorBody
// @Failure      500      {object}  response.ErrorBody
// @Router       /tailor-resume [post]
func (h *AIHandler) TailorResume(c *gin.Context) {
	var req domain.TailorResumeRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.aiUC.TailorResume(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// ParseResume godoc
// @Summary      Parse resume text into a structured profile
// @Description  Requires a signed-in user. The profile is saved to the user's account.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      domain.ParseResumeRequest  true  "Resume text (50 to 20000 characters)"
// @Success      200      {object}  domain.ParseResumeResponse
// @Failure      400      {object}  response.ErrorBody
// @Failure      401      {object}  response.ErrorBody
// @Failure      504      {object}  response.ErrorBody
// @Router       /parse-resume [post]
func (h *AIHandler) ParseResume(c *gin.Context) {
	var req domain.ParseResumeRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.aiUC.ParseResume(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// EnhanceBullet godoc
// @Summary      Rewrite one resume bullet
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request  body      domain.EnhanceBulletRequest  true  "Bullet"
// @Success      200      {object}  domain.EnhanceBulletResponse
// @Failure      400      {object}  response.ErrorBody
// @Failure      504      {object}  response.ErrorBody
// @Router       /enhance-bullet [post]
func (h *AIHandler) EnhanceBullet(c *gin.Context) {
	var req domain.EnhanceBulletRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.aiUC.EnhanceBullet(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Generate godoc
// @Summary      Generate career text
// @Description  type is one of cover-letter, summary, bullets, linkedin.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request  body      domain.GenerateRequest  true  "Generation input"
// @Success      200      {object}  domain.GenerateResponse
// @Failure      400      {object}  response.ErrorBody
// @Failure      500      {object}  response.ErrorBody
// @Router       /generate [post]
func (h *AIHandler) Generate(c *gin.Context) {
	var req domain.GenerateRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.aiUC.Generate(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// InterviewPrep godoc
// @Summary      Interview practice
// @Description  mode is questions (default), answers or mock.
// @Tags         ai
// @Accept       json
// @Produce      json
// @Param        request  body      domain.InterviewPrepRequest  true  "Interview input"
// @Success      200      {object}  domain.InterviewPrepResponse
// @Failure      400      {object}  response.ErrorBody
// @Failure      429      {object}  response.ErrorBody
// @Failure      500      {object}  response.ErrorBody
// @Router       /interview-prep [post]
func (h *AIHandler) InterviewPrep(c *gin.Context) {
	var req domain.InterviewPrepRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.aiUC.InterviewPrep(c.Request.Context(), middleware.CallerFrom(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
