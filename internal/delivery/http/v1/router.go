package v1

import (
	"net/http"

	"resumeai-backend/internal/delivery/http/middleware"
	"resumeai-backend/internal/delivery/http/response"
	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Resolver  domain.TierResolver
	AIUC      domain.AIUsecase
	JobUC     domain.JobSearchUsecase
	ExportUC  domain.ExportUsecase
	BillingUC domain.BillingUsecase
	InboxUC   domain.InboxUsecase
	EmailUC   domain.EmailUsecase
	UploadUC  domain.UploadUsecase
	HealthUC  domain.HealthUsecase

	FingerprintSalt string
	AppURL          string
	Production      bool
	BurstPerMinute  int

	// TrustedProxies lists proxy CIDRs whose X-Forwarded-For is honored. Nil trusts none.
	TrustedProxies []string
	// TrustedPlatform names a header set by the edge, such as gin.PlatformCloudflare.
	TrustedPlatform string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.NoMethod(middleware.NoMethod())

	// Quotas are keyed on the client IP, so forwarded headers are only read from known hops.
	if err := r.SetTrustedProxies(deps.TrustedProxies); err != nil {
		logger.Log.Warn("Invalid TRUSTED_PROXIES, forwarded headers ignored", "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.TrustedPlatform = deps.TrustedPlatform

	r.Use(middleware.CORSMiddleware(deps.AppURL, deps.Production))
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	api := r.Group("/api")

	api.GET("/health", healthHandler(deps.HealthUC))
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	identified := api.Group("")
	identified.Use(middleware.Identity(deps.Resolver, deps.FingerprintSalt))

	// Handlers that receive provider webhooks stay outside the burst guard.
	NewBillingHandler(identified, deps.BillingUC)
	NewInboxHandler(identified, deps.InboxUC)

	app := identified.Group("")
	app.Use(middleware.BurstLimit(middleware.DefaultBurstConfig(deps.BurstPerMinute)))
	{
		NewAIHandler(app, deps.AIUC)
		NewJobHandler(app, deps.JobUC)
		NewExportHandler(app, deps.ExportUC)
		NewEmailHandler(app, deps.EmailUC)
		NewUploadHandler(app, deps.UploadUC)
	}

	return r
}

// healthHandler godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  domain.HealthStatus
// @Router       /health [get]
func healthHandler(uc domain.HealthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uc == nil {
			response.JSON(c, http.StatusOK, domain.HealthStatus{Status: "ok", Dependencies: map[string]string{}})
			return
		}
		response.JSON(c, http.StatusOK, uc.Check(c.Request.Context()))
	}
}
