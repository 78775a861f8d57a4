package middleware

import (
	"context"
	"strings"

	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/apperror"
	"resumeai-backend/pkg/security"

	"github.com/gin-gonic/gin"
)

// bearerToken reads the Authorization header, then the auth_token cookie.
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := c.Cookie("auth_token"); err == nil {
		return cookie
	}
	return ""
}

// Identity resolves the caller on every request. It never rejects: an absent or bad
// credential yields the anonymous free identity.
func Identity(resolver domain.TierResolver, fingerprintSalt string) gin.HandlerFunc {
	return func(c *gin.Context) {
		fingerprint := security.Fingerprint(fingerprintSalt, c.ClientIP())

		identity := domain.Anonymous()
		if token := bearerToken(c); token != "" && resolver != nil {
			identity = resolver.Resolve(c.Request.Context(), token)
		}

		c.Set(string(domain.KeyIdentity), identity)
		c.Set(string(domain.KeyFingerprint), fingerprint)
		c.Set(string(domain.KeyUserID), identity.UserID)
		c.Set(string(domain.KeyUserEmail), identity.Email)
		c.Set(string(domain.KeyUserTier), string(identity.Tier))

		ctx := context.WithValue(c.Request.Context(), domain.KeyUserID, identity.UserID)
		ctx = context.WithValue(ctx, domain.KeyFingerprint, fingerprint)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// CallerFrom returns what Identity stored for this request.
func CallerFrom(c *gin.Context) domain.Caller {
	caller := domain.Caller{Identity: domain.Anonymous()}
	if v, ok := c.Get(string(domain.KeyIdentity)); ok {
		if id, ok := v.(domain.Identity); ok {
			caller.Identity = id
		}
	}
	caller.Fingerprint = c.GetString(string(domain.KeyFingerprint))
	return caller
}

// RequireUser rejects callers without a verified credential.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if !caller.Authenticated() {
			security.DefaultLogger().LogUnauthorized(c.Request.Context(), caller.Fingerprint, c.GetString("RequestID"), c.FullPath(), "missing or invalid credential")
			c.Error(apperror.Unauthorized("Authentication required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireTier rejects callers below min. Place it after RequireUser.
func RequireTier(min domain.Tier) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := CallerFrom(c)
		if !caller.Tier.AtLeast(min) {
			security.DefaultLogger().LogTierDenied(c.Request.Context(), caller.UserID, c.GetString("RequestID"), c.FullPath(), string(caller.Tier))
			c.Error(apperror.UpgradeRequired("This feature requires a Pro or Max subscription. Upgrade to continue."))
			c.Abort()
			return
		}
		c.Next()
	}
}
