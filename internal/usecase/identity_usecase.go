package usecase

import (
	"context"
	"errors"
	"strings"

	"resumeai-backend/internal/domain"
	"resumeai-backend/pkg/logger"
	"resumeai-backend/pkg/security"
)

type tierResolver struct {
	verifier domain.IdentityVerifier
	profiles domain.ProfileRepository
}

// NewTierResolver builds the identity resolver. Either dependency may be nil, in which
// case every caller resolves as free.
func NewTierResolver(verifier domain.IdentityVerifier, profiles domain.ProfileRepository) domain.TierResolver {
	return &tierResolver{verifier: verifier, profiles: profiles}
}

// ErrUnauthenticated is returned by Authenticate when no valid credential was presented.
var ErrUnauthenticated = errors.New("unauthenticated")

func (r *tierResolver) Resolve(ctx context.Context, bearer string) domain.Identity {
	id, err := r.Authenticate(ctx, bearer)
	if err != nil {
		return domain.Anonymous()
	}
	return id
}

// Authenticate verifies the credential once. A failed profile read keeps the user but
// degrades the tier to free.
func (r *tierResolver) Authenticate(ctx context.Context, bearer string) (domain.Identity, error) {
	bearer = strings.TrimSpace(bearer)
	if bearer == "" || r.verifier == nil {
		return domain.Anonymous(), ErrUnauthenticated
	}

	userID, email, err := r.verifier.Verify(ctx, bearer)
	if err != nil || userID == "" {
		logger.Log.Debug("Credential rejected", "error", err)
		return domain.Anonymous(), ErrUnauthenticated
	}

	identity := domain.Identity{UserID: userID, Email: email, Tier: domain.TierFree}
	if r.profiles == nil {
		return identity, nil
	}

	profile, err := r.profiles.GetByID(ctx, userID)
	switch {
	case err == nil:
		identity.Tier = profile.EffectiveTier()
		if identity.Email == "" {
			identity.Email = profile.Email
		}
	case errors.Is(err, domain.ErrNotFound):
	default:
		security.DefaultLogger().Log(ctx, security.SecurityEvent{
			Event:        security.EventIdentityLookupDegraded,
			SubjectType:  "user_id",
			SubjectValue: security.HashValue(userID),
			Details:      map[string]any{"error": err.Error()},
		})
	}
	return identity, nil
}
