package domain

import "strings"

// Tier is a subscription level controlling quotas and gated features.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
	TierMax  Tier = "max"
)

// Rank orders tiers by privilege: free < pro < max.
func (t Tier) Rank() int {
	switch t {
	case TierMax:
		return 2
	case TierPro:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether t grants at least the privileges of min.
func (t Tier) AtLeast(min Tier) bool {
	return t.Rank() >= min.Rank()
}

// IsPaid is true for every tier above free.
func (t Tier) IsPaid() bool {
	return t.Rank() > 0
}

// ParseTier normalizes a stored tier value. Unknown values map to free.
func ParseTier(raw string) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(raw))) {
	case TierPro:
		return TierPro
	case TierMax:
		return TierMax
	default:
		return TierFree
	}
}

// Identity is the caller as resolved for a single request. It is never cached.
type Identity struct {
	UserID string
	Email  string
	Tier   Tier
}

// Authenticated reports whether the identity provider vouched for the caller.
func (i Identity) Authenticated() bool {
	return i.UserID != ""
}

// Anonymous is the identity of a caller without a usable credential.
func Anonymous() Identity {
	return Identity{Tier: TierFree}
}

// Caller bundles what a rate-limited feature needs to know about the request origin.
type Caller struct {
	Identity
	Fingerprint string
}
