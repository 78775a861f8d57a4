package domain

type CtxKey string

const (
	KeyUserID      CtxKey = "UserID"
	KeyUserEmail   CtxKey = "Email"
	KeyUserTier    CtxKey = "Tier"
	KeyIdentity    CtxKey = "Identity"
	KeyFingerprint CtxKey = "Fingerprint"
	KeyRequestID   CtxKey = "RequestID"
)
