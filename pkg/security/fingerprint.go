package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// fingerprintLen is the number of hex characters kept from the digest.
const fingerprintLen = 16

// Fingerprint derives the anonymous rate-limit subject for a client address.
// The raw address is never stored; only the salted digest prefix is.
func Fingerprint(salt, clientIP string) string {
	mac := hmac.New(sha256.New, []byte(salt))
	mac.Write([]byte(clientIP))
	return hex.EncodeToString(mac.Sum(nil))[:fingerprintLen]
}
