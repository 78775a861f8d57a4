// Package webhook verifies signed payment-provider callbacks.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Tolerance is the maximum accepted age of a signed timestamp.
const Tolerance = 300 * time.Second

var (
	ErrMissingTimestamp = errors.New("webhook: signature header has no timestamp")
	ErrMissingSignature = errors.New("webhook: signature header has no v1 signature")
	ErrTooOld           = errors.New("webhook: timestamp outside tolerance")
	ErrMismatch         = errors.New("webhook: no matching signature")
)

type header struct {
	timestamp  time.Time
	rawTime    string
	signatures [][]byte
}

// parseHeader reads "t=...,v1=...,v1=..." and ignores unknown keys.
func parseHeader(h string) (header, error) {
	var out header
	for _, part := range strings.Split(h, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			secs, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return out, ErrMissingTimestamp
			}
			out.rawTime = value
			out.timestamp = time.Unix(secs, 0)
		case "v1":
			sig, err := hex.DecodeString(value)
			if err != nil {
				continue
			}
			out.signatures = append(out.signatures, sig)
		}
	}
	if out.rawTime == "" {
		return out, ErrMissingTimestamp
	}
	if len(out.signatures) == 0 {
		return out, ErrMissingSignature
	}
	return out, nil
}

// Sign computes hex(HMAC-SHA256(secret, "{timestamp}.{body}")).
func Sign(body []byte, timestamp int64, secret string) string {
	return hex.EncodeToString(computeMAC(body, strconv.FormatInt(timestamp, 10), secret))
}

func computeMAC(body []byte, rawTime, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(rawTime))
	mac.Write([]byte("."))
	mac.Write(body)
	return mac.Sum(nil)
}

// Verify checks the header against body at the given time. A payload is accepted when
// any v1 candidate matches and the timestamp is no older than Tolerance.
func Verify(body []byte, signatureHeader, secret string, now time.Time) error {
	h, err := parseHeader(signatureHeader)
	if err != nil {
		return err
	}
	if now.Sub(h.timestamp) > Tolerance {
		return ErrTooOld
	}

	expected := computeMAC(body, h.rawTime, secret)
	for _, sig := range h.signatures {
		if hmac.Equal(expected, sig) {
			return nil
		}
	}
	return ErrMismatch
}

// Verifier binds a secret. An empty secret disables verification; OnUnverified is
// called each time that happens so the caller can flag it.
type Verifier struct {
	Secret       string
	Now          func() time.Time
	OnUnverified func()
}

// Valid reports whether the payload may be processed.
func (v Verifier) Valid(body []byte, signatureHeader string) (bool, error) {
	if v.Secret == "" {
		if v.OnUnverified != nil {
			v.OnUnverified()
		}
		return true, nil
	}
	now := time.Now
	if v.Now != nil {
		now = v.Now
	}
	if err := Verify(body, signatureHeader, v.Secret, now()); err != nil {
		return false, err
	}
	return true, nil
}
