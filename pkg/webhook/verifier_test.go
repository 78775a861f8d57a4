package webhook

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sigHeader(ts int64, sigs ...string) string {
	h := fmt.Sprintf("t=%d", ts)
	for _, s := range sigs {
		h += ",v1=" + s
	}
	return h
}

func TestVerify(t *testing.T) {
	body := []byte(`{"id":"evt_1"}`)
	secret := "whsec_test"
	now := time.Unix(1_700_000_000, 0)
	ts := now.Unix()
	good := Sign(body, ts, secret)

	t.Run("valid within tolerance", func(t *testing.T) {
		assert.NoError(t, Verify(body, sigHeader(ts, good), secret, now))
		assert.NoError(t, Verify(body, sigHeader(ts, good), secret, now.Add(300*time.Second)))
	})

	t.Run("correct hmac but too old", func(t *testing.T) {
		assert.ErrorIs(t, Verify(body, sigHeader(ts, good), secret, now.Add(301*time.Second)), ErrTooOld)
	})

	t.Run("any candidate may match", func(t *testing.T) {
		assert.NoError(t, Verify(body, sigHeader(ts, "deadbeef", good), secret, now))
	})

	t.Run("tampered body", func(t *testing.T) {
		assert.ErrorIs(t, Verify([]byte(`{"id":"evt_2"}`), sigHeader(ts, good), secret, now), ErrMismatch)
	})

	t.Run("wrong secret", func(t *testing.T) {
		assert.ErrorIs(t, Verify(body, sigHeader(ts, good), "other", now), ErrMismatch)
	})

	t.Run("missing timestamp", func(t *testing.T) {
		assert.ErrorIs(t, Verify(body, "v1="+good, secret, now), ErrMissingTimestamp)
	})

	t.Run("missing signature", func(t *testing.T) {
		assert.ErrorIs(t, Verify(body, sigHeader(ts), secret, now), ErrMissingSignature)
	})
}

func TestVerifierEmptySecretSkips(t *testing.T) {
	flagged := 0
	v := Verifier{OnUnverified: func() { flagged++ }}

	ok, err := v.Valid([]byte("anything"), "garbage")
	assert.True(t, ok)
	assert.NoError(t, err)
	assert.Equal(t, 1, flagged)
}

func TestVerifierWithSecret(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	v := Verifier{Secret: "s", Now: func() time.Time { return now }}
	body := []byte("payload")

	ok, err := v.Valid(body, sigHeader(now.Unix(), Sign(body, now.Unix(), "s")))
	assert.True(t, ok)
	assert.NoError(t, err)

	ok, err = v.Valid(body, sigHeader(now.Unix()-400, Sign(body, now.Unix()-400, "s")))
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrTooOld)
}
