package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredential covers every way a bearer credential can fail verification.
var ErrInvalidCredential = errors.New("invalid credential")

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// JWTVerifier verifies Supabase access tokens locally: HS256 with the project secret,
// RS256 via the project's JWKS.
type JWTVerifier struct {
	secret []byte
	jwks   *JWKSProvider
}

func NewJWTVerifier(secret string, jwks *JWKSProvider) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), jwks: jwks}
}

func (v *JWTVerifier) Verify(ctx context.Context, token string) (string, string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); ok {
			if len(v.secret) == 0 {
				return nil, fmt.Errorf("HS256 token received but SUPABASE_JWT_SECRET is not configured")
			}
			return v.secret, nil
		}
		if _, ok := t.Method.(*jwt.SigningMethodRSA); ok && v.jwks != nil {
			return v.jwks.KeyFunc(ctx)(t)
		}
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("%w: unexpected claims", ErrInvalidCredential)
	}
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	if sub == "" {
		return "", "", fmt.Errorf("%w: missing subject", ErrInvalidCredential)
	}
	return sub, email, nil
}

// RemoteVerifier exchanges the credential with the identity service's user endpoint.
type RemoteVerifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewRemoteVerifier(baseURL, apiKey string, client *http.Client) *RemoteVerifier {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &RemoteVerifier{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, client: client}
}

type remoteUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (v *RemoteVerifier) Verify(ctx context.Context, token string) (string, string, error) {
	if v.baseURL == "" {
		return "", "", fmt.Errorf("%w: identity service not configured", ErrInvalidCredential)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if v.apiKey != "" {
		req.Header.Set("apikey", v.apiKey)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("identity request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return "", "", fmt.Errorf("%w: identity service status %d", ErrInvalidCredential, resp.StatusCode)
	}

	var u remoteUser
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&u); err != nil {
		return "", "", fmt.Errorf("%w: malformed user payload", ErrInvalidCredential)
	}
	if u.ID == "" {
		return "", "", fmt.Errorf("%w: missing user id", ErrInvalidCredential)
	}
	return u.ID, u.Email, nil
}
