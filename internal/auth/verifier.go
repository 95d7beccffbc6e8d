package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yukikurage/project-management-api/internal/config"
)

var (
	ErrNoToken      = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the verified subset of a token that the rest of the service uses.
type Claims struct {
	Subject           string
	Email             string
	PreferredUsername string
}

// Verifier turns a bearer token into trusted claims.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// TrustedIssuer is an issuer whose tokens are accepted. Key is a []byte for
// HMAC issuers or an *rsa.PublicKey for RSA issuers. An empty Audience skips
// the audience check.
type TrustedIssuer struct {
	Issuer   string
	Audience string
	Key      interface{}
}

type tokenClaims struct {
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	CognitoUsername   string `json:"cognito:username,omitempty"`
	Username          string `json:"username,omitempty"`
	ClientID          string `json:"client_id,omitempty"`
	jwt.RegisteredClaims
}

func (c *tokenClaims) preferredUsername() string {
	for _, name := range []string{c.PreferredUsername, c.CognitoUsername, c.Username} {
		if name != "" {
			return name
		}
	}
	return ""
}

// JWTVerifier verifies JWTs signed by any of its trusted issuers.
type JWTVerifier struct {
	issuers map[string]TrustedIssuer
}

func NewJWTVerifier(issuers ...TrustedIssuer) *JWTVerifier {
	v := &JWTVerifier{issuers: make(map[string]TrustedIssuer, len(issuers))}
	for _, iss := range issuers {
		v.issuers[iss.Issuer] = iss
	}
	return v
}

// NewVerifierFromConfig trusts the local issuer and, when configured, the
// hosted identity provider.
func NewVerifierFromConfig(cfg *config.Config) (*JWTVerifier, error) {
	issuers := []TrustedIssuer{{Issuer: cfg.JWTIssuer, Key: []byte(cfg.JWTSecret)}}

	if cfg.IdPIssuer != "" {
		pem, err := os.ReadFile(cfg.IdPPublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read identity provider key: %w", err)
		}
		key, err := jwt.ParseRSAPublicKeyFromPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("failed to parse identity provider key: %w", err)
		}
		issuers = append(issuers, TrustedIssuer{
			Issuer:   cfg.IdPIssuer,
			Audience: cfg.IdPAudience,
			Key:      key,
		})
	}

	return NewJWTVerifier(issuers...), nil
}

// Verify checks the signature, issuer, audience and expiry of token.
func (v *JWTVerifier) Verify(_ context.Context, token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNoToken
	}

	var trusted TrustedIssuer
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		claims, ok := t.Claims.(*tokenClaims)
		if !ok {
			return nil, ErrInvalidToken
		}
		iss, ok := v.issuers[claims.Issuer]
		if !ok {
			return nil, fmt.Errorf("untrusted issuer %q", claims.Issuer)
		}

		switch iss.Key.(type) {
		case []byte:
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
		default:
			if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
		}

		trusted = iss
		return iss.Key, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	if trusted.Audience != "" &&
		!slices.Contains(claims.Audience, trusted.Audience) &&
		claims.ClientID != trusted.Audience {
		return nil, fmt.Errorf("%w: audience mismatch", ErrInvalidToken)
	}

	if claims.Email == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrInvalidToken)
	}

	return &Claims{
		Subject:           claims.Subject,
		Email:             claims.Email,
		PreferredUsername: claims.preferredUsername(),
	}, nil
}

// ExtractBearer returns the token from an "Authorization: Bearer <token>"
// header value, or "" if the header has another shape.
func ExtractBearer(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
