package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret = "test-secret"
	testIssuer = "project-management-api"
	idpIssuer  = "https://idp.example.com/pool"
	idpClient  = "dashboard-client"
)

func signRSA(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return signed
}

func newIdP(t *testing.T) (*rsa.PrivateKey, *JWTVerifier) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	v := NewJWTVerifier(
		TrustedIssuer{Issuer: testIssuer, Key: []byte(testSecret)},
		TrustedIssuer{Issuer: idpIssuer, Audience: idpClient, Key: &key.PublicKey},
	)
	return key, v
}

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer(testSecret, testIssuer, time.Hour)
	v := NewJWTVerifier(TrustedIssuer{Issuer: testIssuer, Key: []byte(testSecret)})

	token, err := issuer.Issue(42, "alice@example.com", "alice")
	require.NoError(t, err)

	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "alice", claims.PreferredUsername)
}

func TestVerify_Rejections(t *testing.T) {
	v := NewJWTVerifier(TrustedIssuer{Issuer: testIssuer, Key: []byte(testSecret)})

	t.Run("empty token", func(t *testing.T) {
		_, err := v.Verify(context.Background(), "  ")
		assert.ErrorIs(t, err, ErrNoToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewIssuer("other-secret", testIssuer, time.Hour).Issue(1, "a@example.com", "a")
		require.NoError(t, err)
		_, err = v.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("untrusted issuer", func(t *testing.T) {
		token, err := NewIssuer(testSecret, "someone-else", time.Hour).Issue(1, "a@example.com", "a")
		require.NoError(t, err)
		_, err = v.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		issuer := NewIssuer(testSecret, testIssuer, time.Hour)
		issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		token, err := issuer.Issue(1, "a@example.com", "a")
		require.NoError(t, err)
		_, err = v.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing email", func(t *testing.T) {
		token, err := NewIssuer(testSecret, testIssuer, time.Hour).Issue(1, "", "a")
		require.NoError(t, err)
		_, err = v.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestVerify_HostedProvider(t *testing.T) {
	key, v := newIdP(t)
	exp := time.Now().Add(time.Hour).Unix()

	t.Run("audience claim", func(t *testing.T) {
		token := signRSA(t, key, jwt.MapClaims{
			"iss":                idpIssuer,
			"aud":                idpClient,
			"sub":                uuid.NewString(),
			"email":              "bob@example.com",
			"preferred_username": "bob",
			"exp":                exp,
		})
		claims, err := v.Verify(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "bob", claims.PreferredUsername)
	})

	t.Run("client_id and cognito username", func(t *testing.T) {
		token := signRSA(t, key, jwt.MapClaims{
			"iss":              idpIssuer,
			"client_id":        idpClient,
			"email":            "carol@example.com",
			"cognito:username": "carol",
			"exp":              exp,
		})
		claims, err := v.Verify(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, "carol", claims.PreferredUsername)
	})

	t.Run("wrong audience", func(t *testing.T) {
		token := signRSA(t, key, jwt.MapClaims{
			"iss":   idpIssuer,
			"aud":   "another-client",
			"email": "dave@example.com",
			"exp":   exp,
		})
		_, err := v.Verify(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("hmac token claiming the provider issuer", func(t *testing.T) {
		token, err := NewIssuer(testSecret, idpIssuer, time.Hour).Issue(1, "eve@example.com", "eve")
		require.NoError(t, err)
		_, err = v.Verify(context.Background(), token)
		assert.True(t, errors.Is(err, ErrInvalidToken))
	})
}

func TestExtractBearer(t *testing.T) {
	assert.Equal(t, "abc", ExtractBearer("Bearer abc"))
	assert.Equal(t, "abc", ExtractBearer("bearer  abc "))
	assert.Equal(t, "", ExtractBearer("Basic abc"))
	assert.Equal(t, "", ExtractBearer(""))
	assert.Equal(t, "", ExtractBearer("Bearer"))
}

func TestIsOpaqueIdentifier(t *testing.T) {
	id := uuid.NewString()
	assert.True(t, IsOpaqueIdentifier(id))
	assert.True(t, IsOpaqueIdentifier(strings.ToUpper(id)))
	assert.False(t, IsOpaqueIdentifier("alice"))
	assert.False(t, IsOpaqueIdentifier(strings.ReplaceAll(id, "-", "")))
	assert.False(t, IsOpaqueIdentifier("{"+id+"}"))
	assert.False(t, IsOpaqueIdentifier("zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz"))
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		claims Claims
		want   string
	}{
		{"preferred username", Claims{Email: "alice@example.com", PreferredUsername: "ally"}, "ally"},
		{"empty preferred", Claims{Email: "alice@example.com"}, "alice"},
		{"opaque preferred", Claims{Email: "alice@example.com", PreferredUsername: uuid.NewString()}, "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(&tt.claims))
		})
	}
}
