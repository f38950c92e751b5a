package server

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitas-games/tetracoords/internal/config"
)

const testIssuer = "login.test"

type keyServer struct {
	key *ecdsa.PrivateKey
	srv *httptest.Server
}

// newKeyServer serves a fresh ECDSA public key as PEM
func newKeyServer(t *testing.T) *keyServer {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemData := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(pemData)
	}))
	t.Cleanup(srv.Close)
	return &keyServer{key: key, srv: srv}
}

func (ks *keyServer) sign(t *testing.T, claims Claims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(ks.key)
	require.NoError(t, err)
	return tok
}

func validClaims(userID int64) Claims {
	return Claims{
		UserID:     userID,
		Username:   "ada",
		Email:      "ada@example.com",
		AuthMethod: "password",
		Activated:  1700000000,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func jwtConfig(ks *keyServer) *config.Config {
	cfg := config.Default()
	cfg.JWT.Enabled = true
	cfg.JWT.Issuer = testIssuer
	cfg.JWT.PublicKeyURL = ks.srv.URL
	return cfg
}

func newRedisBlacklist(t *testing.T) (*miniredis.Miniredis, *RedisBlacklist) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() { client.Close() })
	return m, NewRedisBlacklist(client, "blacklist:")
}

func TestRedisBlacklist(t *testing.T) {
	m, bl := newRedisBlacklist(t)
	ctx := context.Background()

	ok, err := bl.IsBlacklisted(ctx, "42")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set("blacklist:42", "1"))
	ok, err = bl.IsBlacklisted(ctx, "42")
	require.NoError(t, err)
	assert.True(t, ok)

	m.Close()
	_, err = bl.IsBlacklisted(ctx, "42")
	assert.Error(t, err)
}

func TestValidateToken(t *testing.T) {
	ks := newKeyServer(t)
	m, bl := newRedisBlacklist(t)
	require.NoError(t, m.Set("blacklist:13", "1"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	v, err := NewJWTValidator(ctx, jwtConfig(ks), bl)
	require.NoError(t, err)

	viewer, err := v.ValidateToken(ctx, ks.sign(t, validClaims(42)))
	require.NoError(t, err)
	assert.Equal(t, "42", viewer.ID)
	assert.Equal(t, "ada", viewer.Username)
	assert.Equal(t, "ada@example.com", viewer.Email)
	assert.False(t, viewer.Anonymous)
	assert.True(t, viewer.IsActive())

	_, err = v.ValidateToken(ctx, ks.sign(t, validClaims(13)))
	assert.ErrorIs(t, err, ErrBlacklisted)

	wrongIssuer := validClaims(42)
	wrongIssuer.Issuer = "elsewhere"
	_, err = v.ValidateToken(ctx, ks.sign(t, wrongIssuer))
	assert.ErrorContains(t, err, "invalid issuer")

	inactive := validClaims(42)
	inactive.Activated = 0
	_, err = v.ValidateToken(ctx, ks.sign(t, inactive))
	assert.ErrorContains(t, err, "not activated")

	banned := validClaims(42)
	banned.Activated = -1
	_, err = v.ValidateToken(ctx, ks.sign(t, banned))
	assert.ErrorContains(t, err, "banned")

	expired := validClaims(42)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	_, err = v.ValidateToken(ctx, ks.sign(t, expired))
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	hmac, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims(42)).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = v.ValidateToken(ctx, hmac)
	assert.ErrorContains(t, err, "unexpected signing method")

	other := newKeyServer(t)
	_, err = v.ValidateToken(ctx, other.sign(t, validClaims(42)))
	assert.Error(t, err)
}

func TestValidateTokenBlacklistDown(t *testing.T) {
	ks := newKeyServer(t)
	m, bl := newRedisBlacklist(t)
	m.Close()

	v, err := NewJWTValidator(context.Background(), jwtConfig(ks), bl)
	require.NoError(t, err)
	_, err = v.ValidateToken(context.Background(), ks.sign(t, validClaims(42)))
	assert.NoError(t, err)
}

func TestNewJWTValidatorBadKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not a key"))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.JWT.PublicKeyURL = srv.URL
	_, err := NewJWTValidator(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "failed to decode PEM block")

	missing := httptest.NewServer(http.NotFoundHandler())
	defer missing.Close()
	cfg.JWT.PublicKeyURL = missing.URL
	_, err = NewJWTValidator(context.Background(), cfg, nil)
	assert.ErrorContains(t, err, "status 404")
}

func TestExtractToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.Empty(t, extractToken(r))

	r = httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Sec-WebSocket-Protocol", "access_token, abc.def")
	assert.Equal(t, "abc.def", extractToken(r))

	r = httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Authorization", "Bearer xyz")
	assert.Equal(t, "xyz", extractToken(r))

	r = httptest.NewRequest(http.MethodGet, "/ws?token=q", nil)
	assert.Equal(t, "q", extractToken(r))

	r = httptest.NewRequest(http.MethodGet, "/ws?token=q", nil)
	r.Header.Set("Sec-WebSocket-Protocol", "chat")
	assert.Equal(t, "q", extractToken(r))
}
