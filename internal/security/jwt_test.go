package security

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminapi/internal/cache"
	"adminapi/internal/config"
)

func testTokenConfig() config.TokenConfig {
	return config.TokenConfig{
		SecretKey:            "test-secret",
		Algorithm:            "HS256",
		ExpireSeconds:        3600,
		RefreshExpireSeconds: 7200,
		RedisPrefix:          "fba:token",
		RefreshRedisPrefix:   "fba:refresh_token",
	}
}

func newTestJWT(t *testing.T) (*JWT, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	c := cache.New(&redis.Pool{
		Dial: func() (redis.Conn, error) { return redis.Dial("tcp", s.Addr()) },
	})
	t.Cleanup(func() { _ = c.Close() })

	j, err := NewJWT(testTokenConfig(), c)
	require.NoError(t, err)
	return j, s
}

func TestNewJWT(t *testing.T) {
	_, err := NewJWT(config.TokenConfig{}, nil)
	assert.Error(t, err)

	cfg := testTokenConfig()
	cfg.Algorithm = "RS256"
	_, err = NewJWT(cfg, nil)
	assert.ErrorContains(t, err, "unsupported token algorithm")

	cfg.Algorithm = ""
	j, err := NewJWT(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, "HS256", j.method.Alg())
}

func TestCreateAccessTokenAndAuthenticate(t *testing.T) {
	j, s := newTestJWT(t)
	ctx := context.Background()

	tok, err := j.CreateAccessToken(ctx, 1, false)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tok.ExpireTime, 5*time.Second)
	assert.True(t, s.Exists("fba:token:1:"+tok.Value))
	assert.Equal(t, time.Hour, s.TTL("fba:token:1:"+tok.Value))

	sub, err := j.Authenticate(ctx, tok.Value)
	require.NoError(t, err)
	assert.Equal(t, int64(1), sub)
}

func TestSingleLoginRevokesPreviousTokens(t *testing.T) {
	j, s := newTestJWT(t)
	ctx := context.Background()

	other, err := j.CreateAccessToken(ctx, 10, false)
	require.NoError(t, err)
	first, err := j.CreateAccessToken(ctx, 1, false)
	require.NoError(t, err)
	second, err := j.CreateAccessToken(ctx, 1, false)
	require.NoError(t, err)
	assert.NotEqual(t, first.Value, second.Value)

	_, err = j.Authenticate(ctx, first.Value)
	assert.ErrorIs(t, err, ErrTokenExpired)
	_, err = j.Authenticate(ctx, second.Value)
	assert.NoError(t, err)

	// user 10 shares the "1" prefix but keeps its session
	assert.True(t, s.Exists("fba:token:10:"+other.Value))
}

func TestMultiLoginKeepsTokens(t *testing.T) {
	j, _ := newTestJWT(t)
	ctx := context.Background()

	first, err := j.CreateAccessToken(ctx, 2, true)
	require.NoError(t, err)
	_, err = j.CreateAccessToken(ctx, 2, true)
	require.NoError(t, err)

	_, err = j.Authenticate(ctx, first.Value)
	assert.NoError(t, err)
}

func TestDecode(t *testing.T) {
	j, _ := newTestJWT(t)

	t.Run("expired", func(t *testing.T) {
		past := time.Now().Add(-2 * time.Hour)
		j.now = func() time.Time { return past }
		tok, err := j.sign(1, time.Hour)
		j.now = time.Now
		require.NoError(t, err)

		_, err = j.Decode(tok.Value)
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: "1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other"))
		require.NoError(t, err)

		_, err = j.Decode(signed)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("bad subject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: "admin", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = j.Decode(signed)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("missing expiry", func(t *testing.T) {
		claims := jwt.RegisteredClaims{Subject: "1"}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = j.Decode(signed)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := j.Decode("not-a-jwt")
		assert.ErrorIs(t, err, ErrTokenInvalid)
	})
}

func TestCreateNewToken(t *testing.T) {
	j, s := newTestJWT(t)
	ctx := context.Background()

	pair, err := j.CreateTokenPair(ctx, 1, true)
	require.NoError(t, err)

	fresh, err := j.CreateNewToken(ctx, 1, pair.Access.Value, pair.Refresh.Value, true)
	require.NoError(t, err)
	assert.False(t, s.Exists("fba:token:1:"+pair.Access.Value))
	assert.False(t, s.Exists("fba:refresh_token:1:"+pair.Refresh.Value))
	assert.True(t, s.Exists("fba:token:1:"+fresh.Access.Value))
	assert.True(t, s.Exists("fba:refresh_token:1:"+fresh.Refresh.Value))

	_, err = j.CreateNewToken(ctx, 1, fresh.Access.Value, pair.Refresh.Value, true)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRevoke(t *testing.T) {
	j, s := newTestJWT(t)
	ctx := context.Background()

	a, err := j.CreateTokenPair(ctx, 3, true)
	require.NoError(t, err)
	b, err := j.CreateTokenPair(ctx, 3, true)
	require.NoError(t, err)

	require.NoError(t, j.Revoke(ctx, 3, a.Access.Value, a.Refresh.Value))
	assert.False(t, s.Exists("fba:token:3:"+a.Access.Value))
	assert.True(t, s.Exists("fba:token:3:"+b.Access.Value))

	c, err := j.CreateTokenPair(ctx, 3, true)
	require.NoError(t, err)
	require.NoError(t, j.RevokeAll(ctx, 3, c.Access.Value, c.Refresh.Value))
	assert.False(t, s.Exists("fba:token:3:"+b.Access.Value))
	assert.True(t, s.Exists("fba:token:3:"+c.Access.Value))
	assert.True(t, s.Exists("fba:refresh_token:3:"+c.Refresh.Value))

	require.NoError(t, j.RevokeAll(ctx, 3))
	assert.Empty(t, s.Keys())
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer   token ", want: "token"},
		{header: "", wantErr: true},
		{header: "Basic dXNlcjpwYXNz", wantErr: true},
		{header: "Bearer", wantErr: true},
		{header: "Bearer ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ParseBearer(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTokenInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
