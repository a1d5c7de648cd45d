package service

import (
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gomodule/redigo/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adminapi/internal/cache"
	"adminapi/internal/config"
	"adminapi/internal/logging"
	"adminapi/internal/security"
)

// seededHash is bcrypt("123456").
const seededHash = "$2b$10$RGL4MU3qEVSFY3J2w9lCeeIAOoctygdr.Qw57NCfm0/sRD.3ap9U2"

func quietLogs(t *testing.T) {
	t.Helper()
	orig := logging.L
	logging.L = logging.New(io.Discard, time.UTC)
	t.Cleanup(func() { logging.L = orig })
}

func newTokens(t *testing.T) (*security.JWT, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	c := cache.New(&redis.Pool{
		Dial: func() (redis.Conn, error) { return redis.Dial("tcp", s.Addr()) },
	})
	t.Cleanup(func() { _ = c.Close() })

	j, err := security.NewJWT(config.TokenConfig{
		SecretKey:            "test-secret",
		ExpireSeconds:        3600,
		RefreshExpireSeconds: 7200,
		RedisPrefix:          "fba:token",
		RefreshRedisPrefix:   "fba:refresh_token",
	}, c)
	require.NoError(t, err)
	return j, s
}

func ptr[T any](v T) *T { return &v }

func assertKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, kind)
	var se *Error
	assert.ErrorAs(t, err, &se)
}

func TestErrorUnwrap(t *testing.T) {
	err := newError(ErrConflict, "role %q exists", "admin")
	assert.Equal(t, `role "admin" exists`, err.Error())
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
}
