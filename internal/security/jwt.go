package security

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"adminapi/internal/config"
)

// TokenStore keeps issued tokens so they can be revoked before they expire.
// *cache.Client satisfies it.
type TokenStore interface {
	SetEx(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Del(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string, exclude ...string) error
}

type Token struct {
	Value      string
	ExpireTime time.Time
}

type TokenPair struct {
	Access  Token
	Refresh Token
}

// JWT issues access and refresh tokens. Every issued token is stored under
// "<prefix>:<user id>:<token>" and is only honored while that key exists.
type JWT struct {
	cfg    config.TokenConfig
	method jwt.SigningMethod
	store  TokenStore
	now    func() time.Time
}

func NewJWT(cfg config.TokenConfig, store TokenStore) (*JWT, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("token secret key is required")
	}
	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", alg)
	}
	return &JWT{cfg: cfg, method: method, store: store, now: time.Now}, nil
}

func key(prefix string, sub int64, token string) string {
	return fmt.Sprintf("%s:%d:%s", prefix, sub, token)
}

// subjectPrefix ends with a colon so that user 1 never matches user 10.
func subjectPrefix(prefix string, sub int64) string {
	return fmt.Sprintf("%s:%d:", prefix, sub)
}

func (j *JWT) sign(sub int64, ttl time.Duration) (Token, error) {
	now := j.now()
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(sub, 10),
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(j.method, claims).SignedString([]byte(j.cfg.SecretKey))
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ExpireTime: exp}, nil
}

func (j *JWT) issue(ctx context.Context, prefix string, seconds int, sub int64, multiLogin bool) (Token, error) {
	ttl := time.Duration(seconds) * time.Second
	tok, err := j.sign(sub, ttl)
	if err != nil {
		return Token{}, err
	}
	if !multiLogin {
		if err := j.store.DeletePrefix(ctx, subjectPrefix(prefix, sub)); err != nil {
			return Token{}, err
		}
	}
	if err := j.store.SetEx(ctx, key(prefix, sub, tok.Value), tok.Value, ttl); err != nil {
		return Token{}, err
	}
	return tok, nil
}

// CreateAccessToken issues an access token. Unless multiLogin is set, the
// user's other access tokens are revoked.
func (j *JWT) CreateAccessToken(ctx context.Context, sub int64, multiLogin bool) (Token, error) {
	return j.issue(ctx, j.cfg.RedisPrefix, j.cfg.ExpireSeconds, sub, multiLogin)
}

// CreateRefreshToken issues a refresh token. Unless multiLogin is set, the
// user's other refresh tokens are revoked.
func (j *JWT) CreateRefreshToken(ctx context.Context, sub int64, multiLogin bool) (Token, error) {
	return j.issue(ctx, j.cfg.RefreshRedisPrefix, j.cfg.RefreshExpireSeconds, sub, multiLogin)
}

// CreateTokenPair issues an access and a refresh token together.
func (j *JWT) CreateTokenPair(ctx context.Context, sub int64, multiLogin bool) (TokenPair, error) {
	access, err := j.CreateAccessToken(ctx, sub, multiLogin)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := j.CreateRefreshToken(ctx, sub, multiLogin)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// CreateNewToken exchanges a stored refresh token for a fresh pair and
// revokes the old access and refresh tokens.
func (j *JWT) CreateNewToken(ctx context.Context, sub int64, accessToken, refreshToken string, multiLogin bool) (TokenPair, error) {
	refreshKey := key(j.cfg.RefreshRedisPrefix, sub, refreshToken)
	stored, ok, err := j.store.Get(ctx, refreshKey)
	if err != nil {
		return TokenPair{}, err
	}
	if !ok || stored != refreshToken {
		return TokenPair{}, fmt.Errorf("%w: refresh token", ErrTokenExpired)
	}

	pair, err := j.CreateTokenPair(ctx, sub, multiLogin)
	if err != nil {
		return TokenPair{}, err
	}
	if err := j.store.Del(ctx, key(j.cfg.RedisPrefix, sub, accessToken), refreshKey); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// Decode verifies the signature and expiry of token and returns its subject.
func (j *JWT) Decode(token string) (int64, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return []byte(j.cfg.SecretKey), nil },
		jwt.WithValidMethods([]string{j.method.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenInvalid
	}
	sub, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || sub <= 0 {
		return 0, ErrTokenInvalid
	}
	return sub, nil
}

// Authenticate decodes token and checks it has not been revoked.
func (j *JWT) Authenticate(ctx context.Context, token string) (int64, error) {
	sub, err := j.Decode(token)
	if err != nil {
		return 0, err
	}
	_, ok, err := j.store.Get(ctx, key(j.cfg.RedisPrefix, sub, token))
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrTokenExpired
	}
	return sub, nil
}

// Revoke removes one access token and, when given, its refresh token.
func (j *JWT) Revoke(ctx context.Context, sub int64, accessToken, refreshToken string) error {
	keys := []string{key(j.cfg.RedisPrefix, sub, accessToken)}
	if refreshToken != "" {
		keys = append(keys, key(j.cfg.RefreshRedisPrefix, sub, refreshToken))
	}
	return j.store.Del(ctx, keys...)
}

// RevokeAll signs the user out everywhere except for the token values in keep.
func (j *JWT) RevokeAll(ctx context.Context, sub int64, keep ...string) error {
	for _, prefix := range []string{j.cfg.RedisPrefix, j.cfg.RefreshRedisPrefix} {
		exclude := make([]string, 0, len(keep))
		for _, tok := range keep {
			if tok != "" {
				exclude = append(exclude, key(prefix, sub, tok))
			}
		}
		if err := j.store.DeletePrefix(ctx, subjectPrefix(prefix, sub), exclude...); err != nil {
			return err
		}
	}
	return nil
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", ErrTokenInvalid
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrTokenInvalid
	}
	return token, nil
}
