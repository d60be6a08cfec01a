package auth_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/niksmo/misslily/internal/adapter/auth"
	"github.com/niksmo/misslily/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail = "admin@misslily.in"
	password   = "s3cret-pass"
	secret     = "0123456789abcdef0123456789abcdef"
)

type memRevocations struct {
	mu  sync.Mutex
	ids map[string]time.Duration
	err error
}

func newMemRevocations() *memRevocations {
	return &memRevocations{ids: make(map[string]time.Duration)}
}

func (r *memRevocations) Revoke(_ context.Context, id string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids[id] = ttl
	return nil
}

func (r *memRevocations) Revoked(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.ids[id]
	return ok, nil
}

func credentials(t *testing.T) auth.Credentials {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return auth.Credentials{Email: adminEmail, PasswordHash: string(hash)}
}

func newSessions(
	t *testing.T, rl auth.RevocationList, opts ...auth.Opt,
) auth.Sessions {
	t.Helper()
	s, err := auth.NewSessions(credentials(t), secret, rl, opts...)
	require.NoError(t, err)
	return s
}

func TestNewSessions(t *testing.T) {
	t.Run("ShortSecret", func(t *testing.T) {
		_, err := auth.NewSessions(credentials(t), "short", nil)
		assert.Error(t, err)
	})

	t.Run("PlainPasswordInsteadOfHash", func(t *testing.T) {
		_, err := auth.NewSessions(
			auth.Credentials{Email: adminEmail, PasswordHash: password}, secret, nil,
		)
		assert.Error(t, err)
	})
}

func TestSignIn(t *testing.T) {
	t.Run("Accepted", func(t *testing.T) {
		s := newSessions(t, newMemRevocations(), auth.TTLOpt(time.Hour))

		sess, token, err := s.SignIn(t.Context(), " Admin@MissLily.in ", password)
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.NotEmpty(t, sess.ID)
		assert.Equal(t, adminEmail, sess.AdminEmail)
		assert.Equal(t, time.Hour, sess.ExpiresAt.Sub(sess.IssuedAt))

		resolved, err := s.Resolve(t.Context(), token)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, resolved.ID)
		assert.True(t, sess.ExpiresAt.Equal(resolved.ExpiresAt))
	})

	t.Run("WrongPassword", func(t *testing.T) {
		s := newSessions(t, nil)

		_, _, err := s.SignIn(t.Context(), adminEmail, "nope")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("WrongEmail", func(t *testing.T) {
		s := newSessions(t, nil)

		_, _, err := s.SignIn(t.Context(), "someone@misslily.in", password)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestResolve(t *testing.T) {
	t.Run("Expired", func(t *testing.T) {
		issued := time.Now().Add(-2 * time.Hour)
		s := newSessions(t, nil,
			auth.TTLOpt(time.Hour),
			auth.ClockOpt(func() time.Time { return issued }),
		)
		_, token, err := s.SignIn(t.Context(), adminEmail, password)
		require.NoError(t, err)

		later := newSessions(t, nil)
		_, err = later.Resolve(t.Context(), token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("ForeignSecret", func(t *testing.T) {
		s := newSessions(t, nil)
		claims := jwt.RegisteredClaims{
			ID:        "forged",
			Subject:   adminEmail,
			Issuer:    "misslily",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
			SignedString([]byte("another-secret-another-secret-00"))
		require.NoError(t, err)

		_, err = s.Resolve(t.Context(), token)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Garbage", func(t *testing.T) {
		s := newSessions(t, nil)
		_, err := s.Resolve(t.Context(), "not.a.token")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("RevocationListDown", func(t *testing.T) {
		rl := newMemRevocations()
		s := newSessions(t, rl)
		_, token, err := s.SignIn(t.Context(), adminEmail, password)
		require.NoError(t, err)

		rl.err = errors.New("connection refused")
		_, err = s.Resolve(t.Context(), token)
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestSignOut(t *testing.T) {
	rl := newMemRevocations()
	s := newSessions(t, rl, auth.TTLOpt(time.Hour))

	sess, token, err := s.SignIn(t.Context(), adminEmail, password)
	require.NoError(t, err)

	require.NoError(t, s.SignOut(t.Context(), sess))
	assert.InDelta(t, time.Hour, rl.ids[sess.ID], float64(5*time.Second))

	_, err = s.Resolve(t.Context(), token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestHashPassword(t *testing.T) {
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)))

	_, err = auth.HashPassword("")
	assert.Error(t, err)
}

type MockRedis struct {
	mock.Mock
}

func (m *MockRedis) Set(
	ctx context.Context, key string, value any, expiration time.Duration,
) *redis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*redis.StatusCmd)
}

func (m *MockRedis) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	args := m.Called(ctx, keys)
	return args.Get(0).(*redis.IntCmd)
}

func TestRedisRevocations(t *testing.T) {
	t.Run("Revoke", func(t *testing.T) {
		rdb := new(MockRedis)
		rdb.On("Set", mock.Anything, "misslily:session:revoked:s1", 1, time.Minute).
			Return(redis.NewStatusResult("OK", nil)).Once()

		rl := auth.NewRedisRevocations(rdb)
		require.NoError(t, rl.Revoke(t.Context(), "s1", time.Minute))
		rdb.AssertExpectations(t)
	})

	t.Run("Revoked", func(t *testing.T) {
		rdb := new(MockRedis)
		rdb.On("Exists", mock.Anything, []string{"misslily:session:revoked:s1"}).
			Return(redis.NewIntResult(1, nil)).Once()
		rdb.On("Exists", mock.Anything, []string{"misslily:session:revoked:s2"}).
			Return(redis.NewIntResult(0, nil)).Once()

		rl := auth.NewRedisRevocations(rdb)

		revoked, err := rl.Revoked(t.Context(), "s1")
		require.NoError(t, err)
		assert.True(t, revoked)

		revoked, err = rl.Revoked(t.Context(), "s2")
		require.NoError(t, err)
		assert.False(t, revoked)
	})

	t.Run("Error", func(t *testing.T) {
		rdb := new(MockRedis)
		errRedis := errors.New("i/o timeout")
		rdb.On("Exists", mock.Anything, mock.Anything).
			Return(redis.NewIntResult(0, errRedis)).Once()

		_, err := auth.NewRedisRevocations(rdb).Revoked(t.Context(), "s1")
		assert.ErrorIs(t, err, errRedis)
	})
}
