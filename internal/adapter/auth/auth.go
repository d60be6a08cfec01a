// Package auth issues and resolves admin sessions as signed tokens.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/niksmo/misslily/internal/core/domain"
	"github.com/niksmo/misslily/internal/core/port"
	"golang.org/x/crypto/bcrypt"
)

var _ port.SessionManager = (*Sessions)(nil)

const DefaultTTL = 12 * time.Hour

// A RevocationList remembers signed-out sessions until they expire.
type RevocationList interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	Revoked(ctx context.Context, sessionID string) (bool, error)
}

type Credentials struct {
	Email        string
	PasswordHash string
}

type Opt func(*Sessions)

func TTLOpt(ttl time.Duration) Opt {
	return func(s *Sessions) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func IssuerOpt(iss string) Opt {
	return func(s *Sessions) {
		if iss != "" {
			s.issuer = iss
		}
	}
}

func ClockOpt(now func() time.Time) Opt {
	return func(s *Sessions) {
		if now != nil {
			s.now = now
		}
	}
}

// Sessions signs the single administrator in with bcrypt-checked
// credentials and hands out HS256 tokens.
type Sessions struct {
	admin   Credentials
	secret  []byte
	revoked RevocationList
	ttl     time.Duration
	issuer  string
	now     func() time.Time
}

func NewSessions(
	admin Credentials, secret string, revoked RevocationList, opts ...Opt,
) (Sessions, error) {
	const op = "NewSessions"

	if admin.Email == "" || admin.PasswordHash == "" {
		return Sessions{}, fmt.Errorf("%s: admin credentials are empty", op)
	}
	if _, err := bcrypt.Cost([]byte(admin.PasswordHash)); err != nil {
		return Sessions{}, fmt.Errorf("%s: password hash: %w", op, err)
	}
	if len(secret) < 32 {
		return Sessions{}, fmt.Errorf("%s: secret is shorter than 32 bytes", op)
	}

	s := Sessions{
		admin:   admin,
		secret:  []byte(secret),
		revoked: revoked,
		ttl:     DefaultTTL,
		issuer:  "misslily",
		now:     time.Now,
	}
	for _, o := range opts {
		o(&s)
	}
	return s, nil
}

func (s Sessions) SignIn(
	ctx context.Context, email, password string,
) (domain.Session, string, error) {
	const op = "Sessions.SignIn"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Session{}, "", fmt.Errorf("%s: %w", op, err)
	}

	email = strings.ToLower(strings.TrimSpace(email))
	want := strings.ToLower(s.admin.Email)
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(want)) == 1
	passErr := bcrypt.CompareHashAndPassword(
		[]byte(s.admin.PasswordHash), []byte(password),
	)
	if !emailOK || passErr != nil {
		log.Warn("sign in rejected", "email", email)
		return domain.Session{}, "", fmt.Errorf("%s: %w", op, domain.ErrUnauthorized)
	}

	now := s.now().Truncate(time.Second)
	sess := domain.Session{
		ID:         uuid.NewString(),
		AdminEmail: s.admin.Email,
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.ttl),
	}

	claims := jwt.RegisteredClaims{
		ID:        sess.ID,
		Subject:   sess.AdminEmail,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
		ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(s.secret)
	if err != nil {
		return domain.Session{}, "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("signed in", "session", sess.ID)
	return sess, token, nil
}

// Resolve returns the session carried by token. Expired, forged and
// signed-out tokens resolve to [domain.ErrUnauthorized].
func (s Sessions) Resolve(ctx context.Context, token string) (domain.Session, error) {
	const op = "Sessions.Resolve"

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return domain.Session{}, fmt.Errorf(
			"%s: %w: %w", op, domain.ErrUnauthorized, err,
		)
	}
	if claims.ID == "" || claims.Subject != s.admin.Email {
		return domain.Session{}, fmt.Errorf("%s: %w", op, domain.ErrUnauthorized)
	}

	if s.revoked != nil {
		revoked, err := s.revoked.Revoked(ctx, claims.ID)
		if err != nil {
			return domain.Session{}, fmt.Errorf("%s: %w", op, err)
		}
		if revoked {
			return domain.Session{}, fmt.Errorf(
				"%s: %w: signed out", op, domain.ErrUnauthorized,
			)
		}
	}

	sess := domain.Session{
		ID:         claims.ID,
		AdminEmail: claims.Subject,
		ExpiresAt:  claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		sess.IssuedAt = claims.IssuedAt.Time
	}
	return sess, nil
}

func (s Sessions) SignOut(ctx context.Context, sess domain.Session) error {
	const op = "Sessions.SignOut"

	if s.revoked == nil {
		return nil
	}

	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Revoke(ctx, sess.ID, ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// HashPassword returns the bcrypt hash stored in the admin configuration.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
