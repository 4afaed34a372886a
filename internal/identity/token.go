package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	app_errors "omnichat/backend/internal/errors"
)

// Claims is the payload of an identity token. The subject is the user id.
type Claims struct {
	Anonymous bool   `json:"anon"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 identity tokens. Tokens for
// registered users are expected to come from the external identity provider
// sharing the same secret; this service issues them for anonymous sessions.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token for u.
func (s *TokenService) Issue(u User) (string, error) {
	if u.UID == "" {
		return "", fmt.Errorf("%w: user id is required", app_errors.ErrValidation)
	}
	now := s.now()
	claims := Claims{
		Anonymous: u.IsAnonymous,
		Email:     u.Email,
		Name:      u.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.UID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign identity token: %w", err)
	}
	return signed, nil
}

// IssueAnonymous creates a fresh anonymous identity and its token.
func (s *TokenService) IssueAnonymous() (User, string, error) {
	u := User{UID: "anon-" + uuid.NewString(), IsAnonymous: true}
	token, err := s.Issue(u)
	return u, token, err
}

// Verify checks signature, issuer and expiry and returns the token's user.
// Every failure wraps app_errors.ErrUnauthorized.
func (s *TokenService) Verify(token string) (*User, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: identity token expired", app_errors.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: invalid identity token: %v", app_errors.ErrUnauthorized, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: identity token has no subject", app_errors.ErrUnauthorized)
	}
	return &User{
		UID:         claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
		IsAnonymous: claims.Anonymous,
	}, nil
}
