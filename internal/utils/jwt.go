package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned for every verification failure: bad signature,
// malformed input, wrong algorithm, missing subject or expiry in the past.
var ErrInvalidToken = errors.New("invalid token")

var hmacMethods = map[string]*jwt.SigningMethodHMAC{
	jwt.SigningMethodHS256.Alg(): jwt.SigningMethodHS256,
	jwt.SigningMethodHS384.Alg(): jwt.SigningMethodHS384,
	jwt.SigningMethodHS512.Alg(): jwt.SigningMethodHS512,
}

// IsSupportedAlgorithm reports whether alg can be used by TokenService.
func IsSupportedAlgorithm(alg string) bool {
	_, ok := hmacMethods[alg]
	return ok
}

type TokenConfig struct {
	SecretKey string
	Algorithm string
	Lifetime  time.Duration
}

// TokenService issues and verifies stateless access tokens. It holds no
// mutable state and is safe for concurrent use.
type TokenService struct {
	secret   []byte
	method   *jwt.SigningMethodHMAC
	lifetime time.Duration
	now      func() time.Time
}

func NewTokenService(cfg TokenConfig) (*TokenService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("token: secret key is required")
	}
	method, ok := hmacMethods[cfg.Algorithm]
	if !ok {
		return nil, errors.New("token: unsupported signing algorithm " + cfg.Algorithm)
	}
	if cfg.Lifetime <= 0 {
		return nil, errors.New("token: lifetime must be positive")
	}

	return &TokenService{
		secret:   []byte(cfg.SecretKey),
		method:   method,
		lifetime: cfg.Lifetime,
		now:      time.Now,
	}, nil
}

// Lifetime is the default validity used when Issue gets a zero duration.
func (s *TokenService) Lifetime() time.Duration {
	return s.lifetime
}

// Issue signs a token for subject that expires after expiresIn (the configured
// lifetime when zero). extra claims are embedded as-is but never read back;
// they cannot override sub, exp or iat.
func (s *TokenService) Issue(subject uuid.UUID, expiresIn time.Duration, extra map[string]any) (string, error) {
	if expiresIn == 0 {
		expiresIn = s.lifetime
	}
	now := s.now()

	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims["sub"] = subject.String()
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(expiresIn))

	return jwt.NewWithClaims(s.method, claims).SignedString(s.secret)
}

// Verify returns the subject of a valid token. Any failure yields ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	// uuid.Parse also accepts braced, urn and undashed forms; only the
	// canonical form Issue writes is valid
	subject, err := uuid.Parse(claims.Subject)
	if err != nil || subject == uuid.Nil || subject.String() != claims.Subject {
		return uuid.Nil, ErrInvalidToken
	}
	return subject, nil
}
