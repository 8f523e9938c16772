package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test constants
const (
	testSecret          = "test-secret-key-for-jwt-testing"
	testWrongSecret     = "wrong-secret-key-for-jwt-testing"
	testTokenDuration   = 1 * time.Hour
	testExpiredDuration = -1 * time.Hour
)

func newTestTokenService(t *testing.T, secret string) *TokenService {
	t.Helper()
	svc, err := NewTokenService(TokenConfig{
		SecretKey: secret,
		Algorithm: "HS256",
		Lifetime:  30 * time.Minute,
	})
	require.NoError(t, err, "Setup: NewTokenService should not fail")
	return svc
}

func TestNewTokenService_InvalidConfig(t *testing.T) {
	testCases := []struct {
		name string
		cfg  TokenConfig
	}{
		{name: "empty_secret", cfg: TokenConfig{Algorithm: "HS256", Lifetime: time.Minute}},
		{name: "asymmetric_algorithm", cfg: TokenConfig{SecretKey: testSecret, Algorithm: "RS256", Lifetime: time.Minute}},
		{name: "none_algorithm", cfg: TokenConfig{SecretKey: testSecret, Algorithm: "none", Lifetime: time.Minute}},
		{name: "zero_lifetime", cfg: TokenConfig{SecretKey: testSecret, Algorithm: "HS256"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, err := NewTokenService(tc.cfg)

			assert.Error(t, err)
			assert.Nil(t, svc)
		})
	}
}

func TestIssue_RoundTrip(t *testing.T) {
	svc := newTestTokenService(t, testSecret)
	subject := uuid.New()

	token, err := svc.Issue(subject, testTokenDuration, nil)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3, "JWT should have header.payload.signature")

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, subject, got)
}

func TestIssue_SubjectIsBareUUID(t *testing.T) {
	svc := newTestTokenService(t, testSecret)
	subject := uuid.New()

	token, err := svc.Issue(subject, testTokenDuration, map[string]any{
		"other_custom_data": []int{1, 2, 3, 4},
		"sub":               "attacker-controlled",
	})
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)

	assert.Equal(t, subject.String(), claims["sub"], "extra claims must not override the subject")
	assert.NotNil(t, claims["exp"])
	assert.NotNil(t, claims["other_custom_data"])
}

func TestIssue_ZeroDurationUsesDefaultLifetime(t *testing.T) {
	svc := newTestTokenService(t, testSecret)
	issuedAt := time.Now()

	token, err := svc.Issue(uuid.New(), 0, nil)
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.WithinDuration(t, issuedAt.Add(30*time.Minute), claims.ExpiresAt.Time, 2*time.Second)
}

func TestVerify_ExpiredToken(t *testing.T) {
	svc := newTestTokenService(t, testSecret)

	token, err := svc.Issue(uuid.New(), testExpiredDuration, nil)
	require.NoError(t, err)

	subject, err := svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "expiry must surface as the uniform invalid token error")
	assert.Equal(t, uuid.Nil, subject)
}

func TestVerify_AfterExpirationInstant(t *testing.T) {
	svc := newTestTokenService(t, testSecret)
	subject := uuid.New()

	token, err := svc.Issue(subject, 5*time.Minute, nil)
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.NoError(t, err, "token should be valid before expiry")

	svc.now = func() time.Time { return time.Now().Add(5*time.Minute + time.Second) }
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_InvalidTokens(t *testing.T) {
	svc := newTestTokenService(t, testSecret)

	invalidTokens := []string{
		"",
		"invalid.token.here",
		"not-a-jwt-token",
		"a.b",
		"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9",
	}

	for _, invalidToken := range invalidTokens {
		t.Run(invalidToken, func(t *testing.T) {
			subject, err := svc.Verify(invalidToken)

			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Equal(t, uuid.Nil, subject)
		})
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	token, err := newTestTokenService(t, testSecret).Issue(uuid.New(), testTokenDuration, nil)
	require.NoError(t, err)

	_, err = newTestTokenService(t, testWrongSecret).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_TamperedToken(t *testing.T) {
	svc := newTestTokenService(t, testSecret)
	token, err := svc.Issue(uuid.New(), testTokenDuration, nil)
	require.NoError(t, err)

	_, err = svc.Verify(token + "a")
	assert.ErrorIs(t, err, ErrInvalidToken)

	parts := strings.Split(token, ".")
	forged, err := svc.Issue(uuid.New(), testTokenDuration, nil)
	require.NoError(t, err)
	spliced := strings.Join([]string{parts[0], strings.Split(forged, ".")[1], parts[2]}, ".")
	_, err = svc.Verify(spliced)
	assert.ErrorIs(t, err, ErrInvalidToken, "payload swapped under a foreign signature must fail")
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	svc := newTestTokenService(t, testSecret)
	claims := jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.Verify(hs512)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RequiresSubjectAndExpiry(t *testing.T) {
	svc := newTestTokenService(t, testSecret)
	id := uuid.NewString()
	exp := jwt.NewNumericDate(time.Now().Add(time.Hour))

	testCases := []struct {
		name   string
		claims jwt.RegisteredClaims
	}{
		{
			name:   "no_expiry",
			claims: jwt.RegisteredClaims{Subject: uuid.NewString()},
		},
		{
			name:   "non_uuid_subject",
			claims: jwt.RegisteredClaims{Subject: "42", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		},
		{
			name:   "json_encoded_subject",
			claims: jwt.RegisteredClaims{Subject: `"` + id + `"`, ExpiresAt: exp},
		},
		{
			name:   "braced_subject",
			claims: jwt.RegisteredClaims{Subject: "{" + id + "}", ExpiresAt: exp},
		},
		{
			name:   "wrapped_subject",
			claims: jwt.RegisteredClaims{Subject: "X" + id + "!", ExpiresAt: exp},
		},
		{
			name:   "urn_subject",
			claims: jwt.RegisteredClaims{Subject: "urn:uuid:" + id, ExpiresAt: exp},
		},
		{
			name:   "undashed_subject",
			claims: jwt.RegisteredClaims{Subject: strings.ReplaceAll(id, "-", ""), ExpiresAt: exp},
		},
		{
			name:   "uppercase_subject",
			claims: jwt.RegisteredClaims{Subject: strings.ToUpper(id), ExpiresAt: exp},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tc.claims).SignedString([]byte(testSecret))
			require.NoError(t, err)

			_, err = svc.Verify(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	// the canonical form with the same claims is accepted
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: id, ExpiresAt: exp}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	subject, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, subject.String())
}

func BenchmarkIssue(b *testing.B) {
	svc, _ := NewTokenService(TokenConfig{SecretKey: testSecret, Algorithm: "HS256", Lifetime: time.Hour})
	subject := uuid.New()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = svc.Issue(subject, 0, nil)
	}
}

func BenchmarkVerify(b *testing.B) {
	svc, _ := NewTokenService(TokenConfig{SecretKey: testSecret, Algorithm: "HS256", Lifetime: time.Hour})
	token, _ := svc.Issue(uuid.New(), 0, nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = svc.Verify(token)
	}
}
