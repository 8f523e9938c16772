package testutil

import (
	"net/http"
	"testing"
	"time"

	"github.com/Baaaki/learning-platform/internal/utils"
	"github.com/google/uuid"
)

// AuthHeader returns an Authorization header value carrying a fresh token for userID.
func AuthHeader(t *testing.T, tokens *utils.TokenService, userID uuid.UUID) string {
	t.Helper()
	return "Bearer " + IssueToken(t, tokens, userID, 0)
}

// IssueToken signs a token for userID; a negative ttl yields an expired token.
func IssueToken(t *testing.T, tokens *utils.TokenService, userID uuid.UUID, ttl time.Duration) string {
	t.Helper()

	token, err := tokens.Issue(userID, ttl, nil)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

// SetAuth attaches a bearer token for userID to req.
func SetAuth(t *testing.T, req *http.Request, tokens *utils.TokenService, userID uuid.UUID) {
	t.Helper()
	req.Header.Set("Authorization", AuthHeader(t, tokens, userID))
}

// ParseUUID parses a UUID string and fails the test if invalid
func ParseUUID(t *testing.T, uuidStr string) uuid.UUID {
	t.Helper()

	id, err := uuid.Parse(uuidStr)
	if err != nil {
		t.Fatalf("Invalid UUID string: %s, error: %v", uuidStr, err)
	}
	return id
}
