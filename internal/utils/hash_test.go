package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test constants
const (
	testPassword        = "SecurePassword123!"
	testWrongPassword   = "WrongPassword456!"
	testSpecialPassword = "P@ssw0rd!#$%"
)

func TestHashPassword_Success(t *testing.T) {
	hash, err := HashPassword(testPassword)

	require.NoError(t, err, "HashPassword should not return error for valid password")
	assert.NotEmpty(t, hash, "Hash should not be empty")
	assert.NotEqual(t, testPassword, hash, "Hash should be different from password")
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"), "Hash should carry the Argon2id identifier")
}

func TestHashPassword_UniqueHashes(t *testing.T) {
	hash1, err1 := HashPassword(testPassword)
	hash2, err2 := HashPassword(testPassword)

	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.NotEqual(t, hash1, hash2, "Same password should produce different hashes due to unique salt")
	assert.True(t, VerifyPassword(testPassword, hash1))
	assert.True(t, VerifyPassword(testPassword, hash2))
}

func TestHashPassword_VeryLongPassword(t *testing.T) {
	password := strings.Repeat("a", 1000)

	hash, err := HashPassword(password)

	require.NoError(t, err, "HashPassword should handle very long passwords")
	assert.True(t, VerifyPassword(password, hash), "Very long password should match its hash")
}

func TestHashPassword_UnicodeCharacters(t *testing.T) {
	unicodePasswords := []string{
		"パスワード123",
		"Şifre123!",
		"Пароль123",
		"🔒🔑Password123",
	}

	for _, password := range unicodePasswords {
		t.Run(password, func(t *testing.T) {
			hash, err := HashPassword(password)

			require.NoError(t, err)
			assert.True(t, VerifyPassword(password, hash), "Unicode password should match its hash")
		})
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	invalidHashes := []string{
		"",
		"plain-text-not-hash",
		"$invalid$format$",
		"$argon2id$v=19$m=65536",
		"$argon2id$v=19$m=65536$corrupted",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
		"$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"SamplePassHash",
	}

	for _, invalidHash := range invalidHashes {
		t.Run(invalidHash, func(t *testing.T) {
			assert.False(t, VerifyPassword(testPassword, invalidHash), "Malformed hash should never match")
		})
	}
}

func TestDecodeHash_RejectsExcessiveCost(t *testing.T) {
	valid, err := HashPassword(testPassword)
	require.NoError(t, err)
	parts := strings.Split(valid, "$")

	costs := []string{
		"m=4294967295,t=1,p=4",
		"m=65536,t=4294967295,p=4",
		"m=2097152,t=1,p=4",
		"m=65536,t=17,p=4",
		"m=0,t=1,p=4",
	}

	for _, cost := range costs {
		t.Run(cost, func(t *testing.T) {
			parts[3] = cost
			encoded := strings.Join(parts, "$")

			_, _, _, err := decodeHash(encoded)
			assert.ErrorIs(t, err, ErrInvalidHash)
			assert.False(t, VerifyPassword(testPassword, encoded))
		})
	}
}

func TestVerifyPassword_TableDriven(t *testing.T) {
	testCases := []struct {
		name        string
		password    string
		testPass    string
		expectMatch bool
	}{
		{name: "correct_password", password: testPassword, testPass: testPassword, expectMatch: true},
		{name: "incorrect_password", password: testPassword, testPass: testWrongPassword, expectMatch: false},
		{name: "empty_password", password: "", testPass: "", expectMatch: true},
		{name: "special_characters", password: testSpecialPassword, testPass: testSpecialPassword, expectMatch: true},
		{name: "case_sensitive", password: "Password123", testPass: "password123", expectMatch: false},
		{name: "whitespace_matters", password: "Password123 ", testPass: "Password123", expectMatch: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			hash, err := HashPassword(tc.password)
			require.NoError(t, err, "Setup: HashPassword should not fail")

			assert.Equal(t, tc.expectMatch, VerifyPassword(tc.testPass, hash))
		})
	}
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword(testPassword)
	}
}

func BenchmarkVerifyPassword(b *testing.B) {
	hash, _ := HashPassword(testPassword)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = VerifyPassword(testPassword, hash)
	}
}
