package utils

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func TestIssueUploadToken(t *testing.T) {
	issuedAt := time.Unix(1700000000, 0)

	token, expires := IssueUploadToken("user-1", testSecret, 3600, issuedAt)

	require.Equal(t, issuedAt.Unix()+3600, expires)

	parts := strings.Split(token, ":")
	require.Len(t, parts, 3)
	assert.Equal(t, "user-1", parts[0])
	assert.Equal(t, fmt.Sprintf("%d", issuedAt.Unix()), parts[1])
	assert.Len(t, parts[2], 32)
}

func TestVerifyUploadTokenRoundTrip(t *testing.T) {
	issuedAt := time.Unix(1700000000, 0)
	token, _ := IssueUploadToken("user-1", testSecret, 3600, issuedAt)

	userID, err := VerifyUploadToken(token, testSecret, 3600, issuedAt)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestVerifyUploadTokenWindow(t *testing.T) {
	issuedAt := time.Unix(1700000000, 0)
	token, _ := IssueUploadToken("user-1", testSecret, 3600, issuedAt)

	_, err := VerifyUploadToken(token, testSecret, 3600, issuedAt.Add(3599*time.Second))
	assert.NoError(t, err, "token should be valid one second before expiry")

	_, err = VerifyUploadToken(token, testSecret, 3600, issuedAt.Add(3601*time.Second))
	assert.ErrorIs(t, err, ErrExpiredUploadToken)
}

func TestVerifyUploadTokenTamperedSignature(t *testing.T) {
	issuedAt := time.Now()
	token, _ := IssueUploadToken("user-1", testSecret, 3600, issuedAt)

	// Flip the last digest character.
	last := token[len(token)-1]
	replacement := byte('0')
	if last == '0' {
		replacement = '1'
	}
	tampered := token[:len(token)-1] + string(replacement)

	_, err := VerifyUploadToken(tampered, testSecret, 3600, issuedAt)
	assert.ErrorIs(t, err, ErrInvalidUploadToken)

	// Still rejected no matter what the clock says.
	_, err = VerifyUploadToken(tampered, testSecret, 3600, issuedAt.Add(-time.Hour))
	assert.ErrorIs(t, err, ErrInvalidUploadToken)
}

func TestVerifyUploadTokenWrongSecret(t *testing.T) {
	token, _ := IssueUploadToken("user-1", testSecret, 3600, time.Now())

	_, err := VerifyUploadToken(token, "another-secret", 3600, time.Now())
	assert.ErrorIs(t, err, ErrInvalidUploadToken)
}

func TestVerifyUploadTokenMalformed(t *testing.T) {
	now := time.Now()

	for _, token := range []string{
		"",
		"user-1",
		"user-1:1700000000",
		"user-1:1700000000:abc:def",
		"user-1:not-a-number:0123456789abcdef0123456789abcdef",
	} {
		_, err := VerifyUploadToken(token, testSecret, 3600, now)
		assert.ErrorIs(t, err, ErrInvalidUploadToken, "token %q", token)
	}
}
