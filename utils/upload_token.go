package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidUploadToken = errors.New("invalid upload token")
	ErrExpiredUploadToken = errors.New("expired upload token")
)

// IssueUploadToken mints a stateless upload token for the given user:
//
//	<userID>:<unix-seconds>:<hex(sha256(userID:ts:secret))[:32]>
//
// Validity is fully recomputable from the token and the server secret, so
// nothing is stored server-side. Returns the token and its expiry epoch.
func IssueUploadToken(userID, secret string, ttl int64, now time.Time) (string, int64) {
	timestamp := now.Unix()
	token := fmt.Sprintf("%s:%d:%s", userID, timestamp, uploadTokenDigest(userID, timestamp, secret))
	return token, timestamp + ttl
}

// VerifyUploadToken checks structure, signature and age of a token and returns
// the user ID it was issued for. It fails closed: any malformation yields
// ErrInvalidUploadToken. A token older than ttl seconds yields
// ErrExpiredUploadToken. Tokens are replayable within their window.
func VerifyUploadToken(token, secret string, ttl int64, now time.Time) (string, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return "", ErrInvalidUploadToken
	}

	userID, timestampStr, digest := parts[0], parts[1], parts[2]
	timestamp, err := strconv.ParseInt(timestampStr, 10, 64)
	if err != nil {
		return "", ErrInvalidUploadToken
	}

	if now.Unix()-timestamp > ttl {
		return "", ErrExpiredUploadToken
	}

	expected := uploadTokenDigest(userID, timestamp, secret)
	if subtle.ConstantTimeCompare([]byte(digest), []byte(expected)) != 1 {
		return "", ErrInvalidUploadToken
	}

	return userID, nil
}

func uploadTokenDigest(userID string, timestamp int64, secret string) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s", userID, timestamp, secret)))
	return hex.EncodeToString(sum[:])[:32]
}
