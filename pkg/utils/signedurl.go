package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// URLSigner produces and checks presigned download query strings
// (exp, nonce, sig) bound to a resource ID.
type URLSigner struct {
	secret []byte
}

func NewURLSigner(secret string) *URLSigner {
	return &URLSigner{secret: []byte(secret)}
}

// SignedQuery builds the query string for the given resource. expiresIn
// of zero or less falls back to 5 minutes.
func (s *URLSigner) SignedQuery(resourceID string, expiresIn time.Duration) (string, error) {
	if resourceID == "" {
		return "", errors.New("resource ID is required")
	}
	if expiresIn <= 0 {
		expiresIn = 5 * time.Minute
	}

	expiration := time.Now().Add(expiresIn).Unix()
	nonceBytes := make([]byte, 12)
	if _, err := rand.Read(nonceBytes); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	nonce := hex.EncodeToString(nonceBytes)

	sig := s.sign(payload(resourceID, expiration, nonce))
	return fmt.Sprintf("exp=%d&nonce=%s&sig=%s", expiration, nonce, sig), nil
}

// Validate checks the presigned query parameters for the resource.
func (s *URLSigner) Validate(resourceID, expStr, nonce, sig string) error {
	if resourceID == "" || expStr == "" || nonce == "" || sig == "" {
		return errors.New("missing download signature parameters")
	}

	expiration, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expiration: %w", err)
	}
	if time.Now().Unix() > expiration {
		return errors.New("download link has expired")
	}

	expected := s.sign(payload(resourceID, expiration, nonce))
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return errors.New("invalid download signature")
	}
	return nil
}

func payload(resourceID string, expiration int64, nonce string) string {
	return strings.Join([]string{resourceID, strconv.FormatInt(expiration, 10), nonce}, "|")
}

func (s *URLSigner) sign(p string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(p))
	return hex.EncodeToString(mac.Sum(nil))
}
