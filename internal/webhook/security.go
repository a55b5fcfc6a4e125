package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	errInvalidSignature = errors.New("signature verification failed")
	errInvalidToken     = errors.New("invalid token")
)

// SecurityValidator authenticates webhook deliveries.
type SecurityValidator struct {
	config SecurityConfig
}

func NewSecurityValidator(config SecurityConfig) *SecurityValidator {
	return &SecurityValidator{config: config}
}

// Enabled reports whether deliveries must be authenticated.
func (v *SecurityValidator) Enabled() bool {
	return v.config.Secret != ""
}

// ValidateGitHubSignature verifies GitHub webhook signature
func (v *SecurityValidator) ValidateGitHubSignature(payload []byte, signature string) error {
	if !v.Enabled() {
		return nil
	}

	// GitHub sends signature as "sha256=<hex>"
	hexSig, ok := strings.CutPrefix(signature, "sha256=")
	if !ok {
		return fmt.Errorf("%w: invalid signature format", errInvalidSignature)
	}

	expectedSig, err := hex.DecodeString(hexSig)
	if err != nil {
		return fmt.Errorf("%w: invalid signature hex encoding: %v", errInvalidSignature, err)
	}

	if !hmac.Equal(expectedSig, Sign(v.config.Secret, payload)) {
		return errInvalidSignature
	}

	return nil
}

// ValidateGitLabToken verifies GitLab webhook token
func (v *SecurityValidator) ValidateGitLabToken(token string) error {
	if !v.Enabled() {
		return nil
	}

	if !hmac.Equal([]byte(token), []byte(v.config.Secret)) {
		return errInvalidToken
	}

	return nil
}

// Sign returns the HMAC-SHA256 of payload under secret.
func Sign(secret string, payload []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return mac.Sum(nil)
}
