package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	"zest/internal/auth/domain/repository"
)

const (
	// sessionTokenBytes is the raw entropy of a session token: 32 bytes,
	// 256 bits, hex-encoded for transport.
	sessionTokenBytes = 32

	tempPasswordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// RandTokenSource draws all secrets from crypto/rand.
type RandTokenSource struct{}

// NewRandTokenSource creates a token source backed by the platform CSPRNG.
func NewRandTokenSource() *RandTokenSource {
	return &RandTokenSource{}
}

// SessionToken returns a 64-character hex token carrying 256 bits of entropy.
func (s *RandTokenSource) SessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// TempPassword returns a random alphanumeric password of the given length.
// Each character is drawn with rand.Int, so the distribution over the
// alphabet is uniform.
func (s *RandTokenSource) TempPassword(length int) (string, error) {
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate temp password: %w", err)
		}
		out[i] = tempPasswordAlphabet[n.Int64()]
	}
	return string(out), nil
}

var _ repository.TokenSource = (*RandTokenSource)(nil)
