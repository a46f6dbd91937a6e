package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var tokenCharset = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789")

// Capability token lengths. At 62 symbols per position, 16 characters give
// ~95 bits of entropy, far beyond what is guessable inside a 72h retention
// window. The registry still enforces uniqueness with a DB constraint.
const (
	MinTokenLength    = 16
	EditorTokenLength = 24
	ClientTokenLength = 16
)

// IssueToken produces an unguessable alphanumeric capability token. Pure
// function of the entropy source; collisions are the caller's problem to
// detect at insert time.
func IssueToken(length int) (string, error) {
	if length < MinTokenLength {
		return "", fmt.Errorf("token length %d below minimum %d", length, MinTokenLength)
	}

	result := make([]rune, length)
	for i := 0; i < length; i++ {
		idx, err := randInt(len(tokenCharset))
		if err != nil {
			return "", err
		}
		result[i] = tokenCharset[idx]
	}
	return string(result), nil
}

func randInt(max int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0, fmt.Errorf("read entropy: %w", err)
	}
	return int(n.Int64()), nil
}
