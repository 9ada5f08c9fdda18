package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

// GenerateAccessCode builds a club access code: three letters derived from
// the club name padded with 'X', followed by three digits.
// Uniqueness is the caller's concern (bounded retry against the store).
func GenerateAccessCode(clubName string) (string, error) {
	prefix := letterPrefix(clubName)

	n, err := rand.Int(rand.Reader, big.NewInt(900))
	if err != nil {
		return "", fmt.Errorf("failed to generate access code digits: %w", err)
	}

	return fmt.Sprintf("%s%03d", prefix, n.Int64()+100), nil
}

func letterPrefix(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if r >= 'A' && r <= 'Z' {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	prefix := b.String()
	for len(prefix) < 3 {
		prefix += "X"
	}
	return prefix
}
