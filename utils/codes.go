package utils

import (
	"crypto/rand"
	"regexp"
	"strings"
)

var codeShape = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{2,63}$`)

// NormalizeCode trims whitespace that scanners and manual entry tend to add.
func NormalizeCode(code string) string {
	return strings.TrimSpace(code)
}

// ValidCodeShape reports whether code could possibly name a redemption target.
func ValidCodeShape(code string) bool {
	return codeShape.MatchString(code)
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateCode returns prefix + "-" + 10 random characters from an alphabet
// without look-alike glyphs.
func GenerateCode(prefix string) (string, error) {
	buf := make([]byte, 10)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return prefix + "-" + string(buf), nil
}
