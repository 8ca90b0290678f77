package utils

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
)

const (
	charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	documentRefPrefix = "d-"
	documentRefLength = 12
)

func GenerateRandomAlphaNumeric(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be greater than 0")
	}

	result := make([]byte, length)
	charsetLen := big.NewInt(int64(len(charset)))

	for i := 0; i < length; i++ {
		randomIndex, err := rand.Int(rand.Reader, charsetLen)
		if err != nil {
			slog.Error("failed to generate random number", "error", err)
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = charset[randomIndex.Int64()]
	}

	return string(result), nil
}

// NewDocumentRef returns a public reference for a stored document, e.g.
// "d-4fQz81KpaT0c".
func NewDocumentRef() (string, error) {
	suffix, err := GenerateRandomAlphaNumeric(documentRefLength)
	if err != nil {
		return "", err
	}
	return documentRefPrefix + suffix, nil
}
