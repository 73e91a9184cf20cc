package utils

import (
	"crypto/rand"
	"fmt"
)

const docIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateDocID generates a random 20-character document id in the
// style the backing store assigns on creation.
func GenerateDocID() (string, error) {
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	for i, b := range bytes {
		bytes[i] = docIDAlphabet[int(b)%len(docIDAlphabet)]
	}
	return string(bytes), nil
}
