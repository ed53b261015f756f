package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const paymentIDPrefix = "PAY_"

// GeneratePaymentID returns an opaque receipt identifier: a fixed prefix
// plus 16 uppercase hex characters from a CSPRNG. Collisions are not
// checked against existing records.
func GeneratePaymentID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate payment id: %w", err)
	}
	return paymentIDPrefix + strings.ToUpper(hex.EncodeToString(buf)), nil
}

func GenerateUUID() string {
	return uuid.NewString()
}
