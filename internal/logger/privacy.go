package logger

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

const minSaltLength = 32

var hashSalt string

// InitHashSalt loads the hashing salt from LOG_HASH_SALT. When the variable
// is unset a random per-process salt is used, so hashes are only stable for
// the lifetime of the process. A salt that is set but shorter than 32
// characters is a deployment mistake and panics.
func InitHashSalt() {
	salt := os.Getenv("LOG_HASH_SALT")
	if salt == "" {
		buf := make([]byte, minSaltLength)
		if _, err := rand.Read(buf); err != nil {
			panic(fmt.Sprintf("failed to generate log hash salt: %v", err))
		}
		hashSalt = hex.EncodeToString(buf)
		return
	}
	if len(salt) < minSaltLength {
		panic(fmt.Sprintf("LOG_HASH_SALT must be at least %d characters", minSaltLength))
	}
	hashSalt = salt
}

// InitHashSaltForTesting sets the salt directly.
func InitHashSaltForTesting(salt string) {
	hashSalt = salt
}

// HashUsername creates a privacy-preserving hash of a username.
// This allows correlating a user's actions without writing the name to logs.
func HashUsername(username string) string {
	data := fmt.Sprintf("%s:%s", username, hashSalt)
	hash := sha256.Sum256([]byte(data))
	// Return first 8 characters for readability
	return hex.EncodeToString(hash[:])[:8]
}

// SanitizeDescription removes or truncates sensitive information from descriptions.
// This redacts the description but preserves length information for debugging.
func SanitizeDescription(desc string) string {
	if desc == "" {
		return "<empty>"
	}

	words := strings.Fields(desc)
	return fmt.Sprintf("<redacted: %d words, %d chars>", len(words), len(desc))
}

// SanitizeText is a general-purpose sanitizer for any user-provided text.
func SanitizeText(text string) string {
	if text == "" {
		return "<empty>"
	}

	if len(text) <= 10 {
		return fmt.Sprintf("<%d chars>", len(text))
	}

	return fmt.Sprintf("%s...<%d chars>", text[:3], len(text))
}
