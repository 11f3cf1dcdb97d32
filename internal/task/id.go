package task

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const (
	minIDLength  = 3
	maxIDLength  = 8
	nonceSize    = 16 // 128 bits of entropy
	hexChunkSize = 4  // 16 bits per base36 chunk
)

// GenerateID derives a short base36 ID for a stored task from its title, the
// creation time and a random nonce. The shortest prefix not reported by
// existsFn is returned, growing up to maxIDLength characters.
func GenerateID(title string, createdAt time.Time, existsFn func(ID) bool) ID {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}

	h := sha256.New()
	h.Write([]byte(title))
	h.Write([]byte(createdAt.Format(time.RFC3339Nano)))
	h.Write(nonce)
	encoded := hexToBase36(hex.EncodeToString(h.Sum(nil)))

	for length := minIDLength; length <= maxIDLength && length <= len(encoded); length++ {
		candidate := ID(encoded[:length])
		if !existsFn(candidate) {
			return candidate
		}
	}
	return ID(encoded[:maxIDLength])
}

func hexToBase36(hexStr string) string {
	var result strings.Builder
	for i := 0; i < len(hexStr); i += hexChunkSize {
		end := min(i+hexChunkSize, len(hexStr))
		val, _ := strconv.ParseUint(hexStr[i:end], 16, 64)
		result.WriteString(strconv.FormatUint(val, 36))
	}
	return result.String()
}
