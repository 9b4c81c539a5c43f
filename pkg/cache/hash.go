package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// maxSlug bounds the readable part of an entry file name.
const maxSlug = 32

// entryStem names the file of key: a readable slug of the key followed by
// a short digest, e.g. "weather-metric-berlin-3f9a0c1d2e4b5a6f". Only
// [a-z0-9-] is used, so any key yields a safe name.
func entryStem(key string) string {
	sum := sha256.Sum256([]byte(key))
	digest := hex.EncodeToString(sum[:8])

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(key) {
		if b.Len() >= maxSlug {
			break
		}
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimRight(b.String(), "-")
	if slug == "" {
		return digest
	}
	return slug + "-" + digest
}
