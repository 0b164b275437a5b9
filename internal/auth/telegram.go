// Package auth validates Telegram Login Widget assertions.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
	"time"
)

// MaxAge is how long a widget assertion stays acceptable after auth_date.
const MaxAge = 86400 * time.Second

// VerifyLoginWidget checks a field set produced by the Telegram Login
// Widget against the bot token.
//
// The widget signs the data-check string: all fields except "hash",
// serialized as "key=value", sorted by key, joined with \n, HMAC-SHA256
// keyed with SHA-256(botToken). The hex comparison goes through
// hmac.Equal; constant-time comparison here is a correctness requirement,
// not hygiene. Assertions older than MaxAge relative to now are rejected
// even when the signature matches. Malformed input (missing hash,
// unparsable auth_date) is a rejection, never a panic.
func VerifyLoginWidget(fields map[string]string, botToken string, now time.Time) bool {
	checkHash, ok := fields["hash"]
	if !ok || checkHash == "" {
		return false
	}

	lines := make([]string, 0, len(fields)-1)
	for k, v := range fields {
		if k == "hash" {
			continue
		}
		lines = append(lines, k+"="+v)
	}
	sort.Strings(lines)
	payload := strings.Join(lines, "\n")

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(checkHash)) {
		return false
	}

	authDate, err := strconv.ParseInt(fields["auth_date"], 10, 64)
	if err != nil {
		return false
	}
	if now.Sub(time.Unix(authDate, 0)) > MaxAge {
		return false
	}
	return true
}
