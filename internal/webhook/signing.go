package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// MaxTimestampSkew is the replay/clock-skew window for inbound events, in
// either direction.
const MaxTimestampSkew = 5 * time.Minute

// Sign computes the hex HMAC-SHA256 of "{timestamp}.{payload}".
// Timestamps are Unix milliseconds.
func Sign(payload []byte, secret string, timestamp int64) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a claimed signature against an ordered list of active
// secrets, so rotation keeps in-flight events verifiable. It returns the
// index of the matching secret for audit logging; callers must never
// expose which secret matched. Comparison is constant-time per candidate.
func Verify(payload []byte, signature string, timestamp int64, secrets []string) (int, bool) {
	for i, secret := range secrets {
		expected := Sign(payload, secret, timestamp)
		if hmac.Equal([]byte(signature), []byte(expected)) {
			return i, true
		}
	}
	return -1, false
}

// WithinSkew reports whether a claimed timestamp is acceptably close to
// the current time.
func WithinSkew(timestamp int64, now time.Time) bool {
	delta := now.UnixMilli() - timestamp
	if delta < 0 {
		delta = -delta
	}
	return delta <= MaxTimestampSkew.Milliseconds()
}
