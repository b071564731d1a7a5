package shipping

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/mercanto/storefront-backend/pkg/enums"
)

const trackingSuffixAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SynthesizeTrackingNumber builds an offline tracking number from the
// carrier prefix, the last eight digits of the current epoch millis, and a
// four-character random suffix. Collision-resistant in practice, not
// globally unique: a gateway-issued number always takes precedence.
func SynthesizeTrackingNumber(carrier enums.Carrier, now time.Time) string {
	millis := now.UnixMilli() % 100_000_000
	return fmt.Sprintf("%s%08d%s", carrier.TrackingPrefix(), millis, randomSuffix(4))
}

func randomSuffix(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return strings.Repeat("X", length)
	}
	for i, b := range buf {
		buf[i] = trackingSuffixAlphabet[int(b)%len(trackingSuffixAlphabet)]
	}
	return string(buf)
}
