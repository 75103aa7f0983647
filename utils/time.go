// Package utils
package utils

import (
	"fmt"
	"time"
)

const expiredText = "Expired"

// FormatTimeRemaining renders the time left until deadline (unix seconds) as "m:ss",
// or "Expired" once the deadline has passed.
func FormatTimeRemaining(deadline int64, now time.Time) string {
	remaining := deadline - now.Unix()
	if remaining <= 0 {
		return expiredText
	}
	return fmt.Sprintf("%d:%02d", remaining/60, remaining%60)
}
