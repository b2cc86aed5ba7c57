package logging

import (
	"log/slog"
	"strings"
)

// SensitiveKeyPatterns contains substrings of attribute keys whose values are
// masked in log output. Record field values are personal data, so "value" is
// masked along with credentials. Keys are matched case-insensitively.
var SensitiveKeyPatterns = []string{
	"VALUE",
	"PHONE",
	"EMAIL",
	"PASSWORD",
	"TOKEN",
	"SECRET",
}

// ShouldMask returns true if the key name suggests it holds sensitive data.
func ShouldMask(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range SensitiveKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// MaskValue masks a potentially sensitive string value.
// Values with 4 or fewer characters are fully masked as "********".
// Longer values show the last 4 characters: "****xxxx".
func MaskValue(value string) string {
	if len(value) <= 4 {
		return "********"
	}
	return "****" + value[len(value)-4:]
}

// redactAttr is a slog.HandlerOptions.ReplaceAttr that masks sensitive keys.
func redactAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup || !ShouldMask(a.Key) {
		return a
	}
	return slog.String(a.Key, MaskValue(a.Value.Resolve().String()))
}
