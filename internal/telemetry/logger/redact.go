package logger

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Attribute keys whose contents are user payload. Only the size is logged.
var payloadKeys = map[string]bool{
	"value":   true,
	"payload": true,
	"message": true,
}

// Key patterns that should be fully redacted.
var sensitiveKeyPatterns = []string{
	"password",
	"secret",
	"credential",
	"private_key",
	"token",
}

const redactedValue = "***REDACTED***"

// MaxKeyDisplay bounds how much of a stored key is written to logs.
const MaxKeyDisplay = 64

func redactSensitive(a slog.Attr) slog.Attr {
	keyLower := strings.ToLower(a.Key)

	if payloadKeys[keyLower] {
		switch a.Value.Kind() {
		case slog.KindString:
			return slog.String(a.Key, sizeOf(len(a.Value.String())))
		case slog.KindAny:
			if b, ok := a.Value.Any().([]byte); ok {
				return slog.String(a.Key, sizeOf(len(b)))
			}
		}
	}

	if a.Value.Kind() == slog.KindString && a.Value.String() != "" && IsSensitiveKey(keyLower) {
		return slog.String(a.Key, redactedValue)
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

func sizeOf(n int) string {
	return fmt.Sprintf("<%d bytes>", n)
}

// Bytes returns an attribute that renders a binary key readably.
// Non-UTF-8 or oversized keys are quoted and truncated to MaxKeyDisplay bytes.
func Bytes(name string, b []byte) slog.Attr {
	return slog.String(name, DisplayKey(b))
}

// DisplayKey renders b for logs.
func DisplayKey(b []byte) string {
	truncated := false
	if len(b) > MaxKeyDisplay {
		b = b[:MaxKeyDisplay]
		truncated = true
	}

	var s string
	if utf8.Valid(b) && isPrintable(b) {
		s = string(b)
	} else {
		s = strconv.Quote(string(b))
	}
	if truncated {
		s += "..."
	}
	return s
}

func isPrintable(b []byte) bool {
	for _, c := range b {
		if c < 0x20 || c == 0x7f {
			return false
		}
	}
	return true
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
