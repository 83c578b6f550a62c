package logger

import (
	"log/slog"
	"strconv"
	"strings"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Errors groups multiple non-nil errors under the key "errors".
// If all errors are nil, it returns an empty Attr.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// SessionID records a masked session identifier under "session_id".
// Identifiers are bearer credentials, so only a short prefix is logged.
func SessionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("session_id", Mask(id, 6, 0))
}

// Fingerprint records a masked fingerprint under "fingerprint".
func Fingerprint(fp string) slog.Attr {
	if fp == "" {
		return slog.Attr{}
	}
	return slog.String("fingerprint", Mask(fp, 8, 0))
}

// ClientAddress records the client network address under "client_address".
func ClientAddress(addr string) slog.Attr {
	if addr == "" {
		return slog.Attr{}
	}
	return slog.String("client_address", addr)
}

// State records a lifecycle state under "state".
func State(s string) slog.Attr {
	return slog.String("state", s)
}

// Transition records a state change as "from" -> "to" under "transition".
func Transition(from, to, event string) slog.Attr {
	return Group("transition",
		slog.String("from", from),
		slog.String("to", to),
		slog.String("event", event),
	)
}

// Operation records the storage or lifecycle operation under "operation".
func Operation(name string) slog.Attr {
	return slog.String("operation", name)
}

// Store records the storage backend name under "store".
func Store(name string) slog.Attr {
	return slog.String("store", name)
}

// RequestID records the request identifier under the key "request_id".
// If id is nil, it returns an empty Attr.
func RequestID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("request_id", id)
}

// Count records a number of affected items under "count".
func Count(n int) slog.Attr {
	return slog.Int("count", n)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Mask keeps keepPrefix leading and keepSuffix trailing characters of s and
// replaces the rest with a fixed "***" marker. Short values are fully masked.
func Mask(s string, keepPrefix, keepSuffix int) string {
	if len(s) <= keepPrefix+keepSuffix {
		return strings.Repeat("*", len(s))
	}
	return s[:keepPrefix] + "***" + s[len(s)-keepSuffix:]
}
