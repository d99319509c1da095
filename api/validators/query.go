package validators

import (
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	pkgerrors "github.com/giftconnect/giftconnect-backend/pkg/errors"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseOptionalQueryInt64 returns nil when the key is absent.
func ParseOptionalQueryInt64(r *http.Request, key string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must not be negative").WithDetails(map[string]any{"field": key})
	}
	return &value, nil
}

// ParseQueryTriState maps "true"/"false" to a bool pointer. Any other value,
// including absence, yields nil.
func ParseQueryTriState(r *http.Request, key string) *bool {
	switch r.URL.Query().Get(key) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}

// QueryFlag reports whether the key is present with the literal value "true".
func QueryFlag(r *http.Request, key string) bool {
	return r.URL.Query().Get(key) == "true"
}

// ParseQueryText returns the trimmed value of key. Values longer than maxRunes
// are rejected, not cut, so a filter never silently widens.
func ParseQueryText(r *http.Request, key string, maxRunes int) (string, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if maxRunes > 0 && utf8.RuneCountInString(value) > maxRunes {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter too long").
			WithDetails(map[string]any{"field": key, "max": maxRunes})
	}
	return value, nil
}
