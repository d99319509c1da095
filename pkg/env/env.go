package env

import (
	"os"
	"strings"
)

// Lookup returns the trimmed value of key and whether it was set to anything
// other than whitespace.
func Lookup(key string) (string, bool) {
	val, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	val = strings.TrimSpace(val)
	return val, val != ""
}

// Get returns the value of key or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if val, ok := Lookup(key); ok {
		return val
	}
	return fallback
}

// First returns the value of the first key that is set, or fallback.
func First(fallback string, keys ...string) string {
	for _, key := range keys {
		if val, ok := Lookup(key); ok {
			return val
		}
	}
	return fallback
}
