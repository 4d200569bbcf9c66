// Package validate holds the input limits shared by the API and the player.
package validate

import "fmt"

const (
	MaxSourceURLLength   = 4096
	MaxStorageKeyLength  = 128
	MaxStorageValueBytes = 64 * 1024
)

func checkLen(value string, max int, field string) string {
	if len(value) > max {
		return fmt.Sprintf("%s must be %d characters or fewer", field, max)
	}
	return ""
}

// SourceURL checks a URL submitted for resolving or saving as a favorite.
func SourceURL(s string) string { return checkLen(s, MaxSourceURLLength, "url") }
func StorageKey(s string) string { return checkLen(s, MaxStorageKeyLength, "key") }

// StorageValue reports values too large for the key-value API.
func StorageValue(s string) string {
	if len(s) > MaxStorageValueBytes {
		return fmt.Sprintf("value must be %d bytes or fewer", MaxStorageValueBytes)
	}
	return ""
}

// FieldLimits returns the limits served at /api/limits.
func FieldLimits() map[string]int {
	return map[string]int{
		"sourceURL":    MaxSourceURLLength,
		"storageKey":   MaxStorageKeyLength,
		"storageValue": MaxStorageValueBytes,
	}
}
