package pkg

import (
	"strings"
	"unsafe"
)

// BytesToString converts bytes slice to a string without extra allocation
func BytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// VersionFromCommitHash trims the raw git output to a short version string
func VersionFromCommitHash(raw []byte) string {
	hash := strings.TrimSpace(BytesToString(raw))
	if len(hash) > 12 {
		hash = hash[:12]
	}
	return hash
}
