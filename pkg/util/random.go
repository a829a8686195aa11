package util

import (
	"strings"

	"github.com/google/uuid"
)

const trackingPrefix = "SA-"

// GenerateTrackingNumber returns an order tracking identifier such as SA-3F9A1C0B7E2D.
func GenerateTrackingNumber() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return trackingPrefix + strings.ToUpper(raw[:12])
}

// GenerateObjectKey builds a unique storage key under prefix keeping ext.
func GenerateObjectKey(prefix, ext string) string {
	return prefix + "/" + uuid.NewString() + ext
}
