package services

import "strings"

// Device classes reported for scans.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
	DeviceBot     = "bot"
	DeviceUnknown = "unknown"
)

// ParseUserAgent derives a coarse device class and operating system from a
// User-Agent header. Order matters: iPadOS and Android tablets also claim
// other platforms.
func ParseUserAgent(ua string) (device, os string) {
	s := strings.ToLower(ua)
	if s == "" {
		return DeviceUnknown, ""
	}

	switch {
	case strings.Contains(s, "windows"):
		os = "Windows"
	case strings.Contains(s, "iphone"), strings.Contains(s, "ipad"), strings.Contains(s, "ipod"):
		os = "iOS"
	case strings.Contains(s, "android"):
		os = "Android"
	case strings.Contains(s, "cros"):
		os = "ChromeOS"
	case strings.Contains(s, "mac os x"), strings.Contains(s, "macintosh"):
		os = "macOS"
	case strings.Contains(s, "linux"):
		os = "Linux"
	}

	switch {
	case strings.Contains(s, "bot"), strings.Contains(s, "spider"), strings.Contains(s, "crawl"):
		device = DeviceBot
	case strings.Contains(s, "ipad"), strings.Contains(s, "tablet"),
		strings.Contains(s, "android") && !strings.Contains(s, "mobile"):
		device = DeviceTablet
	case strings.Contains(s, "mobi"), strings.Contains(s, "iphone"), strings.Contains(s, "ipod"):
		device = DeviceMobile
	case os != "":
		device = DeviceDesktop
	default:
		device = DeviceUnknown
	}
	return device, os
}
