// Package device derives a human-readable device label from a User-Agent
// string for login notifications and session records.
package device

import "strings"

const unknownDevice = "Unknown Device"

var browsers = []struct {
	token string
	name  string
}{
	// Order matters: Edge and Opera embed "Chrome", Chrome embeds "Safari".
	{"Edg/", "Edge"},
	{"Edge/", "Edge"},
	{"OPR/", "Opera"},
	{"Opera", "Opera"},
	{"Firefox/", "Firefox"},
	{"Chrome/", "Chrome"},
	{"Safari/", "Safari"},
}

var systems = []struct {
	token string
	name  string
}{
	{"Windows", "Windows"},
	{"Android", "Android"},
	{"iPhone", "iOS"},
	{"iPad", "iOS"},
	{"Mac OS X", "macOS"},
	{"Macintosh", "macOS"},
	{"Linux", "Linux"},
}

// Label returns "<Browser> on <OS>" on a best-effort basis, or
// "Unknown Device" when the user agent is empty or unrecognizable.
func Label(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return unknownDevice
	}

	browser := "Unknown Browser"
	for _, b := range browsers {
		if strings.Contains(userAgent, b.token) {
			browser = b.name
			break
		}
	}

	os := "Unknown OS"
	for _, s := range systems {
		if strings.Contains(userAgent, s.token) {
			os = s.name
			break
		}
	}

	if browser == "Unknown Browser" && os == "Unknown OS" {
		return unknownDevice
	}

	return browser + " on " + os
}
