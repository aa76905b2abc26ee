// Package deeplink recognizes OAuth callback URLs delivered to the
// application through its custom URL schemes.
package deeplink

import (
	"strings"
)

// Schemes are the URL prefixes registered for the application.
var Schemes = []string{"myapp://", "prophase://"}

// IsCallback reports whether raw is a URL in one of the application's schemes.
func IsCallback(raw string) bool {
	for _, scheme := range Schemes {
		if len(raw) > len(scheme) && strings.EqualFold(raw[:len(scheme)], scheme) {
			return true
		}
	}
	return false
}

// FromArgs returns the first callback URL found in process arguments.
// The OS passes the URL as an argument when it launches the application
// for a registered scheme.
func FromArgs(args []string) (string, bool) {
	for _, arg := range args {
		arg = strings.Trim(strings.TrimSpace(arg), `"`)
		if IsCallback(arg) {
			return arg, true
		}
	}
	return "", false
}
