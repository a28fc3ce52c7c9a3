// Package version compares the versions exchanged between keyactions
// servers and clients.
package version

import (
	"github.com/Masterminds/semver/v3"
)

// Header carries the server version on every provider response
const Header = "X-Keyactions-Version"

// IsNewer reports whether candidate is a later release than current.
// Loose versions like "v1.2" are accepted. An unparsable candidate is
// never newer; an unparsable current is older than any valid candidate.
func IsNewer(candidate, current string) bool {
	c, err := semver.NewVersion(candidate)
	if err != nil {
		return false
	}
	cur, err := semver.NewVersion(current)
	if err != nil {
		return true
	}
	return c.GreaterThan(cur)
}
