// Package privilege holds the pre-flight elevation check. Provisioning
// mutates the host (packages, firmware, boot config), so it refuses to
// start without root, before any side effect.
package privilege

import "os"

// geteuid is swappable for tests.
var geteuid = os.Geteuid

// IsElevated reports whether the process runs with root privileges.
func IsElevated() bool {
	return geteuid() == 0
}

// SetEuidForTest overrides the euid source and returns a restore func.
func SetEuidForTest(euid int) func() {
	prev := geteuid
	geteuid = func() int { return euid }
	return func() { geteuid = prev }
}
