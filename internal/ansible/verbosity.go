package ansible

import "strings"

// MaxVerbosity is the highest verbosity ansible distinguishes. Higher counts
// collapse to it.
const MaxVerbosity = 4

// VerbosityFlag maps a -v occurrence count to the flag passed to the ansible
// tools. It reports false at count 0, where no flag is passed.
func VerbosityFlag(count int) (string, bool) {
	if count <= 0 {
		return "", false
	}
	return "-" + strings.Repeat("v", min(count, MaxVerbosity)), true
}
