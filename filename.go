package cloud

import (
	"strings"
	"unicode/utf8"
)

// IsValidFilename validates that a name is storable. Names are opaque keys,
// not filesystem paths, so interior spaces and slashes are allowed.
// It checks that the name:
//   - is not empty or "."
//   - does not start or end with "/"
//   - does not contain ".." (path traversal when clients write to disk)
//   - does not contain "//" (empty segments)
//   - does not contain backslashes
//   - is valid UTF-8
//   - does not contain null bytes, control characters (< 0x20), or DEL (0x7f)
//   - does not start or end with whitespace
//
// Returns true if the name is valid, false otherwise.
func IsValidFilename(name string) bool {
	if name == "" || name == "." {
		return false
	}

	if strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return false
	}

	if strings.Contains(name, "..") {
		return false
	}

	if strings.Contains(name, "//") {
		return false
	}

	if strings.Contains(name, `\`) {
		return false
	}

	if !utf8.ValidString(name) {
		return false
	}

	for _, r := range name {
		if r == 0 || r < 0x20 || r == 0x7f {
			return false
		}
	}

	if strings.TrimSpace(name) != name {
		return false
	}

	return true
}
